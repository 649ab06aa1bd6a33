package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// requestValidator lets Echo run the validate tags of request schemas through
// c.Validate. Messages name fields by their json key.
type requestValidator struct {
	v     *validator.Validate
	trans ut.Translator
}

// NewValidator is assigned to echo.Echo.Validator by the router.
func NewValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
		panic("validator: register translations: " + err.Error())
	}
	return &requestValidator{v: v, trans: trans}
}

// Validate joins every field failure into one message, e.g.
// "receiver_name is a required field; floors must be 0 or greater".
func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	msgs := make([]string, len(fields))
	for n, fe := range fields {
		msgs[n] = fe.Translate(rv.trans)
	}
	return errors.New(strings.Join(msgs, "; "))
}
