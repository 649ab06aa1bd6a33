package domain

import "errors"

var ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
var ErrMissingParameter = errors.New("missing required parameter")
