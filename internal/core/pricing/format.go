package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var vnd = message.NewPrinter(language.Vietnamese)

// FormatVND renders an amount with Vietnamese digit grouping, e.g. "1.500.000 VNĐ".
func FormatVND(amount int64) string {
	return vnd.Sprintf("%d VNĐ", amount)
}
