package document

import (
	"bytes"
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vanchuyen/logistics-api/internal/core/calendar"
	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/pricing"
)

type lineKind int

const (
	lineTitle lineKind = iota
	lineField
	lineHeading
	lineBullet
	lineTotal
)

type line struct {
	kind lineKind
	text string
}

// invoiceLines is the invoice content, top to bottom.
func invoiceLines(o *domain.Order) []line {
	return []line{
		{lineTitle, "HÓA ĐƠN VẬN CHUYỂN"},
		{lineField, "Mã đơn hàng: " + o.ID},
		{lineField, "Ngày tạo: " + calendar.ToCivil(o.CreatedAt).Format("15:04 02/01/2006")},

		{lineHeading, "Người gửi"},
		{lineBullet, "Họ tên: " + o.SenderName},
		{lineBullet, "SĐT: " + o.SenderPhone},
		{lineBullet, "Địa chỉ: " + o.PickupAddress},

		{lineHeading, "Người nhận"},
		{lineBullet, "Họ tên: " + o.ReceiverName},
		{lineBullet, "SĐT: " + o.ReceiverPhone},
		{lineBullet, "Địa chỉ: " + o.DeliveryAddress},

		{lineHeading, "Hàng hóa & Dịch vụ"},
		{lineBullet, "Loại hàng: " + cmp.Or(o.PackageType, "Thường")},
		{lineBullet, "Trọng lượng: " + strconv.FormatFloat(o.WeightKg, 'f', -1, 64) + " kg"},
		{lineBullet, "Loại xe: " + cmp.Or(o.VehicleType, "Xe máy")},
		{lineBullet, "Dịch vụ: " + cmp.Or(o.ServiceType, "Tiêu chuẩn")},
		{lineBullet, fmt.Sprintf("Tầng: %d | Bốc vác: %d người", o.Floors, o.Workers)},
		{lineBullet, "Ghi chú: " + cmp.Or(o.Note, "Không có")},

		{lineTotal, "TỔNG TIỀN: " + pricing.FormatVND(o.Price)},
	}
}

// InvoicePDF renders the A4 invoice of o.
func (r *Renderer) InvoicePDF(o *domain.Order) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetCreator("logistics-api", false)

	family, text := "Helvetica", asciiFold
	if len(r.font) > 0 {
		family, text = "invoice", func(s string) string { return s }
		pdf.AddUTF8FontFromBytes(family, "", r.font)
	}

	pdf.AddPage()
	for _, l := range invoiceLines(o) {
		switch l.kind {
		case lineTitle:
			pdf.SetFont(family, "", 22)
			pdf.CellFormat(0, 12, text(l.text), "", 1, "C", false, 0, "")
			pdf.Ln(6)
		case lineField:
			pdf.SetFont(family, "", 13)
			pdf.CellFormat(0, 7, text(l.text), "", 1, "L", false, 0, "")
		case lineHeading:
			pdf.Ln(5)
			pdf.SetFont(family, "U", 15)
			pdf.CellFormat(0, 8, text(l.text), "", 1, "L", false, 0, "")
		case lineBullet:
			pdf.SetFont(family, "", 12)
			pdf.MultiCell(0, 6, text("- "+l.text), "", "L", false)
		case lineTotal:
			pdf.Ln(8)
			pdf.SetFont(family, "", 18)
			pdf.CellFormat(0, 10, text(l.text), "", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", o.ID, err)
	}
	return buf.Bytes(), nil
}

// asciiFold strips Vietnamese diacritics for the core PDF fonts, which only
// cover Latin-1. Runes it cannot fold become '?'.
func asciiFold(s string) string {
	s = strings.NewReplacer("đ", "d", "Đ", "D").Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '?'
		}
		return r
	}, s)
}
