package mail

import (
	"fmt"
	"strings"

	"github.com/vanchuyen/logistics-api/internal/core/calendar"
	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/pricing"
)

const senderName = "Hệ thống Vận chuyển"

var statusLabels = map[domain.OrderStatus]string{
	domain.StatusPending:    "Đang chờ xử lý",
	domain.StatusConfirmed:  "Đã xác nhận",
	domain.StatusPicking:    "Đang lấy hàng",
	domain.StatusDelivering: "Đang vận chuyển",
	domain.StatusCompleted:  "Đã giao hàng",
	domain.StatusCancelled:  "Đã hủy",
}

// StatusLabel returns the customer-facing label of a status.
func StatusLabel(s domain.OrderStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func civilTime(o *domain.Order) string {
	return calendar.ToCivil(o.CreatedAt).Format("15:04 02/01/2006")
}

// Message is a composed plain-text mail.
type Message struct {
	Subject string
	Body    string
}

func invoiceMessage(o *domain.Order) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Xin chào %s,\n\n", o.SenderName)
	fmt.Fprintf(&b, "Hóa đơn đơn hàng #%s của bạn:\n\n", o.ID)
	fmt.Fprintf(&b, "  Ngày tạo:      %s\n", civilTime(o))
	fmt.Fprintf(&b, "  Người nhận:    %s\n", o.ReceiverName)
	fmt.Fprintf(&b, "  Điểm lấy hàng: %s\n", o.PickupAddress)
	fmt.Fprintf(&b, "  Điểm giao:     %s\n", o.DeliveryAddress)
	fmt.Fprintf(&b, "  Loại hàng:     %s\n", o.PackageType)
	fmt.Fprintf(&b, "  Tổng tiền:     %s\n", pricing.FormatVND(o.Price))
	fmt.Fprintf(&b, "  Trạng thái:    %s\n", StatusLabel(o.Status))
	b.WriteString("\nHóa đơn PDF được đính kèm trong thư này.\n")
	b.WriteString("Cảm ơn bạn đã sử dụng dịch vụ.\n")

	return Message{
		Subject: fmt.Sprintf("Hóa đơn đơn hàng #%s", o.ID),
		Body:    b.String(),
	}
}

func statusMessage(o *domain.Order) Message {
	label := StatusLabel(o.Status)

	var b strings.Builder
	fmt.Fprintf(&b, "Đơn hàng #%s của bạn đã được cập nhật.\n\n", o.ID)
	fmt.Fprintf(&b, "Trạng thái mới: %s\n", label)
	if o.IsPaid {
		fmt.Fprintf(&b, "Đã thanh toán: %s\n", pricing.FormatVND(o.Price))
	}
	b.WriteString("\nVui lòng đăng nhập để xem chi tiết.\n")

	return Message{
		Subject: fmt.Sprintf("[%s] Đơn hàng #%s", label, o.ID),
		Body:    b.String(),
	}
}
