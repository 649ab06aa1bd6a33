package mail

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/pricing"
)

type stubDocs struct {
	err error
}

func (d stubDocs) TrackingQR(string) ([]byte, error) { return nil, d.err }

func (d stubDocs) InvoicePDF(*domain.Order) ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	return []byte("%PDF-1.3 test"), nil
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:              "65f0c2a1e4b0a1b2c3d4e5f6",
		SenderName:      "Nguyễn Văn A",
		ReceiverName:    "Trần Thị B",
		PickupAddress:   "1 Lê Lợi",
		DeliveryAddress: "2 Hai Bà Trưng",
		PackageType:     "furniture",
		Price:           1_500_000,
		Status:          domain.StatusDelivering,
		CreatedAt:       time.Date(2024, 3, 10, 16, 30, 0, 0, time.UTC),
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Đang vận chuyển", StatusLabel(domain.StatusDelivering))
	assert.Equal(t, "Đã hủy", StatusLabel(domain.StatusCancelled))
	assert.Equal(t, "lost", StatusLabel("lost"))
}

func TestInvoiceMessage(t *testing.T) {
	msg := invoiceMessage(sampleOrder())

	assert.Equal(t, "Hóa đơn đơn hàng #65f0c2a1e4b0a1b2c3d4e5f6", msg.Subject)
	assert.Contains(t, msg.Body, "Nguyễn Văn A")
	assert.Contains(t, msg.Body, pricing.FormatVND(1_500_000))
	// 16:30 UTC is 23:30 in UTC+7.
	assert.Contains(t, msg.Body, "23:30 10/03/2024")
}

func TestStatusMessage(t *testing.T) {
	o := sampleOrder()
	msg := statusMessage(o)
	assert.Equal(t, "[Đang vận chuyển] Đơn hàng #65f0c2a1e4b0a1b2c3d4e5f6", msg.Subject)
	assert.NotContains(t, msg.Body, "Đã thanh toán")

	o.IsPaid = true
	assert.Contains(t, statusMessage(o).Body, "Đã thanh toán")
}

func TestSMTPMailer_InvoiceCarriesPDF(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, User: "noreply@example.com", Pass: "secret"}, stubDocs{})

	var got *gomail.Msg
	m.send = func(_ context.Context, msg *gomail.Msg) error {
		got = msg
		return nil
	}

	require.NoError(t, m.SendInvoice(context.Background(), "an@example.com", sampleOrder()))
	require.NotNil(t, got)

	rcpts, err := got.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"an@example.com"}, rcpts)
	assert.Equal(t, []string{"Hóa đơn đơn hàng #65f0c2a1e4b0a1b2c3d4e5f6"}, got.GetGenHeader(gomail.HeaderSubject))

	files := got.GetAttachments()
	require.Len(t, files, 1)
	assert.Equal(t, "hoadon_65f0c2a1e4b0a1b2c3d4e5f6.pdf", files[0].Name)

	var raw bytes.Buffer
	_, err = got.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "application/pdf")
	assert.Contains(t, raw.String(), "text/plain")
}

func TestSMTPMailer_StatusHasNoAttachment(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"}, stubDocs{})
	var got *gomail.Msg
	m.send = func(_ context.Context, msg *gomail.Msg) error {
		got = msg
		return nil
	}

	require.NoError(t, m.SendStatus(context.Background(), "an@example.com", sampleOrder()))
	require.NotNil(t, got)
	assert.Empty(t, got.GetAttachments())
}

func TestSMTPMailer_InvoiceRenderError(t *testing.T) {
	boom := errors.New("font missing")
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25, From: "noreply@example.com"}, stubDocs{err: boom})
	m.send = func(context.Context, *gomail.Msg) error {
		t.Fatal("send must not be called")
		return nil
	}

	assert.ErrorIs(t, m.SendInvoice(context.Background(), "an@example.com", sampleOrder()), boom)
}

func TestSMTPMailer_WrapsSendError(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25, From: "noreply@example.com"}, stubDocs{})
	boom := errors.New("connection refused")
	m.send = func(context.Context, *gomail.Msg) error { return boom }

	err := m.SendStatus(context.Background(), "an@example.com", sampleOrder())
	assert.ErrorIs(t, err, boom)
}

func TestSMTPMailer_RejectsBadRecipient(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25, From: "noreply@example.com"}, stubDocs{})
	m.send = func(context.Context, *gomail.Msg) error {
		t.Fatal("send must not be called")
		return nil
	}

	assert.Error(t, m.SendStatus(context.Background(), "not an address", sampleOrder()))
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25, From: "noreply@example.com"}, stubDocs{})
	m.send = func(context.Context, *gomail.Msg) error {
		t.Fatal("send must not be called")
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.SendStatus(ctx, "an@example.com", sampleOrder()), context.Canceled)
}

// silentRelay accepts connections and never sends the SMTP greeting.
func silentRelay(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan struct{})
	t.Cleanup(func() {
		close(done)
		_ = ln.Close()
	})
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				<-done
				_ = conn.Close()
			}()
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestSMTPMailer_SilentRelayRespectsDeadline(t *testing.T) {
	port := silentRelay(t)
	m := NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", Port: port, From: "noreply@example.com", Timeout: 10 * time.Second}, stubDocs{})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := m.SendStatus(ctx, "an@example.com", sampleOrder())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestSMTPMailer_SilentRelayRespectsCancel(t *testing.T) {
	port := silentRelay(t)
	m := NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", Port: port, From: "noreply@example.com", Timeout: 10 * time.Second}, stubDocs{})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	start := time.Now()
	err := m.SendInvoice(ctx, "an@example.com", sampleOrder())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestLogMailer_WritesSubject(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf))

	require.NoError(t, m.SendInvoice(context.Background(), "an@example.com", sampleOrder()))
	assert.Contains(t, buf.String(), "65f0c2a1e4b0a1b2c3d4e5f6")
	assert.Contains(t, buf.String(), "an@example.com")
	assert.Contains(t, buf.String(), "hoadon_65f0c2a1e4b0a1b2c3d4e5f6.pdf")
}
