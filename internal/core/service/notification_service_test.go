package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/ports"
)

type sentMail struct {
	kind    string
	to      string
	orderID string
	status  domain.OrderStatus
}

type recordingMailer struct {
	sent    []sentMail
	sendErr error
}

func (m *recordingMailer) SendInvoice(_ context.Context, to string, o *domain.Order) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{kind: "invoice", to: to, orderID: o.ID, status: o.Status})
	return nil
}

func (m *recordingMailer) SendStatus(_ context.Context, to string, o *domain.Order) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{kind: "status", to: to, orderID: o.ID, status: o.Status})
	return nil
}

func newNotificationFixture() (ports.NotificationService, *stubOrderRepo, *recordingMailer) {
	orders := newStubOrderRepo()
	users := newStubUserRepo(&domain.User{ID: "u1", Email: "an@example.com"}, &domain.User{ID: "u2"})
	mailer := &recordingMailer{}
	return NewNotificationService(orders, users, mailer, discardLogger), orders, mailer
}

func TestNotificationService_Deliver_Invoice(t *testing.T) {
	svc, orders, mailer := newNotificationFixture()
	o := orders.seed(domain.Order{UserID: "u1", Status: domain.StatusPending})

	if err := svc.Deliver(context.Background(), ports.NotificationJob{Kind: ports.NotifyInvoice, OrderID: o.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(mailer.sent))
	}
	if got := mailer.sent[0]; got.kind != "invoice" || got.to != "an@example.com" {
		t.Errorf("unexpected mail %+v", got)
	}
}

func TestNotificationService_Deliver_StatusUsesCurrentSnapshot(t *testing.T) {
	svc, orders, mailer := newNotificationFixture()
	o := orders.seed(domain.Order{UserID: "u1", Status: domain.StatusPending})
	orders.byID[o.ID].Status = domain.StatusDelivering

	if err := svc.Deliver(context.Background(), ports.NotificationJob{Kind: ports.NotifyStatus, OrderID: o.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mailer.sent[0].status != domain.StatusDelivering {
		t.Errorf("expected delivering, got %s", mailer.sent[0].status)
	}
}

func TestNotificationService_Deliver_SkipsOwnerWithoutEmail(t *testing.T) {
	svc, orders, mailer := newNotificationFixture()
	o := orders.seed(domain.Order{UserID: "u2"})

	if err := svc.Deliver(context.Background(), ports.NotificationJob{Kind: ports.NotifyInvoice, OrderID: o.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("expected no mail, got %d", len(mailer.sent))
	}
}

func TestNotificationService_Deliver_Errors(t *testing.T) {
	svc, orders, mailer := newNotificationFixture()

	err := svc.Deliver(context.Background(), ports.NotificationJob{Kind: ports.NotifyStatus, OrderID: "missing"})
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}

	o := orders.seed(domain.Order{UserID: "u1"})
	mailer.sendErr = errors.New("smtp refused")
	err = svc.Deliver(context.Background(), ports.NotificationJob{Kind: ports.NotifyStatus, OrderID: o.ID})
	if !errors.Is(err, mailer.sendErr) {
		t.Errorf("expected send error, got %v", err)
	}
}
