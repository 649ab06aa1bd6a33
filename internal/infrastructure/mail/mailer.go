package mail

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"

	"github.com/vanchuyen/logistics-api/internal/core/domain"
	"github.com/vanchuyen/logistics-api/internal/core/ports"
)

const (
	defaultTimeout = 15 * time.Second
	smtpsPort      = 465
)

// SMTPConfig holds the relay settings. Auth is skipped when User is empty.
type SMTPConfig struct {
	Host    string
	Port    int
	User    string
	Pass    string
	From    string
	Timeout time.Duration
}

// SMTPMailer sends mails through an SMTP relay. Every delivery is bound to
// the caller's context, including reads from a relay that stops answering.
type SMTPMailer struct {
	cfg  SMTPConfig
	docs ports.DocumentRenderer
	send func(ctx context.Context, msg *gomail.Msg) error
}

// NewSMTPMailer uses docs to attach the PDF invoice to invoice mails.
func NewSMTPMailer(cfg SMTPConfig, docs ports.DocumentRenderer) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	m := &SMTPMailer{cfg: cfg, docs: docs}
	m.send = m.dialAndSend
	return m
}

func (m *SMTPMailer) SendInvoice(ctx context.Context, to string, o *domain.Order) error {
	msg, err := m.compose(to, invoiceMessage(o))
	if err != nil {
		return err
	}
	pdf, err := m.docs.InvoicePDF(o)
	if err != nil {
		return fmt.Errorf("invoice attachment: %w", err)
	}
	err = msg.AttachReader(invoiceFilename(o), bytes.NewReader(pdf),
		gomail.WithFileContentType(gomail.ContentType("application/pdf")))
	if err != nil {
		return fmt.Errorf("invoice attachment: %w", err)
	}
	return m.deliver(ctx, to, msg)
}

func (m *SMTPMailer) SendStatus(ctx context.Context, to string, o *domain.Order) error {
	msg, err := m.compose(to, statusMessage(o))
	if err != nil {
		return err
	}
	return m.deliver(ctx, to, msg)
}

func (m *SMTPMailer) compose(to string, c Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(senderName, m.cfg.From); err != nil {
		return nil, fmt.Errorf("mail from %q: %w", m.cfg.From, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("mail to %q: %w", to, err)
	}
	msg.Subject(c.Subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(gomail.TypeTextPlain, c.Body)
	return msg, nil
}

func (m *SMTPMailer) deliver(ctx context.Context, to string, msg *gomail.Msg) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

func (m *SMTPMailer) dialAndSend(ctx context.Context, msg *gomail.Msg) error {
	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTimeout(m.cfg.Timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithDialContextFunc(boundDialer(ctx)),
	}
	if m.cfg.Port == smtpsPort {
		opts = append(opts, gomail.WithSSL())
	}
	if m.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.User),
			gomail.WithPassword(m.cfg.Pass),
		)
	}

	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// boundDialer ties the relay connection to ctx: its deadline becomes the
// socket deadline and cancelling ctx aborts any read or write in flight.
func boundDialer(ctx context.Context) gomail.DialContextFunc {
	return func(dialCtx context.Context, network, addr string) (net.Conn, error) {
		var d net.Dialer
		conn, err := d.DialContext(dialCtx, network, addr)
		if err != nil {
			return nil, err
		}
		if deadline, ok := ctx.Deadline(); ok {
			_ = conn.SetDeadline(deadline)
		}
		context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
		return conn, nil
	}
}

func invoiceFilename(o *domain.Order) string {
	return "hoadon_" + o.ID + ".pdf"
}

// LogMailer writes mails to the log instead of sending them. Used when no
// SMTP relay is configured.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendInvoice(_ context.Context, to string, o *domain.Order) error {
	m.write(to, o, invoiceMessage(o)).Str("attachment", invoiceFilename(o)).Msg("mail not sent, smtp disabled")
	return nil
}

func (m *LogMailer) SendStatus(_ context.Context, to string, o *domain.Order) error {
	m.write(to, o, statusMessage(o)).Msg("mail not sent, smtp disabled")
	return nil
}

func (m *LogMailer) write(to string, o *domain.Order, msg Message) *zerolog.Event {
	return m.log.Info().
		Str("to", to).
		Str("order_id", o.ID).
		Str("subject", msg.Subject).
		Str("body", msg.Body)
}
