package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// Mailer abstrai o provedor de e-mail; o dispatcher só conhece esta
// interface.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// --------------------------------------------------
// SendGrid
// --------------------------------------------------

type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	email := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid status %d", resp.StatusCode)
	}
	return nil
}

// --------------------------------------------------
// Fallback sem chave configurada (dev/local)
// --------------------------------------------------

type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Printf("mail (dry-run) to=%s subject=%q", msg.To, msg.Subject)
	return nil
}
