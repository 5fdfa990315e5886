package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	sent chan Message
}

func (m *captureMailer) Send(_ context.Context, msg Message) error {
	m.sent <- msg
	return nil
}

func TestDispatcherSendsAsync(t *testing.T) {
	mailer := &captureMailer{sent: make(chan Message, 1)}
	d := NewDispatcher(mailer)

	d.Dispatch(Notification{
		Kind:              KindConfirmation,
		To:                "cliente@example.com",
		ToName:            "Bruno",
		EstablishmentName: "Estúdio Exemplo",
		ServiceName:       "Corte",
		StartTime:         time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC),
		ManageToken:       "tok123",
	})

	select {
	case msg := <-mailer.sent:
		assert.Equal(t, "cliente@example.com", msg.To)
		assert.Contains(t, msg.Subject, "Agendamento confirmado")
		assert.Contains(t, msg.Body, "15/10/2026 10:00")
		assert.Contains(t, msg.Body, "tok123")
	case <-time.After(2 * time.Second):
		t.Fatal("notificação não chegou ao mailer")
	}
}

func TestDispatcherSkipsEmptyRecipient(t *testing.T) {
	mailer := &captureMailer{sent: make(chan Message, 1)}
	d := NewDispatcher(mailer)

	d.Dispatch(Notification{Kind: KindReminder, To: ""})

	select {
	case <-mailer.sent:
		t.Fatal("não deveria enviar sem destinatário")
	case <-time.After(100 * time.Millisecond):
	}
}

type stuckMailer struct {
	block chan struct{}
}

func (m *stuckMailer) Send(_ context.Context, _ Message) error {
	<-m.block
	return nil
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	mailer := &stuckMailer{block: make(chan struct{})}
	defer close(mailer.block)
	d := NewDispatcher(mailer)

	// worker trava no primeiro envio; o excedente da fila deve ser
	// descartado sem bloquear quem despacha
	done := make(chan struct{})
	go func() {
		for i := 0; i < 150; i++ {
			d.Dispatch(Notification{Kind: KindReminder, To: "x@example.com"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch bloqueou com a fila cheia")
	}
}

func TestComposePerKind(t *testing.T) {
	d := NewDispatcher(&captureMailer{sent: make(chan Message, 10)})
	start := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		kind    Kind
		subject string
	}{
		{KindConfirmation, "Agendamento confirmado"},
		{KindReminder, "Lembrete"},
		{KindCancellation, "Agendamento cancelado"},
		{KindReschedule, "Agendamento remarcado"},
	}

	for _, tt := range tests {
		msg := d.compose(Notification{
			Kind:              tt.kind,
			To:                "x@example.com",
			ToName:            "X",
			EstablishmentName: "Estúdio",
			ServiceName:       "Corte",
			StartTime:         start,
		})
		require.NotEmpty(t, msg.Subject, string(tt.kind))
		assert.Contains(t, msg.Subject, tt.subject)
		assert.Contains(t, msg.Subject, "Estúdio")
	}
}
