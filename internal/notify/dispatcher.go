package notify

import (
	"context"
	"fmt"
	"log"
	"time"
)

type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindReminder     Kind = "reminder"
	KindCancellation Kind = "cancellation"
	KindReschedule   Kind = "reschedule"
)

// Notification é o pedido de envio; o dispatcher resolve assunto e corpo.
type Notification struct {
	Kind Kind

	To     string
	ToName string

	EstablishmentName string
	ServiceName       string
	StartTime         time.Time

	// Link de autoatendimento (apenas confirmação)
	ManageToken string
}

// Dispatcher envia e-mails fire-and-forget: o sucesso da mutação que o
// disparou nunca depende do envio. Fila cheia descarta com log.
type Dispatcher struct {
	mailer Mailer
	queue  chan Notification
}

func NewDispatcher(mailer Mailer) *Dispatcher {
	d := &Dispatcher{
		mailer: mailer,
		queue:  make(chan Notification, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for n := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := d.mailer.Send(ctx, d.compose(n)); err != nil {
			log.Println("notify error:", err)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(n Notification) {
	if d == nil || n.To == "" {
		return
	}
	select {
	case d.queue <- n:
	default:
		log.Println("notify queue full, dropping notification")
	}
}

func (d *Dispatcher) compose(n Notification) Message {
	when := n.StartTime.Format("02/01/2006 15:04")

	var subject, body string
	switch n.Kind {
	case KindConfirmation:
		subject = fmt.Sprintf("Agendamento confirmado — %s", n.EstablishmentName)
		body = fmt.Sprintf(
			"Olá %s,\n\nSeu horário de %s em %s está marcado para %s.\n\n"+
				"Para remarcar ou cancelar, use o link enviado com o código %s.\n",
			n.ToName, n.ServiceName, n.EstablishmentName, when, n.ManageToken,
		)
	case KindReminder:
		subject = fmt.Sprintf("Lembrete — %s", n.EstablishmentName)
		body = fmt.Sprintf(
			"Olá %s,\n\nLembrete: seu horário de %s em %s é %s.\n",
			n.ToName, n.ServiceName, n.EstablishmentName, when,
		)
	case KindCancellation:
		subject = fmt.Sprintf("Agendamento cancelado — %s", n.EstablishmentName)
		body = fmt.Sprintf(
			"Olá %s,\n\nSeu horário de %s em %s (%s) foi cancelado.\n",
			n.ToName, n.ServiceName, n.EstablishmentName, when,
		)
	case KindReschedule:
		subject = fmt.Sprintf("Agendamento remarcado — %s", n.EstablishmentName)
		body = fmt.Sprintf(
			"Olá %s,\n\nSeu horário de %s em %s foi remarcado para %s.\n",
			n.ToName, n.ServiceName, n.EstablishmentName, when,
		)
	}

	return Message{
		To:      n.To,
		ToName:  n.ToName,
		Subject: subject,
		Body:    body,
	}
}
