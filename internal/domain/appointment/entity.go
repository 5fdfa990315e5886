package appointment

import (
	"time"

	"github.com/agendly-app/booking-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func transition(ap *models.Appointment, to Status) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}
	ap.Status = string(to)
	return nil
}

func Confirm(ap *models.Appointment) error {
	return transition(ap, StatusConfirmed)
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := transition(ap, StatusCanceled); err != nil {
		return err
	}
	ap.CanceledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := transition(ap, StatusCompleted); err != nil {
		return err
	}
	ap.CompletedAt = &now
	return nil
}

func MarkNoShow(ap *models.Appointment) error {
	return transition(ap, StatusNoShow)
}

// Reschedule move o agendamento para a nova janela. A validação de
// conflito contra a agenda corrente é responsabilidade do chamador,
// dentro da mesma transação que persiste a mudança.
func Reschedule(ap *models.Appointment, professionalID uint, start, end time.Time) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}
	ap.ProfessionalID = professionalID
	ap.StartTime = start
	ap.EndTime = end
	return nil
}
