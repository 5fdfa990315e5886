package appointment

import (
	"context"
	"time"

	"github.com/agendly-app/booking-api/internal/audit"
	"github.com/agendly-app/booking-api/internal/cache"
	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/domain/schedule"
	"github.com/agendly-app/booking-api/internal/httperr"
	"github.com/agendly-app/booking-api/internal/models"
	"github.com/agendly-app/booking-api/internal/notify"
	"github.com/agendly-app/booking-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type RescheduleInput struct {
	EstablishmentID uint
	AppointmentID   uint

	// 0 = mantém o profissional atual
	NewProfessionalID uint

	Date string // YYYY-MM-DD
	Time string // HH:mm

	ByUserID *uint
}

// ======================================================
// USE CASE
// ======================================================

type RescheduleAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
	cache  *cache.Availability
	now    func(tz string) time.Time
}

func NewRescheduleAppointment(
	repo domain.Repository,
	auditD *audit.Dispatcher,
	notifyD *notify.Dispatcher,
	c *cache.Availability,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:   repo,
		audit:  auditD,
		notify: notifyD,
		cache:  c,
		now:    timezone.NowIn,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, in.EstablishmentID)
	if err != nil {
		return nil, err
	}

	now := uc.now(est.Timezone)

	var ap *models.Appointment
	var oldProfID uint
	var oldStart time.Time

	err = uc.repo.Atomically(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointmentForUpdate(ctx, in.AppointmentID)
		if err != nil || ap.EstablishmentID != in.EstablishmentID {
			return httperr.ErrBusiness("appointment_not_found")
		}

		oldProfID = ap.ProfessionalID
		oldStart = ap.StartTime

		return applyReschedule(ctx, tx, est, ap, rescheduleChange{
			NewProfessionalID: in.NewProfessionalID,
			Date:              in.Date,
			Time:              in.Time,
		}, now)
	})
	if err != nil {
		return nil, err
	}

	uc.afterReschedule(ctx, est, ap, oldProfID, oldStart, in.ByUserID)

	return ap, nil
}

func (uc *RescheduleAppointment) afterReschedule(
	ctx context.Context,
	est *models.Establishment,
	ap *models.Appointment,
	oldProfID uint,
	oldStart time.Time,
	byUserID *uint,
) {
	uc.cache.Invalidate(ctx, oldProfID, oldStart.Format("2006-01-02"))
	uc.cache.Invalidate(ctx, ap.ProfessionalID, ap.StartTime.Format("2006-01-02"))

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: est.ID,
		UserID:          byUserID,
		Action:          "appointment_rescheduled",
		Entity:          "appointment",
		EntityID:        &ap.ID,
	})

	dispatchFor(ctx, uc.repo, uc.notify, notify.KindReschedule, ap.ID)
}

// ======================================================
// NÚCLEO COMPARTILHADO (staff e autoatendimento)
// ======================================================

type rescheduleChange struct {
	NewProfessionalID uint
	Date              string
	Time              string
}

// applyReschedule revalida e aplica a mudança de horário DENTRO da
// transação do chamador, com a linha do agendamento já travada:
//
//  1. agendamento não terminal
//  2. antecedência mínima quando configurada
//  3. janela efetiva do (novo) profissional
//  4. nenhum intervalo bloqueado intersecta [novo início, novo fim),
//     excluindo o próprio agendamento
func applyReschedule(
	ctx context.Context,
	tx domain.Repository,
	est *models.Establishment,
	ap *models.Appointment,
	change rescheduleChange,
	now time.Time,
) error {

	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return err
	}

	newProfID := change.NewProfessionalID
	if newProfID == 0 {
		newProfID = ap.ProfessionalID
	}

	// trava a agenda de destino: FOR UPDATE nos agendamentos não cobre
	// dia vazio, a linha do profissional é o ponto de serialização
	prof, err := tx.GetProfessionalForUpdate(ctx, est.ID, newProfID)
	if err != nil || !prof.Active {
		return httperr.ErrBusiness("professional_not_found")
	}

	loc := timezone.Location(est.Timezone)
	start, err := time.ParseInLocation("2006-01-02 15:04", change.Date+" "+change.Time, loc)
	if err != nil {
		return httperr.ErrBusiness("invalid_date_or_time")
	}

	if est.RescheduleMinHours > 0 {
		minAllowed := now.Add(time.Duration(est.RescheduleMinHours) * time.Hour)
		if start.Before(minAllowed) {
			return httperr.ErrBusiness(httperr.CodeMinimumNotice)
		}
	} else if !start.After(now) {
		return httperr.ErrBusiness("start_in_past")
	}

	svc, err := tx.GetService(ctx, est.ID, ap.ServiceID)
	if err != nil {
		return httperr.ErrBusiness("service_not_found")
	}
	end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

	ok, err := withinResolvedHours(ctx, tx, est.ID, newProfID, start, end)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrBusiness("outside_working_hours")
	}

	blocked, err := collectBlocked(ctx, tx, blockedQuery{
		EstablishmentID:      est.ID,
		ProfessionalID:       newProfID,
		Date:                 start,
		Buffer:               time.Duration(est.BufferMin) * time.Minute,
		ExcludeAppointmentID: ap.ID,
	})
	if err != nil {
		return err
	}
	if schedule.OverlapsAny(blocked, start, end) {
		return httperr.ErrBusiness(httperr.CodeSlotConflict)
	}

	oldStart := ap.StartTime
	if err := domain.Reschedule(ap, newProfID, start, end); err != nil {
		return err
	}

	if err := tx.UpdateAppointment(ctx, ap); err != nil {
		return err
	}

	return tx.RecordEvent(ctx, &models.AppointmentEvent{
		AppointmentID: ap.ID,
		FromStatus:    ap.Status,
		ToStatus:      ap.Status,
		OldStart:      &oldStart,
		NewStart:      &start,
		OccurredAt:    now,
	})
}

// dispatchFor monta a notificação com os dados frescos do agendamento.
// Fire-and-forget: falha aqui nunca desfaz a mutação já commitada.
func dispatchFor(
	ctx context.Context,
	repo domain.Repository,
	notifyD *notify.Dispatcher,
	kind notify.Kind,
	appointmentID uint,
) {
	detail, err := repo.GetAppointmentDetail(ctx, appointmentID)
	if err != nil {
		return
	}

	notifyD.Dispatch(notify.Notification{
		Kind:              kind,
		To:                detail.Customer.Email,
		ToName:            detail.Customer.Name,
		EstablishmentName: detail.Establishment.Name,
		ServiceName:       detail.Service.Name,
		StartTime:         detail.StartTime,
	})
}
