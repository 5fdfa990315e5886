package appointment

import (
	"context"
	"time"

	"github.com/agendly-app/booking-api/internal/audit"
	"github.com/agendly-app/booking-api/internal/cache"
	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/domain/schedule"
	"github.com/agendly-app/booking-api/internal/httperr"
	"github.com/agendly-app/booking-api/internal/managetoken"
	"github.com/agendly-app/booking-api/internal/models"
	"github.com/agendly-app/booking-api/internal/notify"
	"github.com/agendly-app/booking-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	EstablishmentID uint
	ProfessionalID  uint
	ServiceID       uint

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	Date  string // YYYY-MM-DD
	Time  string // HH:mm
	Notes string

	// true quando vem da página pública: respeita BookingEnabled e
	// emite token de autoatendimento + e-mail de confirmação
	Public   bool
	ByUserID *uint
}

type CreateAppointmentOutput struct {
	Appointment *models.Appointment
	ManageToken string // em claro, só no fluxo público
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notify   *notify.Dispatcher
	cache    *cache.Availability
	tokenTTL time.Duration
	now      func(tz string) time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	auditD *audit.Dispatcher,
	notifyD *notify.Dispatcher,
	c *cache.Availability,
	tokenTTL time.Duration,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		audit:    auditD,
		notify:   notifyD,
		cache:    c,
		tokenTTL: tokenTTL,
		now:      timezone.NowIn,
	}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*CreateAppointmentOutput, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, in.EstablishmentID)
	if err != nil {
		return nil, err
	}

	if in.Public && !est.BookingEnabled {
		return nil, httperr.ErrBusiness(httperr.CodeBookingDisabled)
	}

	loc := timezone.Location(est.Timezone)
	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := uc.now(est.Timezone)
	if !start.After(now) {
		return nil, httperr.ErrBusiness("start_in_past")
	}
	if est.MaxFutureDays > 0 && start.After(now.AddDate(0, 0, est.MaxFutureDays)) {
		return nil, httperr.ErrBusiness(httperr.CodeBeyondHorizon)
	}

	svc, err := uc.repo.GetService(ctx, in.EstablishmentID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	prof, err := uc.repo.GetProfessional(ctx, in.EstablishmentID, in.ProfessionalID)
	if err != nil || !prof.Active {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	offers, err := uc.repo.ProfessionalOffersService(ctx, prof.ID, svc.ID)
	if err != nil {
		return nil, err
	}
	if !offers {
		return nil, httperr.ErrBusiness("service_not_offered")
	}

	end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

	customer, err := uc.repo.GetOrCreateCustomer(
		ctx,
		in.EstablishmentID,
		in.CustomerName,
		in.CustomerPhone,
		in.CustomerEmail,
	)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		EstablishmentID: in.EstablishmentID,
		ProfessionalID:  prof.ID,
		CustomerID:      customer.ID,
		ServiceID:       svc.ID,
		StartTime:       start,
		EndTime:         end,
		Status:          string(domain.InitialStatus()),
		Notes:           in.Notes,
	}

	var tokenPlain string

	// check-then-act numa única transação: a linha do profissional é
	// travada antes da checagem de conflito, então escritores concorrentes
	// da mesma agenda não passam os dois — mesmo num dia sem agendamentos.
	err = uc.repo.Atomically(ctx, func(tx domain.Repository) error {
		if _, err := tx.GetProfessionalForUpdate(ctx, est.ID, prof.ID); err != nil {
			return httperr.ErrBusiness("professional_not_found")
		}

		ok, err := withinResolvedHours(ctx, tx, est.ID, prof.ID, start, end)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrBusiness("outside_working_hours")
		}

		blocked, err := collectBlocked(ctx, tx, blockedQuery{
			EstablishmentID: est.ID,
			ProfessionalID:  prof.ID,
			Date:            start,
			Buffer:          time.Duration(est.BufferMin) * time.Minute,
		})
		if err != nil {
			return err
		}
		if schedule.OverlapsAny(blocked, start, end) {
			return httperr.ErrBusiness(httperr.CodeSlotConflict)
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		if err := tx.RecordEvent(ctx, &models.AppointmentEvent{
			AppointmentID: ap.ID,
			ToStatus:      ap.Status,
			OccurredAt:    now,
		}); err != nil {
			return err
		}

		if in.Public {
			plain, tok := managetoken.Issue(ap.ID, uc.tokenTTL, now)
			if err := tx.CreateManageToken(ctx, tok); err != nil {
				return err
			}
			tokenPlain = plain
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, prof.ID, start.Format("2006-01-02"))

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		UserID:          in.ByUserID,
		Action:          "appointment_created",
		Entity:          "appointment",
		EntityID:        &ap.ID,
	})

	uc.notify.Dispatch(notify.Notification{
		Kind:              notify.KindConfirmation,
		To:                customer.Email,
		ToName:            customer.Name,
		EstablishmentName: est.Name,
		ServiceName:       svc.Name,
		StartTime:         start,
		ManageToken:       tokenPlain,
	})

	return &CreateAppointmentOutput{
		Appointment: ap,
		ManageToken: tokenPlain,
	}, nil
}
