package appointment

import (
	"context"
	"time"

	"github.com/agendly-app/booking-api/internal/audit"
	"github.com/agendly-app/booking-api/internal/cache"
	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/httperr"
	"github.com/agendly-app/booking-api/internal/managetoken"
	"github.com/agendly-app/booking-api/internal/models"
	"github.com/agendly-app/booking-api/internal/notify"
	"github.com/agendly-app/booking-api/internal/timezone"
)

// ======================================================
// Autoatendimento do cliente via manage token
// ======================================================

// ResolveManageToken localiza o agendamento de um token válido (inspeção,
// não consome o token).
type ResolveManageToken struct {
	repo domain.Repository
	now  func(tz string) time.Time
}

func NewResolveManageToken(repo domain.Repository) *ResolveManageToken {
	return &ResolveManageToken{repo: repo, now: timezone.NowIn}
}

func (uc *ResolveManageToken) Execute(
	ctx context.Context,
	plainToken string,
) (*models.Appointment, error) {

	tok, err := uc.repo.GetManageTokenByHash(ctx, managetoken.Hash(plainToken))
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeTokenInvalid)
	}

	detail, err := uc.repo.GetAppointmentDetail(ctx, tok.AppointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeTokenInvalid)
	}

	if err := managetoken.Validate(tok, uc.now(detail.Establishment.Timezone)); err != nil {
		return nil, err
	}

	return detail, nil
}

// --------------------------------------------------
// SelfReschedule: remarcação pelo próprio cliente
// --------------------------------------------------

type SelfRescheduleInput struct {
	Token string
	Date  string // YYYY-MM-DD
	Time  string // HH:mm
}

type SelfReschedule struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
	cache  *cache.Availability
	now    func(tz string) time.Time
}

func NewSelfReschedule(
	repo domain.Repository,
	auditD *audit.Dispatcher,
	notifyD *notify.Dispatcher,
	c *cache.Availability,
) *SelfReschedule {
	return &SelfReschedule{
		repo:   repo,
		audit:  auditD,
		notify: notifyD,
		cache:  c,
		now:    timezone.NowIn,
	}
}

func (uc *SelfReschedule) Execute(
	ctx context.Context,
	in SelfRescheduleInput,
) (*models.Appointment, error) {

	var ap *models.Appointment
	var est *models.Establishment
	var oldProfID uint
	var oldStart time.Time

	// token verificado, agendamento travado, conflito revalidado e token
	// consumido: tudo na mesma transação. Uso único garantido mesmo com
	// dois cliques simultâneos no link.
	err := uc.repo.Atomically(ctx, func(tx domain.Repository) error {
		tok, err := tx.GetManageTokenByHash(ctx, managetoken.Hash(in.Token))
		if err != nil {
			return httperr.ErrBusiness(httperr.CodeTokenInvalid)
		}

		ap, err = tx.GetAppointmentForUpdate(ctx, tok.AppointmentID)
		if err != nil {
			return httperr.ErrBusiness(httperr.CodeTokenInvalid)
		}

		est, err = tx.GetEstablishmentByID(ctx, ap.EstablishmentID)
		if err != nil {
			return err
		}

		now := uc.now(est.Timezone)
		if err := managetoken.Validate(tok, now); err != nil {
			return err
		}

		oldProfID = ap.ProfessionalID
		oldStart = ap.StartTime

		if err := applyReschedule(ctx, tx, est, ap, rescheduleChange{
			Date: in.Date,
			Time: in.Time,
		}, now); err != nil {
			return err
		}

		return tx.MarkManageTokenUsed(ctx, tok, now)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, oldProfID, oldStart.Format("2006-01-02"))
	uc.cache.Invalidate(ctx, ap.ProfessionalID, ap.StartTime.Format("2006-01-02"))

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: est.ID,
		Action:          "appointment_rescheduled_by_customer",
		Entity:          "appointment",
		EntityID:        &ap.ID,
	})

	dispatchFor(ctx, uc.repo, uc.notify, notify.KindReschedule, ap.ID)

	return ap, nil
}

// --------------------------------------------------
// SelfCancel: cancelamento pelo próprio cliente
// --------------------------------------------------

type SelfCancel struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
	cache  *cache.Availability
	now    func(tz string) time.Time
}

func NewSelfCancel(
	repo domain.Repository,
	auditD *audit.Dispatcher,
	notifyD *notify.Dispatcher,
	c *cache.Availability,
) *SelfCancel {
	return &SelfCancel{
		repo:   repo,
		audit:  auditD,
		notify: notifyD,
		cache:  c,
		now:    timezone.NowIn,
	}
}

func (uc *SelfCancel) Execute(
	ctx context.Context,
	plainToken string,
) (*models.Appointment, error) {

	var ap *models.Appointment
	var est *models.Establishment

	err := uc.repo.Atomically(ctx, func(tx domain.Repository) error {
		tok, err := tx.GetManageTokenByHash(ctx, managetoken.Hash(plainToken))
		if err != nil {
			return httperr.ErrBusiness(httperr.CodeTokenInvalid)
		}

		ap, err = tx.GetAppointmentForUpdate(ctx, tok.AppointmentID)
		if err != nil {
			return httperr.ErrBusiness(httperr.CodeTokenInvalid)
		}

		est, err = tx.GetEstablishmentByID(ctx, ap.EstablishmentID)
		if err != nil {
			return err
		}

		now := uc.now(est.Timezone)
		if err := managetoken.Validate(tok, now); err != nil {
			return err
		}

		// antecedência mínima vale também para cancelar
		if est.RescheduleMinHours > 0 {
			minAllowed := now.Add(time.Duration(est.RescheduleMinHours) * time.Hour)
			if ap.StartTime.Before(minAllowed) {
				return httperr.ErrBusiness(httperr.CodeMinimumNotice)
			}
		}

		fromStatus := ap.Status
		if err := domain.Cancel(ap, now); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		if err := tx.RecordEvent(ctx, &models.AppointmentEvent{
			AppointmentID: ap.ID,
			FromStatus:    fromStatus,
			ToStatus:      ap.Status,
			OccurredAt:    now,
		}); err != nil {
			return err
		}

		return tx.MarkManageTokenUsed(ctx, tok, now)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, ap.ProfessionalID, ap.StartTime.Format("2006-01-02"))

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: est.ID,
		Action:          "appointment_canceled_by_customer",
		Entity:          "appointment",
		EntityID:        &ap.ID,
	})

	dispatchFor(ctx, uc.repo, uc.notify, notify.KindCancellation, ap.ID)

	return ap, nil
}
