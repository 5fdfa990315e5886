package appointment

import (
	"context"

	"github.com/agendly-app/booking-api/internal/audit"
	"github.com/agendly-app/booking-api/internal/cache"
	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/httperr"
	"github.com/agendly-app/booking-api/internal/models"
	"github.com/agendly-app/booking-api/internal/notify"
	"github.com/agendly-app/booking-api/internal/timezone"
)

type CancelAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
	cache  *cache.Availability
}

func NewCancelAppointment(
	repo domain.Repository,
	auditD *audit.Dispatcher,
	notifyD *notify.Dispatcher,
	c *cache.Availability,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		audit:  auditD,
		notify: notifyD,
		cache:  c,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	establishmentID uint,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, establishmentID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(est.Timezone)

	// transição sob lock: dois terminais concorrentes nunca passam os dois
	var ap *models.Appointment
	err = uc.repo.Atomically(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil || ap.EstablishmentID != establishmentID {
			return httperr.ErrBusiness("appointment_not_found")
		}

		fromStatus := ap.Status
		if err := domain.Cancel(ap, now); err != nil {
			return err
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		return tx.RecordEvent(ctx, &models.AppointmentEvent{
			AppointmentID: ap.ID,
			FromStatus:    fromStatus,
			ToStatus:      ap.Status,
			OccurredAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, ap.ProfessionalID, ap.StartTime.Format("2006-01-02"))

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "appointment_canceled",
		Entity:          "appointment",
		EntityID:        &ap.ID,
	})

	dispatchFor(ctx, uc.repo, uc.notify, notify.KindCancellation, ap.ID)

	return ap, nil
}
