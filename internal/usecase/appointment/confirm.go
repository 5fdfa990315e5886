package appointment

import (
	"context"

	"github.com/agendly-app/booking-api/internal/audit"
	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/httperr"
	"github.com/agendly-app/booking-api/internal/models"
	"github.com/agendly-app/booking-api/internal/timezone"
)

type ConfirmAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewConfirmAppointment(
	repo domain.Repository,
	auditD *audit.Dispatcher,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:  repo,
		audit: auditD,
	}
}

func (uc *ConfirmAppointment) Execute(
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

	var ap *models.Appointment
	err = uc.repo.Atomically(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointmentForUpdate(ctx, appointmentID)
		if err != nil || ap.EstablishmentID != establishmentID {
			return httperr.ErrBusiness("appointment_not_found")
		}

		fromStatus := ap.Status
		if err := domain.Confirm(ap); err != nil {
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

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "appointment_confirmed",
		Entity:          "appointment",
		EntityID:        &ap.ID,
	})

	return ap, nil
}
