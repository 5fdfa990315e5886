package appointment

import (
	"context"
	"time"

	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/dto"
	"github.com/agendly-app/booking-api/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	establishmentID uint,
	professionalID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, establishmentID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(est.Timezone)
	start, end := timezone.DayWindow(date, loc)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		establishmentID,
		professionalID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:           ap.ID,
			StartTime:    ap.StartTime,
			EndTime:      ap.EndTime,
			Status:       ap.Status,
			CustomerName: ap.Customer.Name,
			ServiceName:  ap.Service.Name,
		})
	}

	return out, nil
}
