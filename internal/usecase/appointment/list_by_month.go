package appointment

import (
	"context"
	"time"

	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/dto"
	"github.com/agendly-app/booking-api/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	establishmentID uint,
	professionalID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, establishmentID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(est.Timezone)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

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
