package appointment

import (
	"context"
	"time"

	"github.com/agendly-app/booking-api/internal/cache"
	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/domain/schedule"
	"github.com/agendly-app/booking-api/internal/httperr"
	"github.com/agendly-app/booking-api/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	cache *cache.Availability
	now   func(tz string) time.Time
}

func NewGetAvailability(repo domain.Repository, c *cache.Availability) *GetAvailability {
	return &GetAvailability{
		repo:  repo,
		cache: c,
		now:   timezone.NowIn,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, in.EstablishmentID)
	if err != nil {
		return nil, err
	}

	svc, err := uc.repo.GetService(ctx, in.EstablishmentID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	prof, err := uc.repo.GetProfessional(ctx, in.EstablishmentID, in.ProfessionalID)
	if err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}
	if !prof.Active {
		return []domain.TimeSlot{}, nil
	}

	now := uc.now(est.Timezone)

	if est.MaxFutureDays > 0 {
		horizon := now.AddDate(0, 0, est.MaxFutureDays)
		if in.Date.After(horizon) {
			return nil, httperr.ErrBusiness(httperr.CodeBeyondHorizon)
		}
	}

	dateKey := in.Date.Format("2006-01-02")
	if slots, ok := uc.cache.Get(ctx, prof.ID, svc.ID, dateKey); ok {
		return slots, nil
	}

	weekday := int(in.Date.Weekday())

	bh, err := uc.repo.GetBusinessHours(ctx, in.EstablishmentID, weekday)
	if err != nil {
		return nil, err
	}
	ph, err := uc.repo.GetProfessionalHours(ctx, prof.ID, weekday)
	if err != nil {
		return nil, err
	}

	day := schedule.Resolve(bh, ph)
	if day.Closed {
		// fechado não é erro: lista vazia
		return []domain.TimeSlot{}, nil
	}

	loc := in.Date.Location()
	open := schedule.OnDate(day.Open, in.Date, loc)
	close := schedule.OnDate(day.Close, in.Date, loc)

	blocked, err := collectBlocked(ctx, uc.repo, blockedQuery{
		EstablishmentID: in.EstablishmentID,
		ProfessionalID:  prof.ID,
		Date:            in.Date,
		Buffer:          time.Duration(est.BufferMin) * time.Minute,
	})
	if err != nil {
		return nil, err
	}

	duration := time.Duration(svc.DurationMin) * time.Minute

	stride := time.Duration(est.SlotIntervalMin) * time.Minute
	if stride <= 0 {
		stride = 30 * time.Minute
	}

	starts := schedule.Slots(open, close, duration, stride, blocked, now)

	slots := make([]domain.TimeSlot, 0, len(starts))
	for _, s := range starts {
		start := schedule.OnDate(s, in.Date, loc)
		slots = append(slots, domain.TimeSlot{
			Start: s,
			End:   start.Add(duration).Format("15:04"),
		})
	}

	uc.cache.Set(ctx, prof.ID, svc.ID, dateKey, slots)

	return slots, nil
}
