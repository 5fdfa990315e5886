package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/httperr"
	"github.com/agendly-app/booking-api/internal/models"
)

func availabilityUC(f *fixture) *GetAvailability {
	uc := NewGetAvailability(f.repo, nil)
	uc.now = fixedNow
	return uc
}

func availabilityInput(f *fixture) domain.AvailabilityInput {
	return domain.AvailabilityInput{
		EstablishmentID: f.est.ID,
		ProfessionalID:  f.prof.ID,
		ServiceID:       f.svc.ID,
		Date:            testDate,
	}
}

func TestGetAvailabilityOpenDay(t *testing.T) {
	f := newFixture()

	slots, err := availabilityUC(f).Execute(context.Background(), availabilityInput(f))

	require.NoError(t, err)
	starts := slotStarts(slots)
	assert.Equal(t, "09:00", starts[0])
	assert.Equal(t, "17:30", starts[len(starts)-1])
	assert.Equal(t, "09:30", slots[0].End)
}

func TestGetAvailabilityExcludesBookedWindow(t *testing.T) {
	f := newFixture()
	f.addAppointment(f.at(10, 0), f.at(10, 45), domain.StatusBooked)

	slots, err := availabilityUC(f).Execute(context.Background(), availabilityInput(f))

	require.NoError(t, err)
	starts := slotStarts(slots)
	assert.Contains(t, starts, "09:30")
	assert.NotContains(t, starts, "09:45")
	assert.NotContains(t, starts, "10:00")
	assert.NotContains(t, starts, "10:30")
	assert.Contains(t, starts, "10:45")
}

func TestGetAvailabilityBufferExpandsExclusion(t *testing.T) {
	f := newFixture()
	f.est.BufferMin = 10
	f.addAppointment(f.at(10, 0), f.at(10, 45), domain.StatusBooked)

	slots, err := availabilityUC(f).Execute(context.Background(), availabilityInput(f))

	require.NoError(t, err)
	starts := slotStarts(slots)
	assert.NotContains(t, starts, "09:30")
	assert.NotContains(t, starts, "10:45")
	assert.Contains(t, starts, "11:00")
}

func TestGetAvailabilityCanceledDoesNotBlock(t *testing.T) {
	f := newFixture()
	f.addAppointment(f.at(10, 0), f.at(10, 30), domain.StatusCanceled)

	slots, err := availabilityUC(f).Execute(context.Background(), availabilityInput(f))

	require.NoError(t, err)
	assert.Contains(t, slotStarts(slots), "10:00")
}

func TestGetAvailabilityProfessionalOverride(t *testing.T) {
	f := newFixture()
	f.repo.state().profHours[[2]uint{f.prof.ID, uint(testDate.Weekday())}] = &models.ProfessionalHours{
		ProfessionalID: f.prof.ID,
		Weekday:        int(testDate.Weekday()),
		StartTime:      "10:00",
		EndTime:        "15:00",
	}

	slots, err := availabilityUC(f).Execute(context.Background(), availabilityInput(f))

	require.NoError(t, err)
	starts := slotStarts(slots)
	assert.Equal(t, "10:00", starts[0])
	assert.Equal(t, "14:30", starts[len(starts)-1])
}

func TestGetAvailabilityProfessionalClosedDay(t *testing.T) {
	f := newFixture()
	f.repo.state().profHours[[2]uint{f.prof.ID, uint(testDate.Weekday())}] = &models.ProfessionalHours{
		ProfessionalID: f.prof.ID,
		Weekday:        int(testDate.Weekday()),
		Closed:         true,
	}

	slots, err := availabilityUC(f).Execute(context.Background(), availabilityInput(f))

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetAvailabilityEstablishmentClosedBeatsOverride(t *testing.T) {
	f := newFixture()
	wd := uint(testDate.Weekday())
	f.repo.state().businessHours[[2]uint{f.est.ID, wd}].Closed = true
	f.repo.state().profHours[[2]uint{f.prof.ID, wd}] = &models.ProfessionalHours{
		ProfessionalID: f.prof.ID,
		Weekday:        int(wd),
		StartTime:      "10:00",
		EndTime:        "15:00",
	}

	slots, err := availabilityUC(f).Execute(context.Background(), availabilityInput(f))

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetAvailabilityTimeBlockForEveryone(t *testing.T) {
	f := newFixture()
	f.repo.state().timeBlocks = append(f.repo.state().timeBlocks, models.TimeBlock{
		EstablishmentID: f.est.ID,
		ProfessionalID:  nil, // bloqueia todos
		StartTime:       f.at(12, 0),
		EndTime:         f.at(13, 0),
	})

	slots, err := availabilityUC(f).Execute(context.Background(), availabilityInput(f))

	require.NoError(t, err)
	starts := slotStarts(slots)
	assert.NotContains(t, starts, "12:00")
	assert.NotContains(t, starts, "12:45")
	assert.Contains(t, starts, "11:30")
	assert.Contains(t, starts, "13:00")
}

func TestGetAvailabilityRecurringBlock(t *testing.T) {
	f := newFixture()
	f.repo.state().recurringBlocks = append(f.repo.state().recurringBlocks,
		models.RecurringTimeBlock{
			EstablishmentID: f.est.ID,
			Weekday:         int(testDate.Weekday()),
			StartTime:       "12:00",
			EndTime:         "13:00",
			Active:          true,
		},
		models.RecurringTimeBlock{
			EstablishmentID: f.est.ID,
			Weekday:         int(testDate.Weekday()),
			StartTime:       "15:00",
			EndTime:         "16:00",
			Active:          false, // desativado não bloqueia
		},
	)

	slots, err := availabilityUC(f).Execute(context.Background(), availabilityInput(f))

	require.NoError(t, err)
	starts := slotStarts(slots)
	assert.NotContains(t, starts, "12:30")
	assert.Contains(t, starts, "15:00")
}

func TestGetAvailabilityPrunesPast(t *testing.T) {
	f := newFixture()

	uc := NewGetAvailability(f.repo, nil)
	uc.now = func(string) time.Time { return f.at(12, 7) }

	slots, err := uc.Execute(context.Background(), availabilityInput(f))

	require.NoError(t, err)
	assert.Equal(t, "12:15", slotStarts(slots)[0])
}

func TestGetAvailabilityBeyondHorizon(t *testing.T) {
	f := newFixture()
	f.est.MaxFutureDays = 7

	in := availabilityInput(f)
	in.Date = testDate.AddDate(0, 0, 30)

	_, err := availabilityUC(f).Execute(context.Background(), in)

	assert.Equal(t, httperr.CodeBeyondHorizon, httperr.BusinessCode(err))
}

func TestGetAvailabilityInactiveProfessional(t *testing.T) {
	f := newFixture()
	f.prof.Active = false

	slots, err := availabilityUC(f).Execute(context.Background(), availabilityInput(f))

	require.NoError(t, err)
	assert.Empty(t, slots)
}
