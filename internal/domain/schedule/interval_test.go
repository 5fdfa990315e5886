package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agendly-app/booking-api/internal/models"
)

var base = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return base.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func TestIntervalOverlaps(t *testing.T) {
	iv := Interval{Start: at(10, 0), End: at(11, 0)}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"começa dentro", at(10, 30), at(11, 30), true},
		{"termina dentro", at(9, 30), at(10, 30), true},
		{"contém o bloqueio", at(9, 0), at(12, 0), true},
		{"contido no bloqueio", at(10, 15), at(10, 45), true},
		{"encosta no fim é livre", at(11, 0), at(12, 0), false},
		{"encosta no início é livre", at(9, 0), at(10, 0), false},
		{"totalmente antes", at(8, 0), at(9, 0), false},
		{"totalmente depois", at(12, 0), at(13, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, iv.Overlaps(tt.start, tt.end))
		})
	}
}

func TestFromAppointmentsBuffer(t *testing.T) {
	aps := []models.Appointment{
		{ID: 1, StartTime: at(10, 0), EndTime: at(10, 45)},
	}

	got := FromAppointments(aps, 10*time.Minute, 0)

	assert.Len(t, got, 1)
	assert.Equal(t, at(9, 50), got[0].Start)
	assert.Equal(t, at(10, 55), got[0].End)
}

func TestFromAppointmentsExcludesSelf(t *testing.T) {
	aps := []models.Appointment{
		{ID: 1, StartTime: at(10, 0), EndTime: at(10, 45)},
		{ID: 2, StartTime: at(14, 0), EndTime: at(14, 30)},
	}

	got := FromAppointments(aps, 0, 1)

	assert.Len(t, got, 1)
	assert.Equal(t, at(14, 0), got[0].Start)
}

func TestFromTimeBlocksHaveNoBuffer(t *testing.T) {
	blocks := []models.TimeBlock{
		{StartTime: at(12, 0), EndTime: at(13, 0)},
	}

	got := FromTimeBlocks(blocks)

	assert.Equal(t, []Interval{{Start: at(12, 0), End: at(13, 0)}}, got)
}

func TestFromRecurringBlocksSkipsInactive(t *testing.T) {
	blocks := []models.RecurringTimeBlock{
		{StartTime: "12:00", EndTime: "13:00", Active: true},
		{StartTime: "15:00", EndTime: "16:00", Active: false},
	}

	got := FromRecurringBlocks(blocks, base, time.UTC)

	assert.Len(t, got, 1)
	assert.Equal(t, at(12, 0), got[0].Start)
	assert.Equal(t, at(13, 0), got[0].End)
}
