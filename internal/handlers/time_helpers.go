package handlers

import (
	"time"

	"github.com/agendly-app/booking-api/internal/models"
	"github.com/agendly-app/booking-api/internal/timezone"
)

// resolve o timezone oficial do estabelecimento
func locationFromEstablishment(est *models.Establishment) *time.Location {
	if est != nil {
		return timezone.Location(est.Timezone)
	}
	return timezone.Location("")
}

func parseDateInEstablishment(est *models.Establishment, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromEstablishment(est),
	)
}

// valida "15:04" sem materializar sobre data
func isValidClock(hm string) bool {
	_, err := time.Parse("15:04", hm)
	return err == nil
}
