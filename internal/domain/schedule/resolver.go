package schedule

import "github.com/agendly-app/booking-api/internal/models"

// DayHours é a janela efetiva de atendimento de um profissional num weekday.
type DayHours struct {
	Closed bool   `json:"closed"`
	Open   string `json:"open,omitempty"`  // "15:04"
	Close  string `json:"close,omitempty"` // "15:04"
}

// Resolve aplica a precedência entre horário do estabelecimento e override
// do profissional:
//
//  1. estabelecimento sem linha ou fechado → fechado (fail-safe, sem horários)
//  2. override do profissional fechado → fechado
//  3. override com horários → horários do profissional
//  4. senão → horários do estabelecimento
func Resolve(est *models.BusinessHours, prof *models.ProfessionalHours) DayHours {
	if est == nil || est.Closed || est.OpenTime == "" || est.CloseTime == "" {
		return DayHours{Closed: true}
	}

	if prof != nil {
		if prof.Closed {
			return DayHours{Closed: true}
		}
		if prof.StartTime != "" && prof.EndTime != "" {
			return DayHours{Open: prof.StartTime, Close: prof.EndTime}
		}
	}

	return DayHours{Open: est.OpenTime, Close: est.CloseTime}
}
