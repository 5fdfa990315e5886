package schedule

import (
	"time"

	"github.com/agendly-app/booking-api/internal/models"
)

// Interval é um intervalo semiaberto [Start, End) em tempo absoluto.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps testa interseção semiaberta: bordas encostadas são livres.
// Cobre os quatro casos (início dentro, fim dentro, contém, contido).
func (iv Interval) Overlaps(start, end time.Time) bool {
	return start.Before(iv.End) && iv.Start.Before(end)
}

// OverlapsAny responde se [start, end) intersecta algum intervalo bloqueado.
func OverlapsAny(blocked []Interval, start, end time.Time) bool {
	for _, iv := range blocked {
		if iv.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// OnDate materializa um horário de parede "15:04" sobre uma data concreta.
func OnDate(hm string, date time.Time, loc *time.Location) time.Time {
	t, _ := time.Parse("15:04", hm)
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		loc,
	)
}

// FromAppointments converte agendamentos ativos em intervalos bloqueados,
// expandindo cada um com o buffer simétrico (regra anti-atendimentos
// colados). excludeID > 0 remove o próprio agendamento da lista — usado no
// reagendamento para ele não bloquear a si mesmo.
func FromAppointments(aps []models.Appointment, buffer time.Duration, excludeID uint) []Interval {
	out := make([]Interval, 0, len(aps))
	for _, ap := range aps {
		if excludeID != 0 && ap.ID == excludeID {
			continue
		}
		out = append(out, Interval{
			Start: ap.StartTime.Add(-buffer),
			End:   ap.EndTime.Add(buffer),
		})
	}
	return out
}

// FromTimeBlocks converte bloqueios avulsos, sem buffer: buffer existe para
// evitar clientes colados, não em volta de fechamentos administrativos.
func FromTimeBlocks(blocks []models.TimeBlock) []Interval {
	out := make([]Interval, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, Interval{Start: b.StartTime, End: b.EndTime})
	}
	return out
}

// FromRecurringBlocks instancia bloqueios semanais sobre a data concreta,
// também sem buffer.
func FromRecurringBlocks(blocks []models.RecurringTimeBlock, date time.Time, loc *time.Location) []Interval {
	out := make([]Interval, 0, len(blocks))
	for _, b := range blocks {
		if !b.Active {
			continue
		}
		out = append(out, Interval{
			Start: OnDate(b.StartTime, date, loc),
			End:   OnDate(b.EndTime, date, loc),
		})
	}
	return out
}
