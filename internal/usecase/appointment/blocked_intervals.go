package appointment

import (
	"context"
	"time"

	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/domain/schedule"
	"github.com/agendly-app/booking-api/internal/timezone"
)

// blockedQuery descreve a coleta de intervalos indisponíveis de um
// profissional numa data.
type blockedQuery struct {
	EstablishmentID uint
	ProfessionalID  uint
	Date            time.Time // já no timezone do estabelecimento
	Buffer          time.Duration

	// > 0 no reagendamento: o próprio agendamento não bloqueia a si mesmo.
	ExcludeAppointmentID uint
}

// collectBlocked reúne tudo que torna o profissional indisponível no dia:
//
//  1. agendamentos ativos (booked/confirmed), expandidos com ±buffer
//  2. bloqueios avulsos do profissional ou do estabelecimento inteiro
//  3. bloqueios recorrentes ativos do weekday, instanciados sobre a data
//
// Os intervalos podem se sobrepor; o gerador só precisa do teste booleano
// de interseção, então não há coalescência.
func collectBlocked(
	ctx context.Context,
	repo domain.Repository,
	q blockedQuery,
) ([]schedule.Interval, error) {

	loc := q.Date.Location()
	dayStart, dayEnd := timezone.DayWindow(q.Date, loc)

	aps, err := repo.ListActiveAppointments(ctx, q.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	blocks, err := repo.ListTimeBlocks(ctx, q.EstablishmentID, q.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	recurring, err := repo.ListRecurringTimeBlocks(
		ctx,
		q.EstablishmentID,
		q.ProfessionalID,
		int(q.Date.Weekday()),
	)
	if err != nil {
		return nil, err
	}

	out := schedule.FromAppointments(aps, q.Buffer, q.ExcludeAppointmentID)
	out = append(out, schedule.FromTimeBlocks(blocks)...)
	out = append(out, schedule.FromRecurringBlocks(recurring, q.Date, loc)...)

	return out, nil
}

// withinResolvedHours valida se [start, end) cabe na janela efetiva do
// profissional naquele dia (precedência estabelecimento/profissional).
func withinResolvedHours(
	ctx context.Context,
	repo domain.Repository,
	establishmentID uint,
	professionalID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	weekday := int(start.Weekday())

	bh, err := repo.GetBusinessHours(ctx, establishmentID, weekday)
	if err != nil {
		return false, err
	}
	ph, err := repo.GetProfessionalHours(ctx, professionalID, weekday)
	if err != nil {
		return false, err
	}

	day := schedule.Resolve(bh, ph)
	if day.Closed {
		return false, nil
	}

	loc := start.Location()
	open := schedule.OnDate(day.Open, start, loc)
	close := schedule.OnDate(day.Close, start, loc)

	return !start.Before(open) && !end.After(close), nil
}
