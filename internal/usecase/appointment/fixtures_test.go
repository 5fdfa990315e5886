package appointment

import (
	"time"

	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/models"
)

// quinta-feira, 08:00 UTC
var testNow = time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

// mesma data do relógio fixo, à meia-noite
var testDate = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

func fixedNow(string) time.Time { return testNow }

type fixture struct {
	repo *fakeRepo
	est  *models.Establishment
	prof *models.Professional
	svc  *models.Service
}

// estabelecimento UTC aberto 09:00–18:00 toda a semana, serviço de 30min,
// um profissional ativo que o oferece
func newFixture() *fixture {
	repo := newFakeRepo()
	s := repo.state()

	est := &models.Establishment{
		ID:              1,
		Name:            "Estúdio Exemplo",
		Slug:            "estudio-exemplo",
		Timezone:        "UTC",
		SlotIntervalMin: 15,
		BufferMin:       0,
		MaxFutureDays:   60,
		BookingEnabled:  true,
	}
	s.establishments[est.ID] = est

	svc := &models.Service{
		ID:              2,
		EstablishmentID: est.ID,
		Name:            "Corte",
		DurationMin:     30,
		Active:          true,
	}
	s.services[svc.ID] = svc

	prof := &models.Professional{
		ID:              3,
		EstablishmentID: est.ID,
		Name:            "Ana",
		Active:          true,
	}
	s.professionals[prof.ID] = prof
	s.offers[[2]uint{prof.ID, svc.ID}] = true

	for wd := 0; wd <= 6; wd++ {
		s.businessHours[[2]uint{est.ID, uint(wd)}] = &models.BusinessHours{
			EstablishmentID: est.ID,
			Weekday:         wd,
			OpenTime:        "09:00",
			CloseTime:       "18:00",
		}
	}

	s.nextID = 100

	return &fixture{repo: repo, est: est, prof: prof, svc: svc}
}

func (f *fixture) addAppointment(start, end time.Time, status domain.Status) *models.Appointment {
	s := f.repo.state()

	customer := &models.Customer{
		ID:              s.id(),
		EstablishmentID: f.est.ID,
		Name:            "Cliente",
		Email:           "cliente@example.com",
	}
	s.customers = append(s.customers, customer)

	ap := &models.Appointment{
		ID:              s.id(),
		EstablishmentID: f.est.ID,
		ProfessionalID:  f.prof.ID,
		CustomerID:      customer.ID,
		ServiceID:       f.svc.ID,
		StartTime:       start,
		EndTime:         end,
		Status:          string(status),
	}
	s.appointments[ap.ID] = ap
	return ap
}

func (f *fixture) at(hour, min int) time.Time {
	return time.Date(2026, 10, 15, hour, min, 0, 0, time.UTC)
}

func slotStarts(slots []domain.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start)
	}
	return out
}
