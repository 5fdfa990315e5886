package appointment

import (
	"context"
	"errors"
	"sync"
	"time"

	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/httperr"
	"github.com/agendly-app/booking-api/internal/models"
)

var errNotFound = errors.New("not found")

// fakeState é o banco em memória compartilhado entre o repositório e as
// "transações". Toda mutação acontece dentro de Atomically, que segura o
// mutex do repositório — o mesmo efeito serializado do FOR UPDATE real.
type fakeState struct {
	establishments map[uint]*models.Establishment
	services       map[uint]*models.Service
	professionals  map[uint]*models.Professional
	offers         map[[2]uint]bool // (professionalID, serviceID)

	businessHours map[[2]uint]*models.BusinessHours     // (establishmentID, weekday)
	profHours     map[[2]uint]*models.ProfessionalHours // (professionalID, weekday)

	customers    []*models.Customer
	appointments map[uint]*models.Appointment
	events       []*models.AppointmentEvent
	tokens       map[string]*models.ManageToken // por hash

	timeBlocks      []models.TimeBlock
	recurringBlocks []models.RecurringTimeBlock

	// profissionais travados via GetProfessionalForUpdate, na ordem
	profLocks []uint

	nextID uint
}

func newFakeState() *fakeState {
	return &fakeState{
		establishments: map[uint]*models.Establishment{},
		services:       map[uint]*models.Service{},
		professionals:  map[uint]*models.Professional{},
		offers:         map[[2]uint]bool{},
		businessHours:  map[[2]uint]*models.BusinessHours{},
		profHours:      map[[2]uint]*models.ProfessionalHours{},
		appointments:   map[uint]*models.Appointment{},
		tokens:         map[string]*models.ManageToken{},
		nextID:         1,
	}
}

func (s *fakeState) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

// fakeTx implementa domain.Repository direto sobre o estado, sem lock.
type fakeTx struct {
	s *fakeState
}

func (t *fakeTx) GetEstablishmentByID(_ context.Context, id uint) (*models.Establishment, error) {
	est, ok := t.s.establishments[id]
	if !ok {
		return nil, errNotFound
	}
	return est, nil
}

func (t *fakeTx) GetEstablishmentBySlug(_ context.Context, slug string) (*models.Establishment, error) {
	for _, est := range t.s.establishments {
		if est.Slug == slug {
			return est, nil
		}
	}
	return nil, errNotFound
}

func (t *fakeTx) GetService(_ context.Context, establishmentID, serviceID uint) (*models.Service, error) {
	svc, ok := t.s.services[serviceID]
	if !ok || svc.EstablishmentID != establishmentID {
		return nil, errNotFound
	}
	return svc, nil
}

func (t *fakeTx) GetProfessional(_ context.Context, establishmentID, professionalID uint) (*models.Professional, error) {
	prof, ok := t.s.professionals[professionalID]
	if !ok || prof.EstablishmentID != establishmentID {
		return nil, errNotFound
	}
	return prof, nil
}

func (t *fakeTx) GetProfessionalForUpdate(ctx context.Context, establishmentID, professionalID uint) (*models.Professional, error) {
	prof, err := t.GetProfessional(ctx, establishmentID, professionalID)
	if err != nil {
		return nil, err
	}
	t.s.profLocks = append(t.s.profLocks, professionalID)
	return prof, nil
}

func (t *fakeTx) ProfessionalOffersService(_ context.Context, professionalID, serviceID uint) (bool, error) {
	return t.s.offers[[2]uint{professionalID, serviceID}], nil
}

func (t *fakeTx) GetOrCreateCustomer(_ context.Context, establishmentID uint, name, phone, email string) (*models.Customer, error) {
	for _, c := range t.s.customers {
		if c.EstablishmentID != establishmentID {
			continue
		}
		if email != "" && c.Email == email {
			return c, nil
		}
		if email == "" && phone != "" && c.Phone == phone {
			return c, nil
		}
	}
	c := &models.Customer{
		ID:              t.s.id(),
		EstablishmentID: establishmentID,
		Name:            name,
		Phone:           phone,
		Email:           email,
	}
	t.s.customers = append(t.s.customers, c)
	return c, nil
}

func (t *fakeTx) GetBusinessHours(_ context.Context, establishmentID uint, weekday int) (*models.BusinessHours, error) {
	return t.s.businessHours[[2]uint{establishmentID, uint(weekday)}], nil
}

func (t *fakeTx) GetProfessionalHours(_ context.Context, professionalID uint, weekday int) (*models.ProfessionalHours, error) {
	return t.s.profHours[[2]uint{professionalID, uint(weekday)}], nil
}

func (t *fakeTx) ListActiveAppointments(_ context.Context, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range t.s.appointments {
		if ap.ProfessionalID != professionalID {
			continue
		}
		if !domain.Occupies(domain.Status(ap.Status)) {
			continue
		}
		if ap.StartTime.Before(end) && start.Before(ap.EndTime) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (t *fakeTx) ListTimeBlocks(_ context.Context, establishmentID, professionalID uint, start, end time.Time) ([]models.TimeBlock, error) {
	var out []models.TimeBlock
	for _, b := range t.s.timeBlocks {
		if b.EstablishmentID != establishmentID {
			continue
		}
		if b.ProfessionalID != nil && *b.ProfessionalID != professionalID {
			continue
		}
		if b.StartTime.Before(end) && start.Before(b.EndTime) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (t *fakeTx) ListRecurringTimeBlocks(_ context.Context, establishmentID, professionalID uint, weekday int) ([]models.RecurringTimeBlock, error) {
	var out []models.RecurringTimeBlock
	for _, b := range t.s.recurringBlocks {
		if b.EstablishmentID != establishmentID || b.Weekday != weekday {
			continue
		}
		if b.ProfessionalID != nil && *b.ProfessionalID != professionalID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (t *fakeTx) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = t.s.id()
	stored := *ap
	t.s.appointments[ap.ID] = &stored
	return nil
}

func (t *fakeTx) GetAppointmentForUpdate(_ context.Context, appointmentID uint) (*models.Appointment, error) {
	ap, ok := t.s.appointments[appointmentID]
	if !ok {
		return nil, errNotFound
	}
	cp := *ap
	return &cp, nil
}

func (t *fakeTx) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if _, ok := t.s.appointments[ap.ID]; !ok {
		return errNotFound
	}
	stored := *ap
	t.s.appointments[ap.ID] = &stored
	return nil
}

func (t *fakeTx) GetAppointmentDetail(_ context.Context, appointmentID uint) (*models.Appointment, error) {
	ap, ok := t.s.appointments[appointmentID]
	if !ok {
		return nil, errNotFound
	}
	cp := *ap
	if est := t.s.establishments[cp.EstablishmentID]; est != nil {
		cp.Establishment = *est
	}
	if svc := t.s.services[cp.ServiceID]; svc != nil {
		cp.Service = *svc
	}
	for _, c := range t.s.customers {
		if c.ID == cp.CustomerID {
			cp.Customer = *c
		}
	}
	if prof := t.s.professionals[cp.ProfessionalID]; prof != nil {
		cp.Professional = *prof
	}
	return &cp, nil
}

func (t *fakeTx) RecordEvent(_ context.Context, ev *models.AppointmentEvent) error {
	ev.ID = t.s.id()
	stored := *ev
	t.s.events = append(t.s.events, &stored)
	return nil
}

func (t *fakeTx) ListAppointmentsForPeriod(_ context.Context, establishmentID, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range t.s.appointments {
		if ap.EstablishmentID != establishmentID {
			continue
		}
		if professionalID != 0 && ap.ProfessionalID != professionalID {
			continue
		}
		if ap.StartTime.Before(end) && !ap.StartTime.Before(start) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (t *fakeTx) CreateManageToken(_ context.Context, tok *models.ManageToken) error {
	tok.ID = t.s.id()
	stored := *tok
	t.s.tokens[tok.TokenHash] = &stored
	return nil
}

func (t *fakeTx) GetManageTokenByHash(_ context.Context, hash string) (*models.ManageToken, error) {
	tok, ok := t.s.tokens[hash]
	if !ok {
		return nil, errNotFound
	}
	cp := *tok
	return &cp, nil
}

func (t *fakeTx) MarkManageTokenUsed(_ context.Context, tok *models.ManageToken, now time.Time) error {
	stored, ok := t.s.tokens[tok.TokenHash]
	if !ok {
		return errNotFound
	}
	if stored.UsedAt != nil {
		return httperr.ErrBusiness(httperr.CodeTokenAlreadyUsed)
	}
	stored.UsedAt = &now
	return nil
}

func (t *fakeTx) ListUpcomingForReminder(_ context.Context, from, until time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range t.s.appointments {
		if !domain.Occupies(domain.Status(ap.Status)) {
			continue
		}
		if ap.StartTime.After(from) && ap.StartTime.Before(until) {
			detail, _ := t.GetAppointmentDetail(context.Background(), ap.ID)
			out = append(out, *detail)
		}
	}
	return out, nil
}

func (t *fakeTx) Atomically(_ context.Context, fn func(tx domain.Repository) error) error {
	return fn(t)
}

// fakeRepo envolve o estado com um mutex: leituras fora de transação
// serializam entre si, e Atomically serializa escritores concorrentes.
type fakeRepo struct {
	mu sync.Mutex
	tx *fakeTx
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tx: &fakeTx{s: newFakeState()}}
}

func (r *fakeRepo) state() *fakeState { return r.tx.s }

func (r *fakeRepo) Atomically(ctx context.Context, fn func(tx domain.Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.tx)
}

func (r *fakeRepo) GetEstablishmentByID(ctx context.Context, id uint) (*models.Establishment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.GetEstablishmentByID(ctx, id)
}

func (r *fakeRepo) GetEstablishmentBySlug(ctx context.Context, slug string) (*models.Establishment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.GetEstablishmentBySlug(ctx, slug)
}

func (r *fakeRepo) GetService(ctx context.Context, establishmentID, serviceID uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.GetService(ctx, establishmentID, serviceID)
}

func (r *fakeRepo) GetProfessional(ctx context.Context, establishmentID, professionalID uint) (*models.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.GetProfessional(ctx, establishmentID, professionalID)
}

func (r *fakeRepo) GetProfessionalForUpdate(ctx context.Context, establishmentID, professionalID uint) (*models.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.GetProfessionalForUpdate(ctx, establishmentID, professionalID)
}

func (r *fakeRepo) ProfessionalOffersService(ctx context.Context, professionalID, serviceID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.ProfessionalOffersService(ctx, professionalID, serviceID)
}

func (r *fakeRepo) GetOrCreateCustomer(ctx context.Context, establishmentID uint, name, phone, email string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.GetOrCreateCustomer(ctx, establishmentID, name, phone, email)
}

func (r *fakeRepo) GetBusinessHours(ctx context.Context, establishmentID uint, weekday int) (*models.BusinessHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.GetBusinessHours(ctx, establishmentID, weekday)
}

func (r *fakeRepo) GetProfessionalHours(ctx context.Context, professionalID uint, weekday int) (*models.ProfessionalHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.GetProfessionalHours(ctx, professionalID, weekday)
}

func (r *fakeRepo) ListActiveAppointments(ctx context.Context, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.ListActiveAppointments(ctx, professionalID, start, end)
}

func (r *fakeRepo) ListTimeBlocks(ctx context.Context, establishmentID, professionalID uint, start, end time.Time) ([]models.TimeBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.ListTimeBlocks(ctx, establishmentID, professionalID, start, end)
}

func (r *fakeRepo) ListRecurringTimeBlocks(ctx context.Context, establishmentID, professionalID uint, weekday int) ([]models.RecurringTimeBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.ListRecurringTimeBlocks(ctx, establishmentID, professionalID, weekday)
}

func (r *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.CreateAppointment(ctx, ap)
}

func (r *fakeRepo) GetAppointmentForUpdate(ctx context.Context, appointmentID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.GetAppointmentForUpdate(ctx, appointmentID)
}

func (r *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.UpdateAppointment(ctx, ap)
}

func (r *fakeRepo) GetAppointmentDetail(ctx context.Context, appointmentID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.GetAppointmentDetail(ctx, appointmentID)
}

func (r *fakeRepo) RecordEvent(ctx context.Context, ev *models.AppointmentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.RecordEvent(ctx, ev)
}

func (r *fakeRepo) ListAppointmentsForPeriod(ctx context.Context, establishmentID, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.ListAppointmentsForPeriod(ctx, establishmentID, professionalID, start, end)
}

func (r *fakeRepo) CreateManageToken(ctx context.Context, tok *models.ManageToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.CreateManageToken(ctx, tok)
}

func (r *fakeRepo) GetManageTokenByHash(ctx context.Context, hash string) (*models.ManageToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.GetManageTokenByHash(ctx, hash)
}

func (r *fakeRepo) MarkManageTokenUsed(ctx context.Context, tok *models.ManageToken, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.MarkManageTokenUsed(ctx, tok, now)
}

func (r *fakeRepo) ListUpcomingForReminder(ctx context.Context, from, until time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.ListUpcomingForReminder(ctx, from, until)
}

var _ domain.Repository = (*fakeRepo)(nil)
var _ domain.Repository = (*fakeTx)(nil)
