package appointment

import (
	"context"
	"time"

	"github.com/agendly-app/booking-api/internal/models"
)

type Repository interface {
	// -------- Establishment --------
	GetEstablishmentByID(
		ctx context.Context,
		id uint,
	) (*models.Establishment, error)

	GetEstablishmentBySlug(
		ctx context.Context,
		slug string,
	) (*models.Establishment, error)

	// -------- Service / Professional --------
	GetService(
		ctx context.Context,
		establishmentID uint,
		serviceID uint,
	) (*models.Service, error)

	GetProfessional(
		ctx context.Context,
		establishmentID uint,
		professionalID uint,
	) (*models.Professional, error)

	// Trava a linha do profissional (SELECT ... FOR UPDATE) dentro de
	// Atomically. FOR UPDATE nos agendamentos não cobre dia vazio; esta
	// linha é o ponto de serialização dos escritores da agenda.
	GetProfessionalForUpdate(
		ctx context.Context,
		establishmentID uint,
		professionalID uint,
	) (*models.Professional, error)

	ProfessionalOffersService(
		ctx context.Context,
		professionalID uint,
		serviceID uint,
	) (bool, error)

	// -------- Customer --------
	GetOrCreateCustomer(
		ctx context.Context,
		establishmentID uint,
		name string,
		phone string,
		email string,
	) (*models.Customer, error)

	// -------- Hours (nil, nil quando não há linha para o weekday) --------
	GetBusinessHours(
		ctx context.Context,
		establishmentID uint,
		weekday int,
	) (*models.BusinessHours, error)

	GetProfessionalHours(
		ctx context.Context,
		professionalID uint,
		weekday int,
	) (*models.ProfessionalHours, error)

	// -------- Blocked intervals --------
	ListActiveAppointments(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListTimeBlocks(
		ctx context.Context,
		establishmentID uint,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.TimeBlock, error)

	ListRecurringTimeBlocks(
		ctx context.Context,
		establishmentID uint,
		professionalID uint,
		weekday int,
	) ([]models.RecurringTimeBlock, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// Trava a linha (SELECT ... FOR UPDATE) dentro de Atomically.
	GetAppointmentForUpdate(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// Com Customer, Service e Establishment pré-carregados (notificações).
	GetAppointmentDetail(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	RecordEvent(
		ctx context.Context,
		ev *models.AppointmentEvent,
	) error

	// professionalID 0 = todos os profissionais do estabelecimento.
	ListAppointmentsForPeriod(
		ctx context.Context,
		establishmentID uint,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Manage token --------
	CreateManageToken(
		ctx context.Context,
		tok *models.ManageToken,
	) error

	GetManageTokenByHash(
		ctx context.Context,
		hash string,
	) (*models.ManageToken, error)

	MarkManageTokenUsed(
		ctx context.Context,
		tok *models.ManageToken,
		now time.Time,
	) error

	// -------- Reminder sweep --------
	ListUpcomingForReminder(
		ctx context.Context,
		from time.Time,
		until time.Time,
	) ([]models.Appointment, error)

	// -------- Transaction boundary --------
	// Executa fn dentro de uma transação: todo check-then-act de escrita
	// (criar, reagendar, cancelar) roda aqui para que o segundo escritor
	// concorrente enxergue o commit do primeiro.
	Atomically(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}
