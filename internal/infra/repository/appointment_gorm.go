package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/agendly-app/booking-api/internal/domain/appointment"
	"github.com/agendly-app/booking-api/internal/httperr"
	"github.com/agendly-app/booking-api/internal/models"
)

var occupyingStatuses = []string{
	string(domain.StatusBooked),
	string(domain.StatusConfirmed),
}

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Establishment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetEstablishmentByID(
	ctx context.Context,
	id uint,
) (*models.Establishment, error) {

	var est models.Establishment
	if err := r.db.WithContext(ctx).First(&est, id).Error; err != nil {
		return nil, err
	}
	return &est, nil
}

func (r *AppointmentGormRepository) GetEstablishmentBySlug(
	ctx context.Context,
	slug string,
) (*models.Establishment, error) {

	var est models.Establishment
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&est).Error; err != nil {
		return nil, err
	}
	return &est, nil
}

// --------------------------------------------------
// Service / Professional
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	establishmentID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND establishment_id = ?", serviceID, establishmentID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	establishmentID uint,
	professionalID uint,
) (*models.Professional, error) {

	var prof models.Professional
	if err := r.db.WithContext(ctx).
		Where("id = ? AND establishment_id = ?", professionalID, establishmentID).
		First(&prof).Error; err != nil {
		return nil, err
	}
	return &prof, nil
}

func (r *AppointmentGormRepository) GetProfessionalForUpdate(
	ctx context.Context,
	establishmentID uint,
	professionalID uint,
) (*models.Professional, error) {

	var prof models.Professional
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND establishment_id = ?", professionalID, establishmentID).
		First(&prof).Error; err != nil {
		return nil, err
	}
	return &prof, nil
}

func (r *AppointmentGormRepository) ProfessionalOffersService(
	ctx context.Context,
	professionalID uint,
	serviceID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Table("professional_services").
		Where("professional_id = ? AND service_id = ?", professionalID, serviceID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateCustomer(
	ctx context.Context,
	establishmentID uint,
	name string,
	phone string,
	email string,
) (*models.Customer, error) {

	// dedup pelo e-mail quando informado (canal das notificações);
	// senão pelo telefone
	q := r.db.WithContext(ctx).Where("establishment_id = ?", establishmentID)
	if email != "" {
		q = q.Where("email = ?", email)
	} else {
		q = q.Where("phone = ?", phone)
	}

	var customer models.Customer
	if err := q.First(&customer).Error; err == nil {
		return &customer, nil
	}

	customer = models.Customer{
		EstablishmentID: establishmentID,
		Name:            name,
		Phone:           phone,
		Email:           email,
	}

	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}

	return &customer, nil
}

// --------------------------------------------------
// Hours
// --------------------------------------------------

// Sem linha para o weekday não é erro: o resolver trata como fechado.
func (r *AppointmentGormRepository) GetBusinessHours(
	ctx context.Context,
	establishmentID uint,
	weekday int,
) (*models.BusinessHours, error) {

	var bh models.BusinessHours
	err := r.db.WithContext(ctx).
		Where("establishment_id = ? AND weekday = ?", establishmentID, weekday).
		First(&bh).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bh, nil
}

func (r *AppointmentGormRepository) GetProfessionalHours(
	ctx context.Context,
	professionalID uint,
	weekday int,
) (*models.ProfessionalHours, error) {

	var ph models.ProfessionalHours
	err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		First(&ph).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ph, nil
}

// --------------------------------------------------
// Blocked intervals
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveAppointments(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "start_time", "end_time").
		Where(
			"professional_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			professionalID, occupyingStatuses, end, start,
		).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

func (r *AppointmentGormRepository) ListTimeBlocks(
	ctx context.Context,
	establishmentID uint,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.TimeBlock, error) {

	var blocks []models.TimeBlock
	if err := r.db.WithContext(ctx).
		Where(
			"establishment_id = ? AND (professional_id IS NULL OR professional_id = ?) AND start_time < ? AND end_time > ?",
			establishmentID, professionalID, end, start,
		).
		Find(&blocks).Error; err != nil {
		return nil, err
	}

	return blocks, nil
}

func (r *AppointmentGormRepository) ListRecurringTimeBlocks(
	ctx context.Context,
	establishmentID uint,
	professionalID uint,
	weekday int,
) ([]models.RecurringTimeBlock, error) {

	var blocks []models.RecurringTimeBlock
	if err := r.db.WithContext(ctx).
		Where(
			"establishment_id = ? AND (professional_id IS NULL OR professional_id = ?) AND weekday = ? AND active = true",
			establishmentID, professionalID, weekday,
		).
		Find(&blocks).Error; err != nil {
		return nil, err
	}

	return blocks, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointmentForUpdate(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ap, appointmentID).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) GetAppointmentDetail(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Preload("Establishment").
		First(&ap, appointmentID).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) RecordEvent(
	ctx context.Context,
	ev *models.AppointmentEvent,
) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	establishmentID uint,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Where(
			"establishment_id = ? AND start_time >= ? AND start_time < ?",
			establishmentID,
			start,
			end,
		)

	if professionalID != 0 {
		q = q.Where("professional_id = ?", professionalID)
	}

	var aps []models.Appointment
	if err := q.Order("start_time ASC").Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// --------------------------------------------------
// Manage token
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateManageToken(
	ctx context.Context,
	tok *models.ManageToken,
) error {
	return r.db.WithContext(ctx).Create(tok).Error
}

func (r *AppointmentGormRepository) GetManageTokenByHash(
	ctx context.Context,
	hash string,
) (*models.ManageToken, error) {

	var tok models.ManageToken
	if err := r.db.WithContext(ctx).
		Where("token_hash = ?", hash).
		First(&tok).Error; err != nil {
		return nil, err
	}

	return &tok, nil
}

// MarkManageTokenUsed só escreve se used_at ainda estiver nulo: segundo
// guarda de uso único além da validação sob lock.
func (r *AppointmentGormRepository) MarkManageTokenUsed(
	ctx context.Context,
	tok *models.ManageToken,
	now time.Time,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.ManageToken{}).
		Where("id = ? AND used_at IS NULL", tok.ID).
		Update("used_at", now)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeTokenAlreadyUsed)
	}

	tok.UsedAt = &now
	return nil
}

// --------------------------------------------------
// Reminder sweep
// --------------------------------------------------

func (r *AppointmentGormRepository) ListUpcomingForReminder(
	ctx context.Context,
	from time.Time,
	until time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Preload("Establishment").
		Where(
			"status IN ? AND start_time >= ? AND start_time < ?",
			occupyingStatuses, from, until,
		).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// --------------------------------------------------
// Transaction boundary
// --------------------------------------------------

func (r *AppointmentGormRepository) Atomically(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewAppointmentGormRepository(tx))
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
