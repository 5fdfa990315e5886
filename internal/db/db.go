package db

import (
	"log"
	"time"

	"github.com/agendly-app/booking-api/internal/config"
	"github.com/agendly-app/booking-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Establishment{},
		&models.User{},
		&models.Professional{},
		&models.Service{},
		&models.BusinessHours{},
		&models.ProfessionalHours{},
		&models.Customer{},
		&models.Appointment{},
		&models.AppointmentEvent{},
		&models.TimeBlock{},
		&models.RecurringTimeBlock{},
		&models.ManageToken{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	db.Exec(`
        UPDATE establishments
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''
    `)

	return db
}
