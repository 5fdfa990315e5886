package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	EstablishmentID uint          `gorm:"index" json:"establishment_id"`
	Establishment   Establishment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"establishment"`

	ProfessionalID uint         `gorm:"index" json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"professional"`

	CustomerID uint     `json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'booked'" json:"status"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CanceledAt  *time.Time `json:"canceled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Histórico append-only de transições de status / reagendamentos
type AppointmentEvent struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"index" json:"appointment_id"`

	FromStatus string `gorm:"size:20" json:"from_status"`
	ToStatus   string `gorm:"size:20" json:"to_status"`

	// Preenchidos apenas em reagendamentos
	OldStart *time.Time `json:"old_start"`
	NewStart *time.Time `json:"new_start"`

	OccurredAt time.Time `json:"occurred_at"`
}
