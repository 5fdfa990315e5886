package models

import "time"

// Bloqueio avulso de agenda. ProfessionalID nulo bloqueia todos os
// profissionais do estabelecimento.
type TimeBlock struct {
	ID              uint  `gorm:"primaryKey" json:"id"`
	EstablishmentID uint  `gorm:"index" json:"establishment_id"`
	ProfessionalID  *uint `gorm:"index" json:"professional_id"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Reason string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bloqueio recorrente semanal. Instanciado sobre a data concreta apenas
// na hora de gerar os horários.
type RecurringTimeBlock struct {
	ID              uint  `gorm:"primaryKey" json:"id"`
	EstablishmentID uint  `gorm:"index" json:"establishment_id"`
	ProfessionalID  *uint `gorm:"index" json:"professional_id"`

	Weekday   int    `json:"weekday"`
	StartTime string `gorm:"size:5" json:"start_time"` // "15:04"
	EndTime   string `gorm:"size:5" json:"end_time"`

	Reason string `gorm:"size:255" json:"reason"`
	Active bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
