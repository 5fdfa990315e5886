package models

import "time"

// Horário semanal do estabelecimento: uma linha por weekday (0=domingo..6=sábado).
// Nunca é apagado, apenas upsert por weekday.
type BusinessHours struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	EstablishmentID uint `gorm:"uniqueIndex:idx_business_hours_day" json:"establishment_id"`
	Weekday         int  `gorm:"uniqueIndex:idx_business_hours_day" json:"weekday"`

	Closed    bool   `json:"closed"`
	OpenTime  string `gorm:"size:5" json:"open_time"` // "15:04"
	CloseTime string `gorm:"size:5" json:"close_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Override opcional por profissional. Sem linha → vale o horário do
// estabelecimento. Linha com Closed → profissional indisponível o dia todo.
type ProfessionalHours struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ProfessionalID uint `gorm:"uniqueIndex:idx_professional_hours_day" json:"professional_id"`
	Weekday        int  `gorm:"uniqueIndex:idx_professional_hours_day" json:"weekday"`

	Closed    bool   `json:"closed"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
