package models

import "time"

type Professional struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	EstablishmentID uint `gorm:"index" json:"establishment_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	Active bool `gorm:"default:true" json:"active"`

	// Reservado para multi-atendimento simultâneo; ainda não participa
	// do cálculo de disponibilidade.
	Capacity int `gorm:"default:1" json:"capacity"`

	Services []Service `gorm:"many2many:professional_services;" json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
