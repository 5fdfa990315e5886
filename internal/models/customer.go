package models

import "time"

// Cliente final, sem login, vinculado ao estabelecimento
type Customer struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	EstablishmentID uint `gorm:"index" json:"establishment_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
