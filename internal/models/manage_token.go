package models

import "time"

// Credencial opaca de autoatendimento: o cliente recebe o valor em claro
// por e-mail e aqui fica apenas o hash. Uso único, com expiração.
type ManageToken struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"index" json:"appointment_id"`

	TokenHash string `gorm:"size:64;uniqueIndex;not null" json:"-"`

	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`

	CreatedAt time.Time `json:"created_at"`
}
