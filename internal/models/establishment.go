package models

import "time"

type Establishment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	Timezone string `gorm:"size:64" json:"timezone"`

	// Parâmetros de agenda
	SlotIntervalMin     int  `gorm:"default:30" json:"slot_interval_min"`
	BufferMin           int  `gorm:"default:0" json:"buffer_min"`
	MaxFutureDays       int  `gorm:"default:60" json:"max_future_days"`
	RescheduleMinHours  int  `gorm:"default:0" json:"reschedule_min_hours"`
	ReminderHoursBefore int  `gorm:"default:24" json:"reminder_hours_before"`
	BookingEnabled      bool `gorm:"default:true" json:"booking_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
