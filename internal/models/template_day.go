package models

import "time"

// TemplateDay is one weekday entry of a barber's weekly template.
type TemplateDay struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"not null;uniqueIndex:idx_template_barber_weekday" json:"barber_id"`

	Weekday int `gorm:"not null;uniqueIndex:idx_template_barber_weekday" json:"weekday"`

	Enabled   bool   `gorm:"not null" json:"enabled"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
