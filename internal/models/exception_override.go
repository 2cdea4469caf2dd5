package models

import "time"

const (
	ExceptionFullDayOff    = "full_day_off"
	ExceptionModifiedHours = "modified_hours"
)

type ExceptionOverride struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	BarberID uint   `gorm:"not null;uniqueIndex:idx_override_barber_date" json:"barber_id"`
	Date     string `gorm:"size:10;not null;uniqueIndex:idx_override_barber_date" json:"date"`

	Type   string `gorm:"size:20;not null" json:"type"`
	Reason string `gorm:"size:255" json:"reason"`

	ClientsNotified bool `gorm:"not null;default:false" json:"clients_notified"`

	Slots    []OverrideSlot                `gorm:"constraint:OnDelete:CASCADE;" json:"slots"`
	Affected []OverrideAffectedAppointment `gorm:"constraint:OnDelete:CASCADE;" json:"affected"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OverrideSlot struct {
	ID                  uint `gorm:"primaryKey" json:"id"`
	ExceptionOverrideID uint `gorm:"not null;index" json:"exception_override_id"`

	StartMinute int  `gorm:"not null" json:"start_minute"`
	EndMinute   int  `gorm:"not null" json:"end_minute"`
	Open        bool `gorm:"not null" json:"open"`
}

type OverrideAffectedAppointment struct {
	ID                  uint `gorm:"primaryKey" json:"id"`
	ExceptionOverrideID uint `gorm:"not null;index" json:"exception_override_id"`
	AppointmentID       uint `gorm:"not null" json:"appointment_id"`
}
