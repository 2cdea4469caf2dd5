package models

import "time"

const (
	AvailabilitySourceTemplate = "template"
	AvailabilitySourceManual   = "manual"
)

// DailyAvailability is the materialized slot set of one barber on one date.
type DailyAvailability struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	BarberID uint   `gorm:"not null;uniqueIndex:idx_daily_barber_date" json:"barber_id"`
	Date     string `gorm:"size:10;not null;uniqueIndex:idx_daily_barber_date" json:"date"`
	Source   string `gorm:"size:20;not null" json:"source"`

	Slots []AvailabilitySlot `gorm:"constraint:OnDelete:CASCADE;" json:"slots"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AvailabilitySlot struct {
	ID                  uint `gorm:"primaryKey" json:"id"`
	DailyAvailabilityID uint `gorm:"not null;index" json:"daily_availability_id"`

	StartMinute int  `gorm:"not null" json:"start_minute"`
	EndMinute   int  `gorm:"not null" json:"end_minute"`
	Open        bool `gorm:"not null" json:"open"`
}

// ScheduleLock rows are locked FOR UPDATE to serialize writers of one
// (scope, owner, date).
type ScheduleLock struct {
	ID      uint   `gorm:"primaryKey"`
	Scope   string `gorm:"size:10;not null;uniqueIndex:idx_schedule_lock"`
	OwnerID uint   `gorm:"not null;uniqueIndex:idx_schedule_lock"`
	Date    string `gorm:"size:10;not null;uniqueIndex:idx_schedule_lock"`

	CreatedAt time.Time
}
