package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID    uint `gorm:"not null;index" json:"barbershop_id"`
	BarberID        uint `gorm:"not null;index:idx_appointment_barber_date" json:"barber_id"`
	ClientID        uint `gorm:"not null;index:idx_appointment_client_date" json:"client_id"`
	BarberProductID uint `gorm:"not null" json:"barber_product_id"`

	// Local calendar date of the barbershop, YYYY-MM-DD.
	Date        string `gorm:"size:10;not null;index:idx_appointment_barber_date;index:idx_appointment_client_date" json:"date"`
	StartMinute int    `gorm:"not null" json:"start_minute"`
	EndMinute   int    `gorm:"not null" json:"end_minute"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SlotReservation exists exactly while its appointment is not terminal.
type SlotReservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint `gorm:"not null;uniqueIndex" json:"appointment_id"`

	BarberID    uint   `gorm:"not null;uniqueIndex:idx_reservation_slot" json:"barber_id"`
	Date        string `gorm:"size:10;not null;uniqueIndex:idx_reservation_slot" json:"date"`
	StartMinute int    `gorm:"not null;uniqueIndex:idx_reservation_slot" json:"start_minute"`
	EndMinute   int    `gorm:"not null" json:"end_minute"`

	CreatedAt time.Time `json:"created_at"`
}
