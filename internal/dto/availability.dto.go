package dto

import (
	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

// AvailabilityDTO is the day as clients see it: a label is true only when it
// can still be booked.
type AvailabilityDTO struct {
	Fecha     string          `json:"fecha"`
	BarberoID uint            `json:"barberoId"`
	Origen    string          `json:"origen"`
	Horarios  map[string]bool `json:"horarios"`
}

func NewAvailabilityDTO(v *availability.View) AvailabilityDTO {
	return AvailabilityDTO{
		Fecha:     v.Date,
		BarberoID: v.BarberID,
		Origen:    string(v.Source),
		Horarios:  v.Labels(),
	}
}

type ToggleSlotsRequest struct {
	BarberoID uint            `json:"barberoId" binding:"required"`
	Fecha     string          `json:"fecha" binding:"required"`
	Horarios  map[string]bool `json:"horarios" binding:"required"`
}

// DayDTO reports the stored open state of every slot, reserved or not.
type DayDTO struct {
	Fecha     string          `json:"fecha"`
	BarberoID uint            `json:"barberoId"`
	Horarios  map[string]bool `json:"horarios"`
}

func NewDayDTO(barberID uint, date string, day schedule.Day) DayDTO {
	return DayDTO{
		Fecha:     date,
		BarberoID: barberID,
		Horarios:  DayLabels(day),
	}
}

func DayLabels(day schedule.Day) map[string]bool {
	out := make(map[string]bool, len(day))
	for _, s := range day {
		out[s.Label()] = s.Open
	}
	return out
}
