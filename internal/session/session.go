// Package session carries the authenticated caller through every core
// operation explicitly.
package session

import "github.com/BruksfildServices01/barber-availability/internal/models"

type Role string

const (
	RoleOwner  Role = models.RoleOwner
	RoleBarber Role = models.RoleBarber
	RoleClient Role = "client"
)

type Session struct {
	UserID       uint
	BarbershopID uint
	Role         Role
}

func (s Session) IsClient() bool {
	return s.Role == RoleClient
}

func (s Session) IsStaff() bool {
	return s.Role == RoleOwner || s.Role == RoleBarber
}

// CanManageBarber reports whether the caller may change this barber's
// schedule and appointments.
func (s Session) CanManageBarber(barber *models.User) bool {
	switch s.Role {
	case RoleOwner:
		return s.BarbershopID == barber.BarbershopID
	case RoleBarber:
		return s.UserID == barber.ID
	default:
		return false
	}
}

// OwnsAppointment reports whether the caller is the client of ap.
func (s Session) OwnsAppointment(ap *models.Appointment) bool {
	return s.Role == RoleClient && s.UserID == ap.ClientID
}
