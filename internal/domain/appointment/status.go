package appointment

import "github.com/BruksfildServices01/barber-availability/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Wire names of the states.
const (
	WirePending   = "Pendiente"
	WireCompleted = "Completada"
	WireCancelled = "Cancelada"
)

func InitialStatus() Status {
	return StatusPending
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) Wire() string {
	switch s {
	case StatusCompleted:
		return WireCompleted
	case StatusCancelled:
		return WireCancelled
	default:
		return WirePending
	}
}

func ParseWire(v string) (Status, error) {
	switch v {
	case WirePending:
		return StatusPending, nil
	case WireCompleted:
		return StatusCompleted, nil
	case WireCancelled:
		return StatusCancelled, nil
	default:
		return "", httperr.Validation("invalid_state", "Estado must be Pendiente, Completada or Cancelada")
	}
}

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	if current != StatusPending {
		return httperr.Conflict("invalid_state", "only pending appointments can be cancelled")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusPending {
		return httperr.Conflict("invalid_state", "only pending appointments can be completed")
	}
	return nil
}

func CanReschedule(current Status) error {
	if current != StatusPending {
		return httperr.Conflict("invalid_state", "only pending appointments can be changed")
	}
	return nil
}
