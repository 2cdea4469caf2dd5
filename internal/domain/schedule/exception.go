package schedule

import (
	"github.com/BruksfildServices01/barber-availability/internal/domain/slot"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

const (
	WireFullDayOff    = "DiaCompleto"
	WireModifiedHours = "HorarioModificado"
)

func ParseExceptionType(wire string) (string, error) {
	switch wire {
	case WireFullDayOff:
		return models.ExceptionFullDayOff, nil
	case WireModifiedHours:
		return models.ExceptionModifiedHours, nil
	default:
		return "", httperr.Validation("invalid_exception_type", "tipoExcepcion must be DiaCompleto or HorarioModificado")
	}
}

func ExceptionTypeWire(t string) string {
	if t == models.ExceptionModifiedHours {
		return WireModifiedHours
	}
	return WireFullDayOff
}

// Booked is an active appointment's hold on a slot.
type Booked struct {
	AppointmentID uint
	Slot          slot.Slot
}

// Affected returns, in input order, the appointments whose exact slot is not
// open in day.
func Affected(day Day, booked []Booked) []uint {
	ids := make([]uint, 0)
	for _, b := range booked {
		if !day.IsOpen(b.Slot) {
			ids = append(ids, b.AppointmentID)
		}
	}
	return ids
}
