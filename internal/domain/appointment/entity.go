package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-availability/internal/domain/slot"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func SlotOf(ap *models.Appointment) slot.Slot {
	return slot.Slot{Start: slot.Minute(ap.StartMinute), End: slot.Minute(ap.EndMinute)}
}

func ReservationFor(ap *models.Appointment) *models.SlotReservation {
	return &models.SlotReservation{
		AppointmentID: ap.ID,
		BarberID:      ap.BarberID,
		Date:          ap.Date,
		StartMinute:   ap.StartMinute,
		EndMinute:     ap.EndMinute,
	}
}
