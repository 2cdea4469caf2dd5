package dto

import (
	"time"

	domain "github.com/BruksfildServices01/barber-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	ucAppointment "github.com/BruksfildServices01/barber-availability/internal/usecase/appointment"
)

type AppointmentDTO struct {
	ID         uint      `json:"id"`
	ClienteID  uint      `json:"clienteId"`
	BarberoID  uint      `json:"barberoId"`
	ServicioID uint      `json:"servicioId"`
	Fecha      string    `json:"fecha"`
	Horario    string    `json:"horario"`
	Estado     string    `json:"Estado"`
	Notas      string    `json:"notas"`
	CreadoEn   time.Time `json:"creadoEn"`
}

func NewAppointmentDTO(ap *models.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:         ap.ID,
		ClienteID:  ap.ClientID,
		BarberoID:  ap.BarberID,
		ServicioID: ap.BarberProductID,
		Fecha:      ap.Date,
		Horario:    domain.SlotOf(ap).Label(),
		Estado:     domain.Status(ap.Status).Wire(),
		Notas:      ap.Notes,
		CreadoEn:   ap.CreatedAt,
	}
}

func NewAppointmentList(rows []models.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewAppointmentDTO(&rows[i]))
	}
	return out
}

type CreateAppointmentRequest struct {
	BarberoID  uint   `json:"barberoId" binding:"required"`
	ServicioID uint   `json:"servicioId" binding:"required"`
	Fecha      string `json:"fecha" binding:"required"`
	Horario    string `json:"horario" binding:"required"`
	ClienteID  uint   `json:"clienteId"`
	Notas      string `json:"notas"`
}

func (r CreateAppointmentRequest) Input() ucAppointment.CreateAppointmentInput {
	return ucAppointment.CreateAppointmentInput{
		BarberID:  r.BarberoID,
		ServiceID: r.ServicioID,
		Date:      r.Fecha,
		Slot:      r.Horario,
		ClientID:  r.ClienteID,
		Notes:     r.Notas,
	}
}

type RescheduleAppointmentRequest struct {
	BarberoID  uint   `json:"barberoId"`
	ServicioID uint   `json:"servicioId"`
	Fecha      string `json:"fecha"`
	Horario    string `json:"horario"`
}

func (r RescheduleAppointmentRequest) Input(id uint) ucAppointment.RescheduleAppointmentInput {
	return ucAppointment.RescheduleAppointmentInput{
		ID:        id,
		BarberID:  r.BarberoID,
		ServiceID: r.ServicioID,
		Date:      r.Fecha,
		Slot:      r.Horario,
	}
}

type AppointmentStatusRequest struct {
	Estado string `json:"Estado" binding:"required"`
}
