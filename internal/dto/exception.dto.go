package dto

import (
	"time"

	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/exception"
)

type CreateExceptionRequest struct {
	BarberoID     uint   `json:"barberoId" binding:"required"`
	Fecha         string `json:"fecha" binding:"required"`
	TipoExcepcion string `json:"tipoExcepcion" binding:"required"`
	Motivo        string `json:"motivo"`

	// HorarioModificado takes a window or an explicit slot map.
	HoraInicio          string          `json:"horaInicio"`
	HoraFin             string          `json:"horaFin"`
	HorariosModificados map[string]bool `json:"horariosModificados"`
}

func (r CreateExceptionRequest) Input() exception.CreateExceptionInput {
	return exception.CreateExceptionInput{
		BarberID:    r.BarberoID,
		Date:        r.Fecha,
		Type:        r.TipoExcepcion,
		Reason:      r.Motivo,
		WindowStart: r.HoraInicio,
		WindowEnd:   r.HoraFin,
		Slots:       r.HorariosModificados,
	}
}

type ExceptionDTO struct {
	ID                  uint            `json:"id"`
	BarberoID           uint            `json:"barberoId"`
	Fecha               string          `json:"fecha"`
	TipoExcepcion       string          `json:"tipoExcepcion"`
	Motivo              string          `json:"motivo"`
	HorariosModificados map[string]bool `json:"horariosModificados"`
	CitasAfectadas      []uint          `json:"citasAfectadas"`
	ClientesNotificados bool            `json:"clientesNotificados"`
	CreadoEn            time.Time       `json:"creadoEn"`
}

func NewExceptionDTO(o *models.ExceptionOverride) ExceptionDTO {
	affected := make([]uint, 0, len(o.Affected))
	for _, a := range o.Affected {
		affected = append(affected, a.AppointmentID)
	}

	return ExceptionDTO{
		ID:                  o.ID,
		BarberoID:           o.BarberID,
		Fecha:               o.Date,
		TipoExcepcion:       schedule.ExceptionTypeWire(o.Type),
		Motivo:              o.Reason,
		HorariosModificados: DayLabels(schedule.DayFromOverride(o)),
		CitasAfectadas:      affected,
		ClientesNotificados: o.ClientsNotified,
		CreadoEn:            o.CreatedAt,
	}
}

func NewExceptionList(rows []models.ExceptionOverride) []ExceptionDTO {
	out := make([]ExceptionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewExceptionDTO(&rows[i]))
	}
	return out
}
