package dto

import (
	"github.com/BruksfildServices01/barber-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

type TemplateDayDTO struct {
	DiaSemana  int    `json:"diaSemana"`
	Habilitado bool   `json:"habilitado"`
	HoraInicio string `json:"horaInicio,omitempty"`
	HoraFin    string `json:"horaFin,omitempty"`
}

func (d TemplateDayDTO) Input() availability.DayInput {
	return availability.DayInput{
		Weekday: d.DiaSemana,
		Enabled: d.Habilitado,
		Start:   d.HoraInicio,
		End:     d.HoraFin,
	}
}

func DayInputs(days []TemplateDayDTO) []availability.DayInput {
	if days == nil {
		return nil
	}
	out := make([]availability.DayInput, 0, len(days))
	for _, d := range days {
		out = append(out, d.Input())
	}
	return out
}

type SaveTemplateRequest struct {
	BarberoID uint             `json:"barberoId" binding:"required"`
	Dias      []TemplateDayDTO `json:"dias" binding:"required"`
}

type TemplateDTO struct {
	BarberoID   uint             `json:"barberoId"`
	Configurado bool             `json:"configurado"`
	Dias        []TemplateDayDTO `json:"dias"`
}

func NewTemplateDTO(barberID uint, tpl schedule.WeeklyTemplate, found bool) TemplateDTO {
	out := TemplateDTO{
		BarberoID:   barberID,
		Configurado: found,
		Dias:        make([]TemplateDayDTO, 0, len(tpl.Days)),
	}
	for _, d := range tpl.Days {
		day := TemplateDayDTO{DiaSemana: int(d.Weekday), Habilitado: d.Enabled}
		if d.Enabled {
			day.HoraInicio = d.Start.Clock()
			day.HoraFin = d.End.Clock()
		}
		out.Dias = append(out.Dias, day)
	}
	return out
}

type ApplyTemplateRequest struct {
	BarberoID uint             `json:"barberoId" binding:"required"`
	Desde     string           `json:"desde" binding:"required"`
	Hasta     string           `json:"hasta" binding:"required"`
	Dias      []TemplateDayDTO `json:"dias"`
}

type ApplyTemplateDTO struct {
	BarberoID uint   `json:"barberoId"`
	Desde     string `json:"desde"`
	Hasta     string `json:"hasta"`
	Fechas    int    `json:"fechas"`
}

func NewApplyTemplateDTO(r *availability.ApplyTemplateResult) ApplyTemplateDTO {
	return ApplyTemplateDTO{
		BarberoID: r.BarberID,
		Desde:     r.From,
		Hasta:     r.To,
		Fechas:    r.Dates,
	}
}
