package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/dto"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/httpresp"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

type TemplateHandler struct {
	get   *availability.GetWeeklyTemplate
	save  *availability.SaveWeeklyTemplate
	apply *availability.ApplyTemplate
	log   *zap.Logger
}

func NewTemplateHandler(
	get *availability.GetWeeklyTemplate,
	save *availability.SaveWeeklyTemplate,
	apply *availability.ApplyTemplate,
	log *zap.Logger,
) *TemplateHandler {
	return &TemplateHandler{get: get, save: save, apply: apply, log: log}
}

func (h *TemplateHandler) Get(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	barberID, ok := uintQuery(c, "barberoId")
	if !ok {
		return
	}

	tpl, found, err := h.get.Execute(c.Request.Context(), sess, barberID)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewTemplateDTO(barberID, tpl, found))
}

func (h *TemplateHandler) Save(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req dto.SaveTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	tpl, err := h.save.Execute(c.Request.Context(), sess, req.BarberoID, dto.DayInputs(req.Dias))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewTemplateDTO(req.BarberoID, tpl, true))
}

// Apply materializes the template over [desde, hasta].
func (h *TemplateHandler) Apply(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req dto.ApplyTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.apply.Execute(c.Request.Context(), sess, availability.ApplyTemplateInput{
		BarberID: req.BarberoID,
		From:     req.Desde,
		To:       req.Hasta,
		Days:     dto.DayInputs(req.Dias),
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewApplyTemplateDTO(res))
}
