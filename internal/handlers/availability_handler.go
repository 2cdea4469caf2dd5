package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/dto"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/httpresp"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	get    *availability.GetAvailability
	toggle *availability.ToggleSlots
	log    *zap.Logger
}

func NewAvailabilityHandler(
	get *availability.GetAvailability,
	toggle *availability.ToggleSlots,
	log *zap.Logger,
) *AvailabilityHandler {
	return &AvailabilityHandler{get: get, toggle: toggle, log: log}
}

// ======================================================
// GET /disponibilidad?barberoId&fecha
// ======================================================

func (h *AvailabilityHandler) Get(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	barberID, ok := uintQuery(c, "barberoId")
	if !ok {
		return
	}

	view, err := h.get.Execute(c.Request.Context(), sess, barberID, c.Query("fecha"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewAvailabilityDTO(view))
}

// ======================================================
// PUT /disponibilidad
// ======================================================

func (h *AvailabilityHandler) Toggle(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req dto.ToggleSlotsRequest
	if !bindJSON(c, &req) {
		return
	}

	day, err := h.toggle.Execute(c.Request.Context(), sess, availability.ToggleSlotsInput{
		BarberID: req.BarberoID,
		Date:     req.Fecha,
		Slots:    req.Horarios,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewDayDTO(req.BarberoID, req.Fecha, day))
}
