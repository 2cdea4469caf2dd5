package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-availability/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-availability/internal/dto"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/httpresp"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	ucAppointment "github.com/BruksfildServices01/barber-availability/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create     *ucAppointment.CreateAppointment
	reschedule *ucAppointment.RescheduleAppointment
	cancel     *ucAppointment.CancelAppointment
	complete   *ucAppointment.CompleteAppointment
	get        *ucAppointment.GetAppointment
	agenda     *ucAppointment.ListBarberAgenda
	mine       *ucAppointment.ListClientAppointments
	log        *zap.Logger
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	reschedule *ucAppointment.RescheduleAppointment,
	cancel *ucAppointment.CancelAppointment,
	complete *ucAppointment.CompleteAppointment,
	get *ucAppointment.GetAppointment,
	agenda *ucAppointment.ListBarberAgenda,
	mine *ucAppointment.ListClientAppointments,
	log *zap.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:     create,
		reschedule: reschedule,
		cancel:     cancel,
		complete:   complete,
		get:        get,
		agenda:     agenda,
		mine:       mine,
		log:        log,
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req dto.CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), sess, req.Input())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, dto.NewAppointmentDTO(ap))
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req dto.RescheduleAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), sess, req.Input(id))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

// ======================================================
// STATE
// ======================================================

// UpdateStatus handles PUT /citas/:id/estado. Only terminal states can be
// requested.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req dto.AppointmentStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	target, err := domain.ParseWire(req.Estado)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	var ap *models.Appointment
	switch target {
	case domain.StatusCancelled:
		ap, err = h.cancel.Execute(c.Request.Context(), sess, id)
	case domain.StatusCompleted:
		ap, err = h.complete.Execute(c.Request.Context(), sess, id)
	default:
		err = httperr.Validation("invalid_transition", "Estado must be Completada or Cancelada")
	}
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

// ======================================================
// READS
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), sess, id)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

// ListByBarber is the barber's agenda for one day.
func (h *AppointmentHandler) ListByBarber(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	barberID, ok := uintQuery(c, "barberoId")
	if !ok {
		return
	}

	rows, err := h.agenda.Execute(c.Request.Context(), sess, barberID, c.Query("fecha"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, dto.NewAppointmentList(rows))
}

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	rows, err := h.mine.Execute(c.Request.Context(), sess, c.Query("fecha"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, dto.NewAppointmentList(rows))
}
