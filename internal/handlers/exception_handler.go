package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-availability/internal/dto"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/httpresp"
	"github.com/BruksfildServices01/barber-availability/internal/usecase/exception"
)

type ExceptionHandler struct {
	create *exception.CreateException
	remove *exception.DeleteException
	get    *exception.GetException
	list   *exception.ListExceptions
	log    *zap.Logger
}

func NewExceptionHandler(
	create *exception.CreateException,
	remove *exception.DeleteException,
	get *exception.GetException,
	list *exception.ListExceptions,
	log *zap.Logger,
) *ExceptionHandler {
	return &ExceptionHandler{
		create: create,
		remove: remove,
		get:    get,
		list:   list,
		log:    log,
	}
}

// ======================================================
// POST /disponibilidad-excepcional
// ======================================================

func (h *ExceptionHandler) Create(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req dto.CreateExceptionRequest
	if !bindJSON(c, &req) {
		return
	}

	o, err := h.create.Execute(c.Request.Context(), sess, req.Input())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, dto.NewExceptionDTO(o))
}

// ======================================================
// DELETE /disponibilidad-excepcional/:id
// ======================================================

func (h *ExceptionHandler) Delete(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), sess, id); err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ExceptionHandler) Get(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	o, err := h.get.Execute(c.Request.Context(), sess, id)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewExceptionDTO(o))
}

// List returns the barber's exceptions from desde onwards, today by default.
func (h *ExceptionHandler) List(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	barberID, ok := uintQuery(c, "barberoId")
	if !ok {
		return
	}

	rows, err := h.list.Execute(c.Request.Context(), sess, barberID, c.Query("desde"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, dto.NewExceptionList(rows))
}
