package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/models"
	"github.com/BruksfildServices01/barber-availability/internal/session"
	"github.com/BruksfildServices01/barber-availability/internal/timezone"
)

// BarbershopHandler exposes the shop settings that drive scheduling. The
// timezone decides which calendar day "today" is for every barber.
type BarbershopHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewBarbershopHandler(db *gorm.DB, audit *audit.Dispatcher, log *zap.Logger) *BarbershopHandler {
	return &BarbershopHandler{db: db, audit: audit, log: log}
}

type UpdateBarbershopRequest struct {
	ZonaHoraria *string `json:"zonaHoraria"`
}

type barbershopResponse struct {
	ID          uint   `json:"id"`
	Nombre      string `json:"nombre"`
	Slug        string `json:"slug"`
	ZonaHoraria string `json:"zonaHoraria"`
}

func newBarbershopResponse(shop *models.Barbershop) barbershopResponse {
	return barbershopResponse{
		ID:          shop.ID,
		Nombre:      shop.Name,
		Slug:        shop.Slug,
		ZonaHoraria: shop.Timezone,
	}
}

func (h *BarbershopHandler) load(c *gin.Context, id uint) (*models.Barbershop, bool) {
	var shop models.Barbershop
	if err := h.db.WithContext(c.Request.Context()).First(&shop, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, h.log, httperr.NotFound("barbershop_not_found", "barbershop not found"))
			return nil, false
		}
		httperr.Respond(c, h.log, err)
		return nil, false
	}
	return &shop, true
}

func (h *BarbershopHandler) Get(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	shop, ok := h.load(c, sess.BarbershopID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newBarbershopResponse(shop))
}

func (h *BarbershopHandler) Update(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	if sess.Role != session.RoleOwner {
		httperr.Respond(c, h.log, httperr.Forbidden("forbidden", "only the owner can change barbershop settings"))
		return
	}

	shop, ok := h.load(c, sess.BarbershopID)
	if !ok {
		return
	}

	var req UpdateBarbershopRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.ZonaHoraria != nil {
		if !timezone.IsValid(*req.ZonaHoraria) {
			httperr.BadRequest(c, "invalid_timezone", "zonaHoraria must be an IANA timezone")
			return
		}
		shop.Timezone = *req.ZonaHoraria
	}

	if err := h.db.WithContext(c.Request.Context()).Save(shop).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		UserID:       audit.UintPtr(sess.UserID),
		Action:       "barbershop_updated",
		Entity:       "barbershop",
		EntityID:     audit.UintPtr(shop.ID),
		Metadata:     map[string]any{"timezone": shop.Timezone},
	})

	c.JSON(http.StatusOK, newBarbershopResponse(shop))
}
