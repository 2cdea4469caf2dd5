package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-availability/internal/httperr"
	"github.com/BruksfildServices01/barber-availability/internal/httpresp"
	"github.com/BruksfildServices01/barber-availability/internal/models"
)

// BarberProductHandler lists the services a client can pick when booking.
type BarberProductHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewBarberProductHandler(db *gorm.DB, log *zap.Logger) *BarberProductHandler {
	return &BarberProductHandler{db: db, log: log}
}

type serviceResponse struct {
	ID          uint    `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	Precio      float64 `json:"precio"`
}

func (h *BarberProductHandler) List(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ? AND active = ?", sess.BarbershopID, true)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var products []models.BarberProduct
	if err := q.Order("id ASC").Find(&products).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	out := make([]serviceResponse, 0, len(products))
	for _, p := range products {
		out = append(out, serviceResponse{
			ID:          p.ID,
			Nombre:      p.Name,
			Descripcion: p.Description,
			Precio:      p.Price,
		})
	}

	httpresp.List(c, out)
}

