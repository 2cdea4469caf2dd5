package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

// GetMe echoes the session the token resolved to.
func (h *MeHandler) GetMe(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"usuarioId":  sess.UserID,
		"barberiaId": sess.BarbershopID,
		"rol":        sess.Role,
	})
}
