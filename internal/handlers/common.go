package handlers

import (
	"errors"
	"net/http"

	"greenhouse_control/internal/repository"
	"greenhouse_control/internal/service"

	"github.com/gin-gonic/gin"
)

const errInvalidBodyPref = "invalid body: "

// bindJSONOrBadRequest binds the request body into dst, writing a 400 JSON
// on failure. Returns false if the request was already handled.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// respondServiceError maps service/repository errors onto HTTP statuses:
// validation 400, missing rows 404, conflicts 409, all else 500.
func (h *Handler) respondServiceError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	var overlap *service.OverlapError
	switch {
	case errors.As(err, &overlap):
		c.JSON(http.StatusConflict, gin.H{"error": overlap.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repository.ErrTerminalState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		if h.log != nil {
			fields := append([]interface{}{"err", err}, kv...)
			h.log.Errorw(logKey, fields...)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
