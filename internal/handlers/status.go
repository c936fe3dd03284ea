package handlers

import (
	"net/http"

	"greenhouse_control/internal/models"

	"github.com/gin-gonic/gin"
)

// @Summary      Current greenhouse status
// @Description  Device snapshot plus gate position/auto/enabled maps
// @Tags         status
// @Produce      json
// @Success      200  {object}  models.StatusView
// @Failure      500  {object}  map[string]string
// @Router       /api/status [get]
func (h *Handler) getStatus(c *gin.Context) {
	view, err := h.services.DeviceState.GetStatus(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "get_status_failed")
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Push device status snapshot
// @Description  Full snapshot from the controller; gate positions are upserted, changes audited
// @Tags         status
// @Accept       json
// @Produce      json
// @Param        body  body  models.StatusReport  true  "Status snapshot"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/status [post]
// @Security     ApiKeyAuth
func (h *Handler) updateStatus(c *gin.Context) {
	var report models.StatusReport
	if ok := h.bindJSONOrBadRequest(c, &report); !ok {
		return
	}

	if err := h.services.DeviceState.ApplyReport(c.Request.Context(), report); err != nil {
		h.respondServiceError(c, err, "update_status_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
