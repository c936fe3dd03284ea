package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      System settings grouped by category
// @Tags         settings
// @Produce      json
// @Success      200  {object}  map[string]map[string]models.SettingView
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/settings [get]
// @Security     SessionAuth
func (h *Handler) getSettings(c *gin.Context) {
	grouped, err := h.services.Settings.All(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "get_settings_failed")
		return
	}
	c.JSON(http.StatusOK, grouped)
}

// @Summary      Update system settings
// @Description  All-or-nothing batch: one unknown key or out-of-range value rejects everything
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body  map[string]interface{}  true  "key -> value map"
// @Success      200  {object}  map[string]interface{}  "success, updated"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/settings [post]
// @Security     SessionAuth
func (h *Handler) updateSettings(c *gin.Context) {
	var values map[string]any
	if ok := h.bindJSONOrBadRequest(c, &values); !ok {
		return
	}

	updated, err := h.services.Settings.UpdateBatch(c.Request.Context(), values)
	if err != nil {
		h.respondServiceError(c, err, "update_settings_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
}
