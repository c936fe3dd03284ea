package handlers

import (
	"net/http"
	"strconv"

	"greenhouse_control/internal/models"

	"github.com/gin-gonic/gin"
)

type customPhaseRequest struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Enabled   *bool  `json:"enabled"`
}

// @Summary      Ventilation config
// @Description  Schedule flags/parameters plus the custom phases
// @Tags         ventilation
// @Produce      json
// @Success      200  {object}  models.VentilationView
// @Failure      500  {object}  map[string]string
// @Router       /api/ventilation [get]
func (h *Handler) getVentilation(c *gin.Context) {
	view, err := h.services.Ventilation.View(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "get_ventilation_failed")
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Update ventilation config
// @Description  Partial update; absent fields keep their value
// @Tags         ventilation
// @Accept       json
// @Produce      json
// @Param        body  body  models.VentilationPatch  true  "Config patch"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/ventilation [post]
// @Security     SessionAuth
func (h *Handler) updateVentilation(c *gin.Context) {
	var patch models.VentilationPatch
	if ok := h.bindJSONOrBadRequest(c, &patch); !ok {
		return
	}
	if err := h.services.Ventilation.UpdateConfig(c.Request.Context(), patch); err != nil {
		h.respondServiceError(c, err, "update_ventilation_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary      Mark ventilation as run today
// @Tags         ventilation
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      401  {object}  map[string]string
// @Router       /api/ventilation/mark-run [post]
// @Security     ApiKeyAuth
func (h *Handler) markVentilationRun(c *gin.Context) {
	if err := h.services.Ventilation.MarkRun(c.Request.Context()); err != nil {
		h.respondServiceError(c, err, "mark_ventilation_run_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary      Custom ventilation phases
// @Tags         ventilation
// @Produce      json
// @Success      200  {array}   models.CustomPhase
// @Failure      500  {object}  map[string]string
// @Router       /api/ventilation/custom-phases [get]
func (h *Handler) getCustomPhases(c *gin.Context) {
	phases, err := h.services.Ventilation.Phases(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "get_custom_phases_failed")
		return
	}
	c.JSON(http.StatusOK, phases)
}

// @Summary      Create or update a custom phase
// @Description  Overlap against enabled fixed windows and other enabled phases rejects the write
// @Tags         ventilation
// @Accept       json
// @Produce      json
// @Param        body  body  customPhaseRequest  true  "Phase (id present = update)"
// @Success      200  {object}  map[string]interface{}  "success, id"
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/ventilation/custom-phases [post]
// @Security     SessionAuth
func (h *Handler) saveCustomPhase(c *gin.Context) {
	var input customPhaseRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	id, err := h.services.Ventilation.SavePhase(c.Request.Context(), models.CustomPhase{
		ID:        input.ID,
		Name:      input.Name,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Enabled:   enabled,
	})
	if err != nil {
		h.respondServiceError(c, err, "save_custom_phase_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// @Summary      Delete a custom phase
// @Tags         ventilation
// @Produce      json
// @Param        id  path  int  true  "Phase id"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  map[string]string
// @Router       /api/ventilation/custom-phases/{id} [delete]
// @Security     SessionAuth
func (h *Handler) deleteCustomPhase(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phase id"})
		return
	}
	if err := h.services.Ventilation.DeletePhase(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err, "delete_custom_phase_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
