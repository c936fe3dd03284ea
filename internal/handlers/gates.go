package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type gateAutoModeRequest struct {
	MotorName   string `json:"motor_name" binding:"required"`
	AutoEnabled *bool  `json:"auto_enabled"`
}

type gateEnabledRequest struct {
	MotorName string `json:"motor_name" binding:"required"`
	Enabled   *bool  `json:"enabled"`
}

type gatePositionRequest struct {
	MotorName string `json:"motor_name" binding:"required"`
	Position  *int   `json:"position" binding:"required"`
}

type gpioSwitchRequest struct {
	Name  string `json:"name" binding:"required"`
	State *bool  `json:"state" binding:"required"`
}

// @Summary      Gate auto mode map
// @Tags         gates
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      500  {object}  map[string]string
// @Router       /api/gate-auto-mode [get]
func (h *Handler) getGateAutoMode(c *gin.Context) {
	flags, err := h.services.Gates.AutoModes(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "get_gate_auto_mode_failed")
		return
	}
	c.JSON(http.StatusOK, flags)
}

// @Summary      Set gate auto mode
// @Tags         gates
// @Accept       json
// @Produce      json
// @Param        body  body  gateAutoModeRequest  true  "Motor + flag (flag defaults to true)"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/gate-auto-mode [post]
// @Security     SessionAuth
func (h *Handler) updateGateAutoMode(c *gin.Context) {
	var input gateAutoModeRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	enabled := true
	if input.AutoEnabled != nil {
		enabled = *input.AutoEnabled
	}
	if err := h.services.Gates.SetAutoMode(c.Request.Context(), input.MotorName, enabled); err != nil {
		h.respondServiceError(c, err, "update_gate_auto_mode_failed", "motor", input.MotorName)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary      Gate enabled map (winter mode)
// @Tags         gates
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      500  {object}  map[string]string
// @Router       /api/gate-enabled [get]
func (h *Handler) getGateEnabled(c *gin.Context) {
	flags, err := h.services.Gates.EnabledFlags(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "get_gate_enabled_failed")
		return
	}
	c.JSON(http.StatusOK, flags)
}

// @Summary      Enable/disable a gate (winter mode)
// @Tags         gates
// @Accept       json
// @Produce      json
// @Param        body  body  gateEnabledRequest  true  "Motor + flag (flag defaults to true)"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/gate-enabled [post]
// @Security     SessionAuth
func (h *Handler) updateGateEnabled(c *gin.Context) {
	var input gateEnabledRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}
	if err := h.services.Gates.SetEnabled(c.Request.Context(), input.MotorName, enabled); err != nil {
		h.respondServiceError(c, err, "update_gate_enabled_failed", "motor", input.MotorName)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary      Gate rows
// @Tags         gates
// @Produce      json
// @Success      200  {array}   models.Gate
// @Failure      500  {object}  map[string]string
// @Router       /api/gate-status [get]
func (h *Handler) getGateStatus(c *gin.Context) {
	gates, err := h.services.Gates.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "get_gate_status_failed")
		return
	}
	c.JSON(http.StatusOK, gates)
}

// @Summary      Update a single gate position
// @Tags         gates
// @Accept       json
// @Produce      json
// @Param        body  body  gatePositionRequest  true  "Motor + position (clamped to 0..100)"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/gate-status [post]
// @Security     ApiKeyAuth
func (h *Handler) updateGatePosition(c *gin.Context) {
	var input gatePositionRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if err := h.services.Gates.SetPosition(c.Request.Context(), input.MotorName, *input.Position); err != nil {
		h.respondServiceError(c, err, "update_gate_position_failed", "motor", input.MotorName)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary      GPIO switch list
// @Tags         switches
// @Produce      json
// @Success      200  {array}   models.GpioSwitch
// @Failure      500  {object}  map[string]string
// @Router       /api/gpio-switches [get]
func (h *Handler) getGpioSwitches(c *gin.Context) {
	switches, err := h.services.Switches.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "get_gpio_switches_failed")
		return
	}
	c.JSON(http.StatusOK, switches)
}

// @Summary      Toggle a GPIO switch
// @Tags         switches
// @Accept       json
// @Produce      json
// @Param        body  body  gpioSwitchRequest  true  "Switch name + state"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/gpio-switches [post]
// @Security     SessionAuth
func (h *Handler) toggleGpioSwitch(c *gin.Context) {
	var input gpioSwitchRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if err := h.services.Switches.Toggle(c.Request.Context(), input.Name, *input.State); err != nil {
		h.respondServiceError(c, err, "toggle_gpio_switch_failed", "name", input.Name)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
