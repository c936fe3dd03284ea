package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type commandRequest struct {
	Command    string `json:"command" binding:"required"`
	Parameters any    `json:"parameters,omitempty"`
}

type failRequest struct {
	Error string `json:"error"`
}

// @Summary      Poll pending commands
// @Description  Returns all pending commands oldest-first and claims them (status becomes executing)
// @Tags         commands
// @Produce      json
// @Success      200  {array}   models.Command
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/command [get]
// @Security     ApiKeyAuth
func (h *Handler) pollCommands(c *gin.Context) {
	commands, err := h.services.Commands.PollPending(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "poll_commands_failed")
		return
	}
	c.JSON(http.StatusOK, commands)
}

// @Summary      Enqueue a command
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        body  body  commandRequest  true  "Command payload"
// @Success      200  {object}  map[string]interface{}  "success, id"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/command [post]
// @Security     SessionAuth
func (h *Handler) createCommand(c *gin.Context) {
	var input commandRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.Commands.Enqueue(c.Request.Context(), input.Command, input.Parameters)
	if err != nil {
		h.respondServiceError(c, err, "create_command_failed", "command", input.Command)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// @Summary      Mark a command completed
// @Tags         commands
// @Produce      json
// @Param        id  path  int  true  "Command id"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/command/{id}/complete [post]
// @Security     ApiKeyAuth
func (h *Handler) completeCommand(c *gin.Context) {
	id, ok := h.commandID(c)
	if !ok {
		return
	}
	if err := h.services.Commands.Complete(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err, "complete_command_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary      Mark a command failed
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        id    path  int          true   "Command id"
// @Param        body  body  failRequest  false  "Error payload"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/command/{id}/fail [post]
// @Security     ApiKeyAuth
func (h *Handler) failCommand(c *gin.Context) {
	id, ok := h.commandID(c)
	if !ok {
		return
	}
	var input failRequest
	_ = c.ShouldBindJSON(&input) // body is optional

	if err := h.services.Commands.Fail(c.Request.Context(), id, input.Error); err != nil {
		h.respondServiceError(c, err, "fail_command_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary      Request a device service restart
// @Description  Enqueues the reserved RESTART command on the normal queue
// @Tags         commands
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/restart-service [post]
// @Security     SessionAuth
func (h *Handler) restartService(c *gin.Context) {
	id, err := h.services.Commands.RequestRestart(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "restart_service_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

func (h *Handler) commandID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid command id"})
		return 0, false
	}
	return id, true
}
