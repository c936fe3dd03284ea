package handlers

import (
	"errors"
	"net/http"

	"greenhouse_control/internal/service"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// @Summary      Operator login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  loginRequest  true  "Password payload"
// @Success      200  {object}  map[string]interface{}  "success, logged_in, token"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/login [post]
func (h *Handler) login(c *gin.Context) {
	var input loginRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Session.Login(input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			if h.log != nil {
				h.log.Warnw("login_failed")
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
			return
		}
		h.respondServiceError(c, err, "login_error")
		return
	}

	// The cookie lives as long as the browser session; expiry is enforced
	// by the token itself.
	c.SetCookie(sessionCookie, token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "logged_in": true, "token": token})
}

// @Summary      Operator logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/logout [post]
func (h *Handler) logout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary      Session check
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/auth-check [get]
func (h *Handler) authCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logged_in": h.isLoggedIn(c)})
}
