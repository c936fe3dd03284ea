package handlers

import (
	"greenhouse_control/internal/logger"
	"greenhouse_control/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
//
// Auth model: the device presents the shared API key (X-API-Key header or
// api_key query fallback), the operator a session token (cookie or Bearer).
// Read endpoints the dashboard polls before login stay open, matching the
// device-facing contract.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	// Live status stream (read-only)
	router.GET("/ws", h.wsConnect)

	api := router.Group("/api")
	{
		h.registerAuthRoutes(api)
		h.registerStatusRoutes(api)
		h.registerCommandRoutes(api)
		h.registerGateRoutes(api)
		h.registerVentilationRoutes(api)
		h.registerSettingsRoutes(api)
	}

	return router
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	api.POST("/login", h.login)
	api.POST("/logout", h.logout)
	api.GET("/auth-check", h.authCheck)
}

func (h *Handler) registerStatusRoutes(api *gin.RouterGroup) {
	api.GET("/status", h.getStatus)
	api.POST("/status", h.deviceAuth, h.updateStatus)
}

func (h *Handler) registerCommandRoutes(api *gin.RouterGroup) {
	api.GET("/command", h.deviceAuth, h.pollCommands)
	api.POST("/command", h.sessionOrDevice, h.createCommand)
	api.POST("/command/:id/complete", h.deviceAuth, h.completeCommand)
	api.POST("/command/:id/fail", h.deviceAuth, h.failCommand)
	api.POST("/restart-service", h.sessionOrDevice, h.restartService)
}

func (h *Handler) registerGateRoutes(api *gin.RouterGroup) {
	api.GET("/gate-auto-mode", h.getGateAutoMode)
	api.POST("/gate-auto-mode", h.sessionOrDevice, h.updateGateAutoMode)

	api.GET("/gate-enabled", h.getGateEnabled)
	api.POST("/gate-enabled", h.sessionOrDevice, h.updateGateEnabled)

	api.GET("/gate-status", h.getGateStatus)
	api.POST("/gate-status", h.deviceAuth, h.updateGatePosition)

	api.GET("/gpio-switches", h.getGpioSwitches)
	api.POST("/gpio-switches", h.sessionOrDevice, h.toggleGpioSwitch)
}

func (h *Handler) registerVentilationRoutes(api *gin.RouterGroup) {
	api.GET("/ventilation", h.getVentilation)
	api.POST("/ventilation", h.sessionOrDevice, h.updateVentilation)
	api.POST("/ventilation/mark-run", h.deviceAuth, h.markVentilationRun)

	api.GET("/ventilation/custom-phases", h.getCustomPhases)
	api.POST("/ventilation/custom-phases", h.sessionOrDevice, h.saveCustomPhase)
	api.DELETE("/ventilation/custom-phases/:id", h.sessionOrDevice, h.deleteCustomPhase)
}

func (h *Handler) registerSettingsRoutes(api *gin.RouterGroup) {
	api.GET("/settings", h.sessionOrDevice, h.getSettings)
	api.POST("/settings", h.sessionOrDevice, h.updateSettings)
	api.GET("/logs", h.sessionOrDevice, h.getLogs)
}
