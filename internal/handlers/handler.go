package handlers

import (
	"net/http"

	"ordertrack/internal/logger"
	"ordertrack/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services      *service.Service
	log           *logger.Logger
	secureCookies bool
}

// NewHandler constructs a new HTTP handler with dependencies. secureCookies
// should be true in production so session cookies are HTTPS-only.
func NewHandler(services *service.Service, log *logger.Logger, secureCookies bool) *Handler {
	return &Handler{services: services, log: log, secureCookies: secureCookies}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Order endpoints (protected)
	h.registerOrderRoutes(router)

	// Live stats over WebSocket (HTTP upgrade) — same port
	router.GET("/ws", h.sessionMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.GET("/me", h.sessionMiddleware, h.me)
		auth.POST("/change-password", h.sessionMiddleware, h.changePassword)
	}
}

func (h *Handler) registerOrderRoutes(r *gin.Engine) {
	orders := r.Group("/orders", h.sessionMiddleware)
	{
		orders.GET("", h.listOrders)
		orders.POST("", h.createOrder)
		orders.GET("/stats", h.orderStats)
		orders.GET("/:id", h.getOrder)
		orders.PUT("/:id", h.updateOrder)
		orders.DELETE("/:id", h.deleteOrder)
	}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
