// Package httpapi exposes the CRM service over a JSON HTTP API.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/copperline/copperline/internal/crm/service"
)

// Config carries the router dependencies.
type Config struct {
	Service *service.Service
	Logger  *slog.Logger
	// JWTSecret enables bearer-token auth on all routes except the
	// health endpoint when non-empty.
	JWTSecret string
}

type handler struct {
	service *service.Service
	logger  *slog.Logger
}

// NewRouter builds the gin engine with all CRM routes and middleware.
func NewRouter(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(TraceID(), RequestLogger(logger), gin.Recovery())

	h := &handler{service: cfg.Service, logger: logger}
	router.GET("/healthz", h.health)

	api := router.Group("/")
	if cfg.JWTSecret != "" {
		api.Use(Auth(cfg.JWTSecret))
	}

	api.GET("/customers", h.listCustomers)
	api.POST("/customers", h.createCustomer)
	api.POST("/customers/bulk", h.bulkCreateCustomers)
	api.GET("/customers/:id", h.getCustomer)

	api.GET("/products", h.listProducts)
	api.POST("/products", h.createProduct)
	api.GET("/products/:id", h.getProduct)

	api.GET("/orders", h.listOrders)
	api.POST("/orders", h.createOrder)
	api.GET("/orders/:id", h.getOrder)

	return router
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello, CRM!"})
}
