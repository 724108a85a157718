package server

import (
	"github.com/gin-gonic/gin"
	"wheelscreener/internal/metrics"
)

// NewRouter assembles the gin engine with the service middleware chain and
// the API routes. m may be nil to disable metrics collection.
func NewRouter(handler *Handler, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(Logging(), Recovery(), CORS(), Metrics(m))
	handler.RegisterRoutes(router)
	return router
}
