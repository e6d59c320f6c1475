package handler

import (
	"net/http"

	"transaction-engine/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Workers int
	Logger  zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(8 << 20)) // 8 MB request body limit

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	batchHandler := NewBatchHandler(deps.Workers, deps.Logger)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/batches", batchHandler.ProcessBatch)
		v1.POST("/batches/csv", batchHandler.ProcessCSVBatch)
	}

	return r
}
