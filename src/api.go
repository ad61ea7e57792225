// Package api implements the API routes and groups
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/diogovalentte/mangapark-adapter/src/config"
	"github.com/diogovalentte/mangapark-adapter/src/docs"
	"github.com/diogovalentte/mangapark-adapter/src/routes"
	"github.com/diogovalentte/mangapark-adapter/src/util"
)

// RequestIDHeader is the header with the ID of the request, set in every response
const RequestIDHeader = "X-Request-ID"

// SetupRouter sets up the routes for the API
func SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(), gin.Recovery())

	docs.SwaggerInfo.BasePath = "/v1"

	v1 := router.Group("/v1")
	// Health check route
	{
		routes.HealthCheckRoute(v1)
	}
	{
		routes.MangaRoutes(v1)
	}
	{
		v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return router
}

// requestLogger tags every request with an ID and logs it when it's done
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		log := util.GetLogger(config.GlobalConfigs.LogLevel())
		event := log.Info()
		if len(c.Errors) > 0 {
			event = log.Error().Str("error", c.Errors.String())
		}
		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
