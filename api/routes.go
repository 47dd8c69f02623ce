// Package api exposes the availability engine over HTTP.
package api

import (
	"context"

	"github.com/gilby125/hotel-availability/engine"
	"github.com/gilby125/hotel-availability/hotels"
	"github.com/gilby125/hotel-availability/pkg/health"
	"github.com/gilby125/hotel-availability/pkg/logger"
	"github.com/gilby125/hotel-availability/pkg/middleware"
	"github.com/gilby125/hotel-availability/validation"
	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps XML request bodies.
const MaxBodyBytes = 1 << 20

// HotelService is the part of *engine.Engine the handlers use.
type HotelService interface {
	Process(ctx context.Context, data []byte) (hotels.SearchResponse, error)
	Parse(kind engine.Kind, data []byte) validation.Envelope
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc HotelService, checker *health.HealthChecker, log *logger.Logger) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))

	router.GET("/health", Health(checker))
	router.GET("/health/ready", Readiness(checker))
	router.GET("/health/live", Liveness(checker))
	router.GET("/version", Version())

	v1 := router.Group("/api/v1")
	{
		v1.POST("/hotels/availability", ProcessAvailability(svc, log))
		v1.POST("/hotels/validate", ParseRequest(svc, engine.KindSearchRequest))
		v1.POST("/xml/parse", ParseRequest(svc, engine.KindXMLToJSON))
		v1.POST("/parse/:kind", ParseKind(svc))
	}
}
