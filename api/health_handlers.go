package api

import (
	"net/http"

	"github.com/gilby125/hotel-availability/pkg/buildinfo"
	"github.com/gilby125/hotel-availability/pkg/health"
	"github.com/gin-gonic/gin"
)

func reportStatus(report health.HealthReport) int {
	if report.Status == health.StatusUp {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

// Health runs every registered check.
func Health(checker *health.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := checker.CheckHealth(c.Request.Context())
		c.JSON(reportStatus(report), report)
	}
}

// Readiness runs the critical checks only.
func Readiness(checker *health.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := checker.CheckReadiness(c.Request.Context())
		c.JSON(reportStatus(report), report)
	}
}

func Liveness(checker *health.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, checker.CheckLiveness(c.Request.Context()))
	}
}

// Version reports build metadata.
func Version() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, buildinfo.Info())
	}
}
