package health

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gilby125/hotel-availability/pkg/cache"
	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a component
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Check represents a single health check
type Check struct {
	Name      string            `json:"name"`
	Status    Status            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Duration  time.Duration     `json:"duration"`
	Timestamp time.Time         `json:"timestamp"`
}

// HealthReport represents the overall health of the application
type HealthReport struct {
	Status    Status           `json:"status"`
	Version   string           `json:"version"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	Uptime    time.Duration    `json:"uptime"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// RedisChecker checks Redis connectivity
type RedisChecker struct {
	Client *redis.Client
	Name   string
}

func (c *RedisChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{
		Name:      c.Name,
		Timestamp: start,
		Details:   make(map[string]string),
	}

	// Test Redis connectivity with ping
	pong, err := c.Client.Ping(ctx).Result()
	duration := time.Since(start)
	check.Duration = duration

	if err != nil {
		check.Status = StatusDown
		check.Message = fmt.Sprintf("Redis connection failed: %v", err)
		check.Details["error"] = err.Error()
	} else {
		check.Status = StatusUp
		check.Message = "Redis connection successful"
		check.Details["response_time"] = duration.String()
		check.Details["ping_response"] = pong
	}

	return check
}

// SessionChecker round-trips a probe session through the session store.
type SessionChecker struct {
	Store   *cache.SessionStore
	Backend string
	Name    string
}

func (c *SessionChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{
		Name:      c.Name,
		Timestamp: start,
		Details:   map[string]string{"backend": c.Backend},
	}

	id := "healthcheck:" + strconv.FormatInt(start.UnixNano(), 10)
	_, err := c.Store.Create(ctx, id, "healthcheck", "0")
	if err == nil {
		_, err = c.Store.Lookup(ctx, id)
		_ = c.Store.Revoke(ctx, id)
	}
	duration := time.Since(start)
	check.Duration = duration

	if err != nil {
		check.Status = StatusDown
		check.Message = fmt.Sprintf("Session store check failed: %v", err)
		check.Details["error"] = err.Error()
	} else {
		check.Status = StatusUp
		check.Message = "Session store is operational"
		check.Details["response_time"] = duration.String()
		check.Details["session_ttl"] = c.Store.TTL().String()
	}

	return check
}

// HealthChecker runs the registered checks and reports overall status.
type HealthChecker struct {
	checkers  []Checker
	critical  []Checker
	version   string
	startTime time.Time
}

// NewHealthChecker creates a health checker reporting version.
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		version:   version,
		startTime: time.Now(),
	}
}

// AddChecker registers a check reported by CheckHealth only.
func (h *HealthChecker) AddChecker(checker Checker) {
	h.checkers = append(h.checkers, checker)
}

// AddCriticalChecker registers a check that also gates readiness.
func (h *HealthChecker) AddCriticalChecker(checker Checker) {
	h.checkers = append(h.checkers, checker)
	h.critical = append(h.critical, checker)
}

// CheckHealth runs every check. Any down check marks the report down.
func (h *HealthChecker) CheckHealth(ctx context.Context) HealthReport {
	return h.run(ctx, h.checkers)
}

// CheckReadiness runs only the critical checks.
func (h *HealthChecker) CheckReadiness(ctx context.Context) HealthReport {
	return h.run(ctx, h.critical)
}

// CheckLiveness reports the process as up without touching dependencies.
func (h *HealthChecker) CheckLiveness(ctx context.Context) HealthReport {
	now := time.Now()
	return HealthReport{
		Status:    StatusUp,
		Version:   h.version,
		Timestamp: now,
		Checks: map[string]Check{
			"application": {
				Name:      "application",
				Status:    StatusUp,
				Message:   "Application is running",
				Timestamp: now,
			},
		},
		Uptime: time.Since(h.startTime),
	}
}

func (h *HealthChecker) run(ctx context.Context, checkers []Checker) HealthReport {
	checks := make(map[string]Check, len(checkers))
	overall := StatusUp
	for _, checker := range checkers {
		check := checker.Check(ctx)
		checks[check.Name] = check
		if check.Status == StatusDown {
			overall = StatusDown
		}
	}

	return HealthReport{
		Status:    overall,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks:    checks,
		Uptime:    time.Since(h.startTime),
	}
}
