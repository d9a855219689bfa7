package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/pkg/util"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name  string
	check pinger
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	deps        []dependency
	disabled    []string
}

// NewHealthHandler wires the probes. redis may be nil when rate limiting
// runs in process memory; it is then reported as disabled.
func NewHealthHandler(serviceName, version string, mongo *persistence.Mongo, redis *persistence.Redis) *HealthHandler {
	h := &HealthHandler{
		serviceName: serviceName,
		version:     version,
		deps:        []dependency{{name: "mongo", check: mongo}},
	}
	if redis == nil {
		h.disabled = append(h.disabled, "redis")
	} else {
		h.deps = append(h.deps, dependency{name: "redis", check: redis})
	}
	return h
}

// Live answers as long as the process serves HTTP.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(util.Success(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	}, "", fiber.StatusOK))
}

// Ready pings every configured dependency.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	report := make(map[string]string, len(h.deps)+len(h.disabled))
	for _, name := range h.disabled {
		report[name] = "disabled"
	}
	ready := true
	for _, dep := range h.deps {
		if err := dep.check.Ping(ctx); err != nil {
			report[dep.name] = err.Error()
			ready = false
			continue
		}
		report[dep.name] = "ok"
	}

	if !ready {
		env := util.Failure("one or more dependencies unavailable", "DEPENDENCY_UNAVAILABLE", fiber.StatusServiceUnavailable)
		env.Data = report
		return c.Status(fiber.StatusServiceUnavailable).JSON(env)
	}
	return c.JSON(util.Success(fiber.Map{
		"status":       "ready",
		"dependencies": report,
	}, "", fiber.StatusOK))
}
