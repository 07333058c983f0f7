package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/rxkit/component"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// checkBody is the response of the health, liveness and readiness handlers.
type checkBody struct {
	Status     string             `json:"status"`
	Service    string             `json:"service"`
	Timestamp  string             `json:"timestamp"`
	Components []component.Health `json:"components,omitempty"`
	NotReady   []string           `json:"not_ready,omitempty"`
}

func newCheckBody(serviceName, status string) checkBody {
	return checkBody{Status: status, Service: serviceName, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

func check(c *gin.Context, checker HealthChecker) []component.Health {
	if checker == nil {
		return nil
	}
	return checker(c.Request.Context())
}

// Health reports the aggregate status with every component's health. An
// unhealthy component turns the response into a 503.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		components := check(c, checker)
		overall := component.Overall(components)

		body := newCheckBody(serviceName, string(overall))
		body.Components = components
		code := http.StatusOK
		if overall == component.StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, body)
	}
}

// Liveness only confirms the process can serve HTTP.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, newCheckBody(serviceName, "alive"))
	}
}

// Readiness answers 503 and names the unhealthy components until every one
// is up, for example before the bus starts or after it stops.
func Readiness(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var notReady []string
		for _, h := range check(c, checker) {
			if h.Status == component.StatusUnhealthy {
				notReady = append(notReady, h.Name)
			}
		}
		if len(notReady) > 0 {
			body := newCheckBody(serviceName, "not_ready")
			body.NotReady = notReady
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		c.JSON(http.StatusOK, newCheckBody(serviceName, "ready"))
	}
}
