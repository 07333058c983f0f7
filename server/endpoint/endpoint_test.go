package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/rxkit/component"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/check", h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/check", http.NoBody))
	return rec
}

func checker(statuses ...component.HealthStatus) HealthChecker {
	return func(context.Context) []component.Health {
		out := make([]component.Health, 0, len(statuses))
		for _, s := range statuses {
			out = append(out, component.Health{Name: "bus", Status: s})
		}
		return out
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checker    HealthChecker
		wantCode   int
		wantStatus string
	}{
		{"no checker", nil, http.StatusOK, "healthy"},
		{"healthy", checker(component.StatusHealthy), http.StatusOK, "healthy"},
		{"degraded", checker(component.StatusHealthy, component.StatusDegraded), http.StatusOK, "degraded"},
		{"unhealthy", checker(component.StatusUnhealthy), http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(Health("rxdemo", tc.checker))
			if rec.Code != tc.wantCode {
				t.Errorf("got %d, want %d", rec.Code, tc.wantCode)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["status"] != tc.wantStatus {
				t.Errorf("got status %v, want %s", body["status"], tc.wantStatus)
			}
			if body["service"] != "rxdemo" {
				t.Errorf("got service %v, want rxdemo", body["service"])
			}
		})
	}
}

func TestReadiness(t *testing.T) {
	if rec := serve(Readiness("rxdemo", checker(component.StatusHealthy))); rec.Code != http.StatusOK {
		t.Errorf("got %d, want 200", rec.Code)
	}

	rec := serve(Readiness("rxdemo", checker(component.StatusHealthy, component.StatusUnhealthy)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want 503", rec.Code)
	}
	var body struct {
		Status   string   `json:"status"`
		NotReady []string `json:"not_ready"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "not_ready" || len(body.NotReady) != 1 || body.NotReady[0] != "bus" {
		t.Errorf("got %+v, want not_ready naming bus", body)
	}
}

func TestLiveness(t *testing.T) {
	if rec := serve(Liveness("rxdemo")); rec.Code != http.StatusOK {
		t.Errorf("got %d, want 200", rec.Code)
	}
}

func TestVersion(t *testing.T) {
	rec := serve(Version("rxdemo"))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusOK)
	}
	var body struct {
		Service string `json:"service"`
		Build   struct {
			Version string `json:"version"`
		} `json:"build"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Service != "rxdemo" || body.Build.Version == "" {
		t.Errorf("got %+v", body)
	}
}
