package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveCommand(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveCommand("profile.update_profile", "ok", 5*time.Millisecond)
	m.ObserveCommand("profile.update_profile", "rejected", 5*time.Millisecond)
	m.ObserveCommand("profile.update_profile", "ok", 5*time.Millisecond)

	if got := testutil.ToFloat64(m.commandsTotal.WithLabelValues("profile.update_profile", "ok")); got != 2 {
		t.Errorf("ok commands = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.commandsTotal.WithLabelValues("profile.update_profile", "rejected")); got != 1 {
		t.Errorf("rejected commands = %v, want 1", got)
	}
}

func TestMetrics_ObserveFieldErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveFieldErrors("profile.update_profile", []string{"username", "email", "username"})

	if got := testutil.ToFloat64(m.fieldErrors.WithLabelValues("profile.update_profile", "username")); got != 2 {
		t.Errorf("username errors = %v, want 2", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	m.ObserveHTTP("GET", "/api/user/me", "200", time.Millisecond)
	m.ObserveCommand("x", "ok", time.Millisecond)
	m.ObserveFieldErrors("x", []string{"username"})
	m.ObserveDB("FindByID", "ok", time.Millisecond)
	m.IncHTTPInFlight()
	m.DecHTTPInFlight()
}

func TestRegisterDBPoolMetrics_NilPool(t *testing.T) {
	if err := RegisterDBPoolMetrics(nil, prometheus.NewRegistry()); err == nil {
		t.Fatal("expected error for nil pool")
	}
}
