package command_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/0xsj/overwatch-pkg/types"

	appcommand "github.com/0xsj/overwatch-profile/internal/app/command"
	domainerror "github.com/0xsj/overwatch-profile/internal/domain/error"
	"github.com/0xsj/overwatch-profile/internal/port/inbound/command"
	"github.com/0xsj/overwatch-profile/internal/telemetry"
)

// counterValue reads a counter series from reg, or 0 if it was never observed.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestInstrument(t *testing.T) {
	h := newHarness(t)
	h.seed("acc-1", "alice", "alice@example.com", true)
	h.seed("acc-2", "bob_99", "bob@example.com", true)

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)
	handler := appcommand.Instrument[command.UpdateProfile, command.UpdateProfileResult](h.updateHandler(), metrics)
	name := command.UpdateProfile{}.CommandName()

	outcome := func(o string) float64 {
		return counterValue(t, reg, "profile_commands_total", map[string]string{"command": name, "outcome": o})
	}

	t.Run("ok", func(t *testing.T) {
		res, err := handler.Handle(context.Background(), command.UpdateProfile{
			AccountID: types.ID("acc-1"),
			Username:  types.Some("alice_2"),
		})
		if err != nil || !res.Success {
			t.Fatalf("Handle() = %+v, %v", res, err)
		}
		if got := outcome(appcommand.OutcomeOK); got != 1 {
			t.Errorf("ok count = %v, want 1", got)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), command.UpdateProfile{
			AccountID: types.ID("acc-1"),
			Username:  types.Some("bob_99"),
		})
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if got := outcome(appcommand.OutcomeRejected); got != 1 {
			t.Errorf("rejected count = %v, want 1", got)
		}
		fieldErrs := counterValue(t, reg, "profile_update_field_errors_total", map[string]string{"command": name, "field": "username"})
		if fieldErrs != 1 {
			t.Errorf("username field errors = %v, want 1", fieldErrs)
		}
	})

	t.Run("error", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), command.UpdateProfile{})
		if err != domainerror.ErrAccountIDRequired {
			t.Fatalf("Handle() error = %v, want ErrAccountIDRequired", err)
		}
		if got := outcome(appcommand.OutcomeError); got != 1 {
			t.Errorf("error count = %v, want 1", got)
		}
	})
}

func TestInstrument_NilMetrics(t *testing.T) {
	h := newHarness(t)
	handler := appcommand.Instrument[command.DeleteAccount, command.DeleteAccountResult](h.deleteHandler(), nil)

	_, err := handler.Handle(context.Background(), command.DeleteAccount{AccountID: types.ID("missing")})
	if err != domainerror.ErrAccountNotFound {
		t.Fatalf("Handle() error = %v, want ErrAccountNotFound", err)
	}
}
