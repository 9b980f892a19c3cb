package extension

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMergeConfigurations(t *testing.T) {
	tests := []struct {
		name         string
		yaml, prog   Config
		wantBalance  int64
		wantDisabled bool
	}{
		{"defaults", Config{}, Config{}, 5000, false},
		{"yaml wins", Config{OpeningBalance: 100}, Config{OpeningBalance: 900}, 100, false},
		{"programmatic fills gap", Config{}, Config{OpeningBalance: 900}, 900, false},
		{"programmatic flag", Config{}, Config{DisableTools: true}, 5000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeConfigurations(tt.yaml, tt.prog)
			if got.OpeningBalance != tt.wantBalance || got.DisableTools != tt.wantDisabled {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	e := New(WithOpeningBalance(1234), WithDisableTools(), WithRequireConfig(true))
	if e.config.OpeningBalance != 1234 || !e.config.DisableTools || !e.config.RequireConfig {
		t.Errorf("config: got %+v", e.config)
	}

	if err := e.build(); err != nil {
		t.Fatal(err)
	}
	if e.Engine() == nil {
		t.Fatal("engine not built")
	}
	if e.Toolbox() != nil {
		t.Error("tools should be disabled")
	}
	if err := e.Health(t.Context()); err == nil {
		t.Error("health should fail before start")
	}
}

func TestBuildRegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := New(WithOpeningBalance(5000), WithMetricsRegisterer(reg))
	if err := e.build(); err != nil {
		t.Fatal(err)
	}
	if e.Metrics() == nil || e.Registerer() != reg {
		t.Fatal("metrics not wired")
	}

	ctx := context.Background()
	if _, err := e.Engine().RentNumber(ctx, "telegram"); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(e.Metrics().SMSOrders.(prometheus.Counter)); got != 1 {
		t.Errorf("sms orders: got %v, want 1", got)
	}
	if n, err := testutil.GatherAndCount(reg, "sandbox_orders_sms_total"); err != nil || n != 1 {
		t.Errorf("gathered %d series, err %v", n, err)
	}
}

func TestBuildDefaultsToPrivateRegistry(t *testing.T) {
	e := New()
	e.config = mergeWithDefaults(e.config)
	if err := e.build(); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Registerer().(*prometheus.Registry); !ok {
		t.Errorf("registerer: got %T", e.Registerer())
	}
}
