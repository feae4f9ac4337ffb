package scenarios

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/avpp/core/abstraction"
	"github.com/kilianp07/avpp/core/avpp"
	"github.com/kilianp07/avpp/core/interval"
	"github.com/kilianp07/avpp/core/pwl"
	"github.com/kilianp07/avpp/infra/logger"
	"github.com/kilianp07/avpp/infra/metrics"
	"github.com/kilianp07/avpp/infra/treefile"
)

// setTolerance is the per-bound tolerance when comparing regions.
const setTolerance = 0.1

// rampTolerance is the tolerance when comparing ramp samples.
const rampTolerance = 0.5

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	tree, err := treefile.Build(sc.Tree)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	sched, err := avpp.NewScheduler(abstraction.Config{
		DeltaTimeMinutes: sc.DeltaTimeMinutes,
		Horizon:          sc.Horizon,
	}, logger.NopLogger{}, sink)
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}

	rep, err := sched.Run(context.Background(), tree)
	if sc.ExpectError != "" {
		if err == nil || !strings.Contains(err.Error(), sc.ExpectError) {
			t.Fatalf("scenario %s expected error containing %q, got %v", sc.Name, sc.ExpectError, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}

	converged := make(map[string]bool, len(rep.Nodes))
	for _, nr := range rep.Nodes {
		converged[nr.Name] = nr.Converged
	}

	for name, exp := range sc.Expected {
		n, err := tree.Lookup(name)
		if err != nil {
			t.Fatalf("scenario %s: %v", sc.Name, err)
		}
		if exp.General != nil {
			checkSet(t, name+" general", exp.General, n.FeasibleRegions)
		}
		if exp.Holes != nil {
			checkSet(t, name+" holes", exp.Holes, n.Holes)
		}
		if exp.Steps != nil {
			if len(exp.Steps) != len(n.Steps) {
				t.Errorf("%s: expected %d steps, got %d: %v", name, len(exp.Steps), len(n.Steps), n.Steps)
			} else {
				for k := range exp.Steps {
					checkSet(t, name+" step", exp.Steps[k], n.Steps[k])
				}
			}
		}
		if exp.Converged != nil && converged[name] != *exp.Converged {
			t.Errorf("%s: converged = %t, want %t", name, converged[name], *exp.Converged)
		}
		if exp.Positive != nil {
			checkPairs(t, name+" positive", exp.Positive, n.PositiveDelta)
		}
		if exp.Negative != nil {
			checkPairs(t, name+" negative", exp.Negative, n.NegativeDelta)
		}
	}
}

func checkSet(t *testing.T, what string, want Ranges, got interval.Set) {
	t.Helper()
	ws, err := want.Set()
	if err != nil {
		t.Fatalf("%s: %v", what, err)
	}
	if len(ws) == 0 && len(got) == 0 {
		return
	}
	if !ws.ApproxEqual(got, setTolerance) {
		t.Errorf("%s: want %v, got %v", what, ws, got)
	}
}

func checkPairs(t *testing.T, what string, want Ranges, f *pwl.Function) {
	t.Helper()
	if f == nil {
		t.Errorf("%s: no ramp function", what)
		return
	}
	got := f.Pairs()
	if len(got) != len(want) {
		t.Errorf("%s: want %v, got %v", what, want, got)
		return
	}
	for k, p := range got {
		if len(want[k]) != 2 {
			t.Fatalf("%s: malformed sample %v", what, want[k])
		}
		if diff(p.In, want[k][0]) > rampTolerance || diff(p.Out, want[k][1]) > rampTolerance {
			t.Errorf("%s: sample %d want %v, got %+v", what, k, want[k], p)
		}
	}
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
