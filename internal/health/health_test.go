package health

import (
	"context"
	"testing"
)

type fakeProber struct{ up bool }

func (f fakeProber) Probe(ctx context.Context) bool { return f.up }

func TestAggregateReadyWhenDocsDisabled(t *testing.T) {
	report := Aggregate(context.Background(), fakeProber{up: false}, fakeProber{up: false}, false)
	if !report.Ready {
		t.Error("Ready = false, want true when documents are disabled")
	}
	for _, dep := range report.Dependencies {
		if dep.Type != "OPTIONAL" {
			t.Errorf("dependency %s type = %q, want OPTIONAL", dep.Name, dep.Type)
		}
	}
}

func TestAggregateNotReadyWhenConverterDown(t *testing.T) {
	report := Aggregate(context.Background(), fakeProber{up: true}, fakeProber{up: false}, true)
	if report.Ready {
		t.Error("Ready = true, want false when docs enabled and converter probe fails")
	}
}

func TestReadyzDocsDisabledAlwaysTrue(t *testing.T) {
	if !Readyz(context.Background(), fakeProber{up: false}, false) {
		t.Error("Readyz = false, want true when documents are disabled")
	}
}

func TestReadyzDocsEnabledFollowsProbe(t *testing.T) {
	if Readyz(context.Background(), fakeProber{up: false}, true) {
		t.Error("Readyz = true, want false when converter probe fails")
	}
	if !Readyz(context.Background(), fakeProber{up: true}, true) {
		t.Error("Readyz = false, want true when converter probe succeeds")
	}
}
