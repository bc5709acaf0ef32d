// Package health implements the health aggregator (spec §4.8): concurrent
// probes of the blob store and document converter, surfaced via
// /{health}/, /{health}/ready/, /{health}/live/.
package health

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Prober is satisfied by both blobclient.Client and office.Bridge.
type Prober interface {
	Probe(ctx context.Context) bool
}

// Dependency is one entry in the /{health}/ report (spec §4.8: both
// dependencies carry a fixed type "OPTIONAL" — a deliberate redesign from
// the original source's storage=OPTIONAL/libreoffice=REQUIRED split).
type Dependency struct {
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
	Live  bool   `json:"live"`
	Type  string `json:"type"`
}

// Report is the /{health}/ JSON body.
type Report struct {
	Ready        bool         `json:"ready"`
	Dependencies []Dependency `json:"dependencies"`
}

// Aggregate probes both upstreams concurrently (grounded on the teacher's
// errgroup-based parallel-upload fan-out, generalized from upload
// derivatives to independent health checks) and builds the report.
func Aggregate(ctx context.Context, storage, converter Prober, documentsEnabled bool) Report {
	var storageUp, converterUp bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		storageUp = storage.Probe(gctx)
		return nil
	})
	g.Go(func() error {
		converterUp = converter.Probe(gctx)
		return nil
	})
	_ = g.Wait()

	ready := !documentsEnabled || converterUp

	return Report{
		Ready: ready,
		Dependencies: []Dependency{
			{Name: "storage", Ready: storageUp, Live: storageUp, Type: "OPTIONAL"},
			{Name: "document-converter", Ready: converterUp, Live: converterUp, Type: "OPTIONAL"},
		},
	}
}

// Readyz reports whether /{health}/ready/ should reply 200 (spec §4.8:
// "200 if docs disabled OR converter probe succeeds, else 429").
func Readyz(ctx context.Context, converter Prober, documentsEnabled bool) bool {
	if !documentsEnabled {
		return true
	}
	return converter.Probe(ctx)
}
