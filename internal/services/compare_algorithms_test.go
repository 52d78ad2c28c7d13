package services

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/routing"
	"errors"
	"testing"
)

func TestCompareAlgorithmsRunsEveryStrategy(t *testing.T) {
	p, _, results := newTestPlanner()

	out, err := p.CompareAlgorithms(context.Background(), PlanRequest{Capacity: 5, Seed: 3}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := p.Registry.Names()
	if len(out) != len(names) {
		t.Fatalf("expected %d results, got %d", len(names), len(out))
	}
	for i, c := range out {
		if c.Algorithm != names[i] {
			t.Fatalf("result %d: expected %q, got %q", i, names[i], c.Algorithm)
		}
		if c.Err != nil || c.Result == nil {
			t.Fatalf("%s: unexpected failure: %v", c.Algorithm, c.Err)
		}
		if c.Result.Summary.DeliveredUnits != 6 {
			t.Fatalf("%s: expected 6 units delivered, got %d", c.Algorithm, c.Result.Summary.DeliveredUnits)
		}
	}
	if len(results.saved) != len(names) {
		t.Fatalf("expected every result to be persisted, got %d", len(results.saved))
	}

	best, ok := Best(out)
	if !ok {
		t.Fatalf("expected a best result")
	}
	for _, c := range out {
		if c.Result.Summary.TotalTime < best.Result.Summary.TotalTime {
			t.Fatalf("%s beats reported best %s", c.Algorithm, best.Algorithm)
		}
	}
}

func TestCompareAlgorithmsKeepsPerAlgorithmErrors(t *testing.T) {
	p, _, _ := newTestPlanner()
	depot := stop(10, 0, 0, 0)

	out, err := p.CompareAlgorithms(context.Background(), PlanRequest{
		Capacity: 5,
		Depot:    &depot,
		Stops:    []domain.Stop{stop(11, 1, 0, 8), stop(12, 2, 0, 1)},
	}, []string{routing.NearestNeighbor, routing.ShortestPath})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !errors.Is(out[0].Err, domain.ErrInfeasibleDemand) {
		t.Fatalf("expected nearest-neighbor to reject demand, got %v", out[0].Err)
	}
	if out[1].Err != nil || out[1].Result == nil {
		t.Fatalf("expected shortest-path to succeed, got %v", out[1].Err)
	}

	best, ok := Best(out)
	if !ok || best.Algorithm != routing.ShortestPath {
		t.Fatalf("expected shortest-path to be best, got %+v", best)
	}
}

func TestCompareAlgorithmsRejectsUnknownName(t *testing.T) {
	p, _, _ := newTestPlanner()

	_, err := p.CompareAlgorithms(context.Background(), PlanRequest{Capacity: 5}, []string{routing.Savings, "ant-colony"})
	if !errors.Is(err, domain.ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestBestWithNoSuccess(t *testing.T) {
	if _, ok := Best([]Comparison{{Algorithm: "x", Err: errors.New("boom")}}); ok {
		t.Fatalf("expected no best result")
	}
}
