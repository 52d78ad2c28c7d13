package distance

import (
	"context"
	"cvrp-route-service/internal/domain"
	"fmt"
	"sync/atomic"
)

// StaticPair is one directed entry of a StaticOracle table.
type StaticPair struct {
	From, To domain.Coordinates
	Seconds  float64
	Meters   float64
}

// StaticOracle answers from a fixed table, for tests and demos.
// A pair missing from the table fails with domain.ErrOracleUnavailable.
type StaticOracle struct {
	m     map[domain.PairKey]domain.TravelMeasurement
	calls atomic.Int64
}

func NewStaticOracle(pairs []StaticPair) *StaticOracle {
	m := make(map[domain.PairKey]domain.TravelMeasurement, len(pairs))
	for _, p := range pairs {
		m[domain.NewPairKey(p.From, p.To)] = domain.TravelMeasurement{TimeSeconds: p.Seconds, DistanceMeters: p.Meters}
	}
	return &StaticOracle{m: m}
}

// Symmetric adds the reverse direction of every pair.
func Symmetric(pairs []StaticPair) []StaticPair {
	out := make([]StaticPair, 0, 2*len(pairs))
	for _, p := range pairs {
		out = append(out, p, StaticPair{From: p.To, To: p.From, Seconds: p.Seconds, Meters: p.Meters})
	}
	return out
}

// Calls returns how many lookups reached the oracle.
func (o *StaticOracle) Calls() int64 { return o.calls.Load() }

func (o *StaticOracle) Lookup(ctx context.Context, origin, destination domain.Coordinates) (domain.TravelMeasurement, error) {
	o.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return domain.TravelMeasurement{}, fmt.Errorf("static oracle: %v: %w", err, domain.ErrOracleUnavailable)
	}

	key := domain.NewPairKey(origin, destination)
	r, ok := o.m[key]
	if !ok {
		return domain.TravelMeasurement{}, fmt.Errorf("missing pair %s: %w", key, domain.ErrOracleUnavailable)
	}

	return r, nil
}
