package domain

import "time"

// Run statistics reported by the annealing strategies.
type AnnealingStats struct {
	Seed               int64
	InitialTemperature float64
	CoolingRate        float64
	Iterations         int
	Improvements       int
	AcceptedWorse      int
	InitialEnergy      float64
	BestEnergy         float64
}

// Aggregate figures for one routing computation.
type RouteSummary struct {
	Algorithm      string
	StopCount      int
	Capacity       int
	TotalTime      float64
	TotalDistance  float64
	ReturnsToDepot int
	DeliveredUnits int
	OracleRequests int64
	OracleFailures int64
	Elapsed        time.Duration
	// HeapGrowth is the live heap gained over the computation, in bytes.
	// Concurrent computations share one heap, so it is approximate.
	HeapGrowth     int64
	Annealing      *AnnealingStats
}

// Summarize derives the route-level totals of a summary.
func Summarize(route Route, stopCount int) RouteSummary {
	total := route.Total()
	return RouteSummary{
		Algorithm:      route.Algorithm,
		StopCount:      stopCount,
		Capacity:       route.Capacity,
		TotalTime:      total.TimeSeconds,
		TotalDistance:  total.DistanceMeters,
		ReturnsToDepot: route.ReturnsToDepot(),
		DeliveredUnits: route.DeliveredUnits(),
	}
}

// A computed route together with its summary, as persisted and served.
type RouteResult struct {
	ID        string
	CreatedAt time.Time
	Route     Route
	Summary   RouteSummary
}
