package dto

import (
	"cvrp-route-service/internal/domain"
	"math"
)

// finite clamps sums of unreachable edges, which JSON cannot encode as Inf.
func finite(f float64) float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return math.MaxFloat64
	}
	return f
}

func (s StopRequest) ToDomain() domain.Stop {
	return domain.Stop{
		ID:          s.StopID,
		Coordinates: domain.Coordinates{Lat: s.Lat, Lon: s.Lon},
		Demand:      s.Demand,
	}
}

func StopsToDomain(in []StopRequest) []domain.Stop {
	out := make([]domain.Stop, 0, len(in))
	for _, s := range in {
		out = append(out, s.ToDomain())
	}
	return out
}

// FromResult converts a route result; withLegs controls whether legs are included.
func FromResult(r domain.RouteResult, withLegs bool) RouteResponse {
	sm := r.Summary
	res := RouteResponse{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Summary: SummaryResponse{
			Algorithm:           sm.Algorithm,
			StopCount:           sm.StopCount,
			Capacity:            sm.Capacity,
			TotalTimeSeconds:    finite(sm.TotalTime),
			TotalDistanceMeters: finite(sm.TotalDistance),
			ReturnsToDepot:      sm.ReturnsToDepot,
			DeliveredUnits:      sm.DeliveredUnits,
			OracleRequests:      sm.OracleRequests,
			OracleFailures:      sm.OracleFailures,
			ExecutionMillis:     sm.Elapsed.Milliseconds(),
			HeapGrowthBytes:     sm.HeapGrowth,
		},
	}

	if a := sm.Annealing; a != nil {
		res.Summary.Annealing = &AnnealingResponse{
			Seed:               a.Seed,
			InitialTemperature: a.InitialTemperature,
			CoolingRate:        a.CoolingRate,
			Iterations:         a.Iterations,
			Improvements:       a.Improvements,
			AcceptedWorse:      a.AcceptedWorse,
			InitialEnergy:      finite(a.InitialEnergy),
			BestEnergy:         finite(a.BestEnergy),
		}
	}

	if withLegs {
		res.Legs = make([]LegResponse, 0, len(r.Route.Legs))
		for _, l := range r.Route.Legs {
			res.Legs = append(res.Legs, LegResponse{
				OriginID:       l.OriginID,
				DestinationID:  l.DestinationID,
				OriginLat:      l.Origin.Lat,
				OriginLon:      l.Origin.Lon,
				DestinationLat: l.Destination.Lat,
				DestinationLon: l.Destination.Lon,
				TimeSeconds:    l.TimeSeconds,
				DistanceMeters: l.DistanceMeters,
				Units:          l.Units,
			})
		}
	}

	return res
}
