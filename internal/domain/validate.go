package domain

import "fmt"

// ValidateRouteInput checks the stop-source boundary before any routing work starts.
func ValidateRouteInput(depot Stop, stops []Stop, capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("validate route input: capacity=%d: %w", capacity, ErrInvalidCapacity)
	}

	if len(stops) == 0 {
		return fmt.Errorf("validate route input: %w", ErrEmptyStopSet)
	}

	seen := make(map[int]struct{}, len(stops)+1)
	seen[depot.ID] = struct{}{}
	for _, s := range stops {
		if s.Demand < 0 {
			return fmt.Errorf("validate route input: stop_id=%d demand=%d: %w", s.ID, s.Demand, ErrInvalidDemand)
		}
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("validate route input: stop_id=%d: %w", s.ID, ErrDuplicateStop)
		}
		seen[s.ID] = struct{}{}
	}

	return nil
}

// CheckDemandFits reports the first stop whose demand cannot fit in one full vehicle.
func CheckDemandFits(stops []Stop, capacity int) error {
	for _, s := range stops {
		if s.Demand > capacity {
			return fmt.Errorf("stop_id=%d demand=%d capacity=%d: %w", s.ID, s.Demand, capacity, ErrInfeasibleDemand)
		}
	}
	return nil
}
