package domain

// Represents a demand point, or the depot when its demand is zero.
// Stops are values: routing code copies them and never mutates demand,
// apart from forcing the depot's demand to zero on entry.
type Stop struct {
	ID          int
	Coordinates Coordinates
	Demand      int
}

// AsDepot returns a copy of s with its demand forced to zero.
func (s Stop) AsDepot() Stop {
	s.Demand = 0
	return s
}
