package domain

import "strconv"

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Key renders the coordinates as "lat,lon" using the shortest exact float form.
// Two stops at the same place share a key regardless of their ids.
func (c Coordinates) Key() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// PairKey identifies a directed origin->destination lookup by coordinate text.
type PairKey struct {
	Origin      string
	Destination string
}

func NewPairKey(origin, destination Coordinates) PairKey {
	return PairKey{Origin: origin.Key(), Destination: destination.Key()}
}

func (k PairKey) String() string { return k.Origin + "->" + k.Destination }
