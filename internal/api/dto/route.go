package dto

import "time"

type StopRequest struct {
	StopID int     `json:"stop_id"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Demand int     `json:"demand"`
}

type RouteRequest struct {
	Algorithm string        `json:"algorithm"`
	Capacity  int           `json:"capacity"`
	Seed      int64         `json:"seed"`
	Prefetch  bool          `json:"prefetch"`
	Depot     *StopRequest  `json:"depot"`
	Stops     []StopRequest `json:"stops"`
	StopLimit int           `json:"stop_limit"`
}

type CompareRequest struct {
	Algorithms []string      `json:"algorithms"`
	Capacity   int           `json:"capacity"`
	Seed       int64         `json:"seed"`
	Prefetch   bool          `json:"prefetch"`
	Depot      *StopRequest  `json:"depot"`
	Stops      []StopRequest `json:"stops"`
	StopLimit  int           `json:"stop_limit"`
}

type LegResponse struct {
	OriginID       int     `json:"origin_id"`
	DestinationID  int     `json:"destination_id"`
	OriginLat      float64 `json:"origin_lat"`
	OriginLon      float64 `json:"origin_lon"`
	DestinationLat float64 `json:"destination_lat"`
	DestinationLon float64 `json:"destination_lon"`
	TimeSeconds    float64 `json:"time_seconds"`
	DistanceMeters float64 `json:"distance_meters"`
	Units          int     `json:"units"`
}

type AnnealingResponse struct {
	Seed               int64   `json:"seed"`
	InitialTemperature float64 `json:"initial_temperature"`
	CoolingRate        float64 `json:"cooling_rate"`
	Iterations         int     `json:"iterations"`
	Improvements       int     `json:"improvements"`
	AcceptedWorse      int     `json:"accepted_worse"`
	InitialEnergy      float64 `json:"initial_energy"`
	BestEnergy         float64 `json:"best_energy"`
}

type SummaryResponse struct {
	Algorithm           string             `json:"algorithm"`
	StopCount           int                `json:"stop_count"`
	Capacity            int                `json:"capacity"`
	TotalTimeSeconds    float64            `json:"total_time_seconds"`
	TotalDistanceMeters float64            `json:"total_distance_meters"`
	ReturnsToDepot      int                `json:"returns_to_depot"`
	DeliveredUnits      int                `json:"delivered_units"`
	OracleRequests      int64              `json:"oracle_requests"`
	OracleFailures      int64              `json:"oracle_failures"`
	ExecutionMillis     int64              `json:"execution_ms"`
	HeapGrowthBytes     int64              `json:"heap_growth_bytes"`
	Annealing           *AnnealingResponse `json:"annealing,omitempty"`
}

type RouteResponse struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Summary   SummaryResponse `json:"summary"`
	Legs      []LegResponse   `json:"legs,omitempty"`
}

type ComparisonResponse struct {
	Algorithm string         `json:"algorithm"`
	Route     *RouteResponse `json:"route,omitempty"`
	Error     string         `json:"error,omitempty"`
}

type CompareResponse struct {
	Best    string               `json:"best,omitempty"`
	Results []ComparisonResponse `json:"results"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	Algorithms    int    `json:"algorithms"`
	ResultStorage bool   `json:"result_storage"`
}

type AlgorithmsResponse struct {
	Algorithms []string `json:"algorithms"`
}
