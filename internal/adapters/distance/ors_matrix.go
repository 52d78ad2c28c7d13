package distance

import (
	"bytes"
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// ORSMatrixOracle implements TravelOracle and BatchTravelOracle using the
// OpenRouteService matrix endpoint. It is safe for concurrent use.
type ORSMatrixOracle struct {
	client  *apiClient
	baseURL string
	profile string
}

func NewORSMatrixOracle(apiKey, baseURL, profile string, opts ClientOptions) (*ORSMatrixOracle, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}
	if profile == "" {
		profile = "driving-car"
	}

	return &ORSMatrixOracle{
		client: newAPIClient(opts, func(req *http.Request) {
			req.Header.Set("Authorization", apiKey)
		}),
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
	}, nil
}

func (o *ORSMatrixOracle) Lookup(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (domain.TravelMeasurement, error) {
	row, err := o.LookupRow(ctx, origin, []domain.Coordinates{destination})
	if err != nil {
		return domain.TravelMeasurement{}, err
	}

	m, ok := row[destination.Key()]
	if !ok {
		return domain.TravelMeasurement{}, fmt.Errorf("ORS matrix: no result for %s: %w", destination.Key(), domain.ErrOracleUnavailable)
	}
	return m, nil
}

// LookupRow retrieves time and distance from one origin to many destinations.
// Destinations with null metrics are left out of the result.
func (o *ORSMatrixOracle) LookupRow(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (_ map[string]domain.TravelMeasurement, err error) {
	defer obs.Time(ctx, "ors.LookupRow")(&err)

	if len(destinations) == 0 {
		return map[string]domain.TravelMeasurement{}, nil
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, 1+len(destinations))
	locations = append(locations, origin.CoordsToList())
	for _, c := range destinations {
		locations = append(locations, c.CoordsToList())
	}

	destIdx := make([]int, 0, len(destinations))
	for i := 1; i < len(locations); i++ {
		destIdx = append(destIdx, i)
	}

	bodyObj := matrixRequest{
		Locations:    locations,
		Destinations: destIdx,
		Metrics:      []string{"distance", "duration"},
		Sources:      []int{0},
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.client.doWithRetry(ctx, func() (*http.Request, error) {
		body := bytes.NewReader(payload)
		return o.client.newRequest(ctx, http.MethodPost, endpoint, body)
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %v: %w", err, domain.ErrOracleUnavailable)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %v: %w", err, domain.ErrOracleUnavailable)
	}

	if len(mr.Distances) != 1 || len(mr.Durations) != 1 {
		return nil, fmt.Errorf(
			"expected 1 source row; got distances=%d durations=%d: %w",
			len(mr.Distances), len(mr.Durations), domain.ErrOracleUnavailable,
		)
	}

	rowDistances := mr.Distances[0]
	rowDurations := mr.Durations[0]

	if len(rowDistances) != len(destinations) || len(rowDurations) != len(destinations) {
		return nil, fmt.Errorf(
			"row lengths do not match destinations: distances=%d durations=%d destinations=%d: %w",
			len(rowDistances), len(rowDurations), len(destinations), domain.ErrOracleUnavailable,
		)
	}

	out := make(map[string]domain.TravelMeasurement, len(destinations))
	for i, dest := range destinations {
		metersPtr := rowDistances[i]
		secondsPtr := rowDurations[i]

		if metersPtr == nil || secondsPtr == nil {
			continue
		}

		out[dest.Key()] = domain.TravelMeasurement{
			TimeSeconds:    *secondsPtr,
			DistanceMeters: *metersPtr,
		}
	}

	return out, nil
}
