package distance

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Google limits one Distance Matrix element row to 25 destinations.
const googleMaxDestinations = 25

type googleMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value float64 `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// GoogleMatrixOracle implements TravelOracle and BatchTravelOracle using
// the Google Maps Distance Matrix API. It is safe for concurrent use.
type GoogleMatrixOracle struct {
	client  *apiClient
	apiKey  string
	baseURL string
}

func NewGoogleMatrixOracle(apiKey, baseURL string, opts ClientOptions) (*GoogleMatrixOracle, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google maps api key is empty")
	}
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com"
	}

	return &GoogleMatrixOracle{
		client:  newAPIClient(opts, nil),
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (g *GoogleMatrixOracle) Lookup(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (domain.TravelMeasurement, error) {
	row, err := g.LookupRow(ctx, origin, []domain.Coordinates{destination})
	if err != nil {
		return domain.TravelMeasurement{}, err
	}

	m, ok := row[destination.Key()]
	if !ok {
		return domain.TravelMeasurement{}, fmt.Errorf("google matrix: no result for %s: %w", destination.Key(), domain.ErrOracleUnavailable)
	}
	return m, nil
}

func (g *GoogleMatrixOracle) LookupRow(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (_ map[string]domain.TravelMeasurement, err error) {
	defer obs.Time(ctx, "google.LookupRow")(&err)

	out := make(map[string]domain.TravelMeasurement, len(destinations))
	for start := 0; start < len(destinations); start += googleMaxDestinations {
		end := min(start+googleMaxDestinations, len(destinations))
		if err := g.fetchChunk(ctx, origin, destinations[start:end], out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (g *GoogleMatrixOracle) fetchChunk(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
	out map[string]domain.TravelMeasurement,
) error {
	keys := make([]string, 0, len(destinations))
	for _, d := range destinations {
		keys = append(keys, d.Key())
	}

	endpoint := g.baseURL + "/maps/api/distancematrix/json"
	resp, err := g.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("origins", origin.Key())
		q.Set("destinations", strings.Join(keys, "|"))
		q.Set("key", g.apiKey)
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("google matrix request: %v: %w", err, domain.ErrOracleUnavailable)
	}
	defer resp.Body.Close()

	var decoded googleMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode google matrix response: %v: %w", err, domain.ErrOracleUnavailable)
	}

	if decoded.Status != "OK" {
		return fmt.Errorf("google matrix status %q %s: %w", decoded.Status, decoded.ErrorMessage, domain.ErrOracleUnavailable)
	}
	if len(decoded.Rows) != 1 || len(decoded.Rows[0].Elements) != len(destinations) {
		return fmt.Errorf("google matrix: malformed rows for %d destinations: %w", len(destinations), domain.ErrOracleUnavailable)
	}

	for i, el := range decoded.Rows[0].Elements {
		if el.Status != "OK" {
			// Unroutable elements are left out; the caller sees them as missing.
			continue
		}
		out[keys[i]] = domain.TravelMeasurement{
			TimeSeconds:    el.Duration.Value,
			DistanceMeters: el.Distance.Value,
		}
	}

	return nil
}
