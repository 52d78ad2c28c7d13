package distance

import (
	"context"
	"cvrp-route-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestORSMatrixLookupRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/matrix/driving-car", r.URL.Path)
		assert.Equal(t, "ors-key", r.Header.Get("Authorization"))

		var body matrixRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int{0}, body.Sources)
		assert.Equal(t, []int{1, 2}, body.Destinations)
		assert.Equal(t, phx.CoordsToList(), body.Locations[0])

		fmt.Fprint(w, `{"distances": [[14000, null]], "durations": [[900, null]]}`)
	}))
	defer srv.Close()

	o, err := NewORSMatrixOracle("ors-key", srv.URL, "", fastOptions())
	require.NoError(t, err)

	row, err := o.LookupRow(context.Background(), phx, []domain.Coordinates{tempe, mesa})
	require.NoError(t, err)
	require.Len(t, row, 1)
	require.Equal(t, domain.TravelMeasurement{TimeSeconds: 900, DistanceMeters: 14000}, row[tempe.Key()])
}

func TestORSMatrixLookupNullMetric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body matrixRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int{1}, body.Destinations)
		assert.Equal(t, mesa.CoordsToList(), body.Locations[1])

		fmt.Fprint(w, `{"distances": [[null]], "durations": [[null]]}`)
	}))
	defer srv.Close()

	o, err := NewORSMatrixOracle("ors-key", srv.URL, "", fastOptions())
	require.NoError(t, err)

	_, err = o.Lookup(context.Background(), phx, mesa)
	require.True(t, errors.Is(err, domain.ErrOracleUnavailable))
	require.Contains(t, err.Error(), "no result for "+mesa.Key())
}

func TestORSMatrixMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"distances": [], "durations": []}`)
	}))
	defer srv.Close()

	o, err := NewORSMatrixOracle("k", srv.URL, "driving-hgv", fastOptions())
	require.NoError(t, err)

	_, err = o.Lookup(context.Background(), phx, tempe)
	require.True(t, errors.Is(err, domain.ErrOracleUnavailable))
}

func TestORSMatrixEmptyDestinations(t *testing.T) {
	o, err := NewORSMatrixOracle("k", "http://127.0.0.1:1", "", fastOptions())
	require.NoError(t, err)

	row, err := o.LookupRow(context.Background(), phx, nil)
	require.NoError(t, err)
	require.Empty(t, row)
}
