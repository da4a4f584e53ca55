package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evtrip/planner/core/model"
)

func TestOSRM_Route(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/route/v1/driving/"))
		_, _ = w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"distance": 143000,
				"duration": 9000,
				"geometry": {"coordinates": [[77.59, 12.97], [76.65, 12.30]]}
			}]
		}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	route, err := c.Route(context.Background(), model.Coordinates{Lat: 12.97, Lon: 77.59}, model.Coordinates{Lat: 12.30, Lon: 76.65})
	require.NoError(t, err)
	assert.InDelta(t, 143.0, route.DistanceKm, 1e-9)
	assert.InDelta(t, 2.5, route.DurationH, 1e-9)
	require.Len(t, route.Geometry, 2)
	// geojson is lon,lat; the model is lat,lon
	assert.InDelta(t, 12.97, route.Geometry[0].Lat, 1e-9)
	assert.InDelta(t, 77.59, route.Geometry[0].Lon, 1e-9)
	assert.InDelta(t, 57.2, route.AvgSpeedKmh(), 1e-9)
}

func TestOSRM_NoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	_, err := c.Route(context.Background(), model.Coordinates{}, model.Coordinates{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoRoute")
}

func TestOSRM_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	_, err := c.Route(context.Background(), model.Coordinates{}, model.Coordinates{})
	require.Error(t, err)
}
