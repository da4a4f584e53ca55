package chargers

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

func TestOverpass_Nearby(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/interpreter", r.URL.Path)
		require.NoError(t, r.ParseForm())
		q := r.PostForm.Get("data")
		assert.True(t, strings.Contains(q, `"charging_station"`))
		assert.True(t, strings.Contains(q, "around:30000"))
		_, _ = w.Write([]byte(`{"elements":[
			{"lat":12.9,"lon":77.6,"tags":{"name":"Ather Grid","operator":"Ather"}},
			{"lat":12.8,"lon":77.5,"tags":{}}
		]}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	stations, err := c.Nearby(context.Background(), model.Coordinates{Lat: 12.9, Lon: 77.6}, 30)
	require.NoError(t, err)
	require.Len(t, stations, 2)
	assert.Equal(t, "Ather Grid", stations[0].Name)
	assert.Equal(t, "Ather", stations[0].Operator)
	// untagged nodes still get a display name
	assert.Equal(t, "Charging Station", stations[1].Name)
}

func TestOverpass_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	_, err := c.Nearby(context.Background(), model.Coordinates{}, 10)
	require.Error(t, err)
}
