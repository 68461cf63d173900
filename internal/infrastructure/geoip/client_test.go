package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/leadgate/leadgate/internal/domain"
)

func TestLookupSuccess(t *testing.T) {
	var gotPath, gotFields string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFields = r.URL.Query().Get("fields")
		_, _ = w.Write([]byte(`{"status":"success","country":"Israel","regionName":"Tel Aviv","city":"Holon","lat":32.01,"lon":34.77}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	loc, err := c.Lookup(context.Background(), "8.8.8.8")
	require.NoError(t, err)

	require.Equal(t, "/json/8.8.8.8", gotPath)
	require.Equal(t, "status,country,regionName,city,lat,lon", gotFields)
	require.Equal(t, "Israel", loc.Country)
	require.Equal(t, "Tel Aviv", loc.Region)
	require.Equal(t, "Holon", loc.City)
	require.InDelta(t, 32.01, loc.Lat, 0.001)
	require.InDelta(t, 34.77, loc.Lon, 0.001)
}

func TestLookupFailStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	_, err := c.Lookup(context.Background(), "10.0.0.1")
	require.ErrorIs(t, err, domain.ErrGeoUnavailable)
}

func TestLookupHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	_, err := c.Lookup(context.Background(), "8.8.8.8")
	require.ErrorIs(t, err, domain.ErrGeoUnavailable)
}

func TestLookupUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed on purpose

	c := New(srv.URL, 500*time.Millisecond)
	_, err := c.Lookup(context.Background(), "8.8.8.8")
	require.ErrorIs(t, err, domain.ErrGeoUnavailable)
}
