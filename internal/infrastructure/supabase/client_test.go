package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "service-key-123", 5*time.Second, zerolog.Nop())
}

func TestInsertSendsPostgRESTRequest(t *testing.T) {
	var (
		gotPath   string
		gotPrefer string
		gotAuth   string
		gotAPIKey string
		gotBody   []map[string]any
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPrefer = r.Header.Get("Prefer")
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("apikey")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":"9f2b1c34-aaaa-bbbb-cccc-0123456789ab","full_name":"Dana"}]`))
	})

	id, err := c.Insert(context.Background(), "leads", map[string]any{"full_name": "Dana", "status": "new"})
	require.NoError(t, err)
	require.Equal(t, "9f2b1c34-aaaa-bbbb-cccc-0123456789ab", id)

	require.Equal(t, "/rest/v1/leads", gotPath)
	require.Equal(t, "return=representation", gotPrefer)
	require.Equal(t, "Bearer service-key-123", gotAuth)
	require.Equal(t, "service-key-123", gotAPIKey)
	require.Len(t, gotBody, 1)
	require.Equal(t, "Dana", gotBody[0]["full_name"])
}

func TestInsertNumericIDStringified(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":1042}]`))
	})
	id, err := c.Insert(context.Background(), "leads", map[string]any{"status": "new"})
	require.NoError(t, err)
	require.Equal(t, "1042", id)
}

func TestInsertSurfacesStructuredError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"null value in column \"account_id\" violates not-null constraint","details":"Failing row contains ...","hint":"","code":"23502"}`))
	})

	_, err := c.Insert(context.Background(), "leads", map[string]any{"status": "new"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "23502", apiErr.Code)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Contains(t, apiErr.Message, "not-null")
}

func TestInsertNonJSONErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	})

	_, err := c.Insert(context.Background(), "leads", map[string]any{"status": "new"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "upstream unavailable", apiErr.Message)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestSelectOrdersAndLimits(t *testing.T) {
	var gotQuery map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[{"full_name":"Dana","status":"new"},{"full_name":"Noa","status":"new"}]`))
	})

	rows, err := c.Select(context.Background(), "leads_dashboard", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Dana", rows[0]["full_name"])

	require.Equal(t, []string{"*"}, gotQuery["select"])
	require.Equal(t, []string{"created_at.desc"}, gotQuery["order"])
	require.Equal(t, []string{"2"}, gotQuery["limit"])
}

func TestStoreBindsTables(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`[{"id":"x1"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	s := NewStore(c, "", "")
	id, err := s.InsertLead(context.Background(), map[string]any{"status": "new"})
	require.NoError(t, err)
	require.Equal(t, "x1", id)

	_, err = s.DashboardRows(context.Background(), 10)
	require.NoError(t, err)

	require.Equal(t, []string{"/rest/v1/leads", "/rest/v1/leads_dashboard"}, paths)
}
