package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the Supabase PostgREST endpoint with the privileged service
// role key. Every call is attempted exactly once; retry policy belongs to the
// caller, and there is none.
type Client struct {
	baseURL    string
	serviceKey string
	http       *http.Client
	log        zerolog.Logger
}

// APIError is the structured error PostgREST returns on a failed statement.
// The code field carries the Postgres SQLSTATE (e.g. 23502 for a not-null
// violation) and is surfaced to the HTTP boundary unchanged.
type APIError struct {
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
	Code    string `json:"code"`

	Status int `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: %s (code=%s, status=%d)", e.Message, e.Code, e.Status)
}

func New(baseURL, serviceKey string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "supabase").Logger(),
	}
}

// Insert writes one row into table and returns the id the database assigned.
func (c *Client) Insert(ctx context.Context, table string, row map[string]any) (string, error) {
	payload, err := json.Marshal([]map[string]any{row})
	if err != nil {
		return "", fmt.Errorf("supabase: marshal row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/v1/"+url.PathEscape(table), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	body, status, err := c.do(req)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", c.apiError(body, status)
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return "", fmt.Errorf("supabase: unexpected insert response (status=%d)", status)
	}
	return stringID(rows[0]["id"]), nil
}

// Select reads up to limit rows from table (or view), newest first.
func (c *Client) Select(ctx context.Context, table string, limit int) ([]map[string]any, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/"+url.PathEscape(table)+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, c.apiError(body, status)
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("supabase: decode select response: %w", err)
	}
	return rows, nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", req.Method).Str("url", req.URL.Path).Msg("request failed")
		return nil, 0, fmt.Errorf("supabase: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("supabase: read response: %w", err)
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("postgrest call")

	return body, resp.StatusCode, nil
}

func (c *Client) apiError(body []byte, status int) error {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
	}
	return apiErr
}

// stringID tolerates both uuid/text ids and bigint ids.
func stringID(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
