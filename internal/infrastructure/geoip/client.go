package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/leadgate/leadgate/internal/domain"
)

// DefaultBaseURL is the free ip-api.com endpoint. Plaintext HTTP is all the
// free tier offers.
const DefaultBaseURL = "http://ip-api.com"

const lookupFields = "status,country,regionName,city,lat,lon"

// Client resolves public IPs against an ip-api.com compatible service.
// Implements domain.Geolocator.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	Status     string  `json:"status"`
	Country    string  `json:"country"`
	RegionName string  `json:"regionName"`
	City       string  `json:"city"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// Lookup fetches the location for ip. Any transport failure, non-2xx status
// or non-success payload resolves to domain.ErrGeoUnavailable; the caller
// treats all of them as "no geolocation available".
func (c *Client) Lookup(ctx context.Context, ip string) (*domain.Location, error) {
	u := c.baseURL + "/json/" + url.PathEscape(ip) + "?fields=" + lookupFields

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeoUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrGeoUnavailable, resp.StatusCode)
	}

	var out lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeoUnavailable, err)
	}
	if out.Status != "success" {
		return nil, fmt.Errorf("%w: status %q", domain.ErrGeoUnavailable, out.Status)
	}

	return &domain.Location{
		Country: out.Country,
		Region:  out.RegionName,
		City:    out.City,
		Lat:     out.Lat,
		Lon:     out.Lon,
	}, nil
}
