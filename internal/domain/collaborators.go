package domain

import "context"

// LeadStore is the persistent storage collaborator. The server never retries:
// one submission maps to at most one insert, and the store assigns the id.
type LeadStore interface {
	InsertLead(ctx context.Context, row map[string]any) (id string, err error)
	DashboardRows(ctx context.Context, limit int) ([]map[string]any, error)
}

// Location is the result of an IP geolocation lookup.
type Location struct {
	Country string
	Region  string
	City    string
	Lat     float64
	Lon     float64
}

// Geolocator resolves a public IP to a coarse location. Lookup failures are
// enrichment failures, never request failures.
type Geolocator interface {
	Lookup(ctx context.Context, ip string) (*Location, error)
}
