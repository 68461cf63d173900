package supabase

import (
	"context"
)

// Store binds the generic PostgREST client to the two relations the service
// touches: the leads table for writes and the dashboard view for reads.
type Store struct {
	client        *Client
	leadsTable    string
	dashboardView string
}

func NewStore(client *Client, leadsTable, dashboardView string) *Store {
	if leadsTable == "" {
		leadsTable = "leads"
	}
	if dashboardView == "" {
		dashboardView = "leads_dashboard"
	}
	return &Store{client: client, leadsTable: leadsTable, dashboardView: dashboardView}
}

func (s *Store) InsertLead(ctx context.Context, row map[string]any) (string, error) {
	return s.client.Insert(ctx, s.leadsTable, row)
}

func (s *Store) DashboardRows(ctx context.Context, limit int) ([]map[string]any, error) {
	return s.client.Select(ctx, s.dashboardView, limit)
}
