package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/leadgate/leadgate/internal/domain"
	"github.com/leadgate/leadgate/internal/pipeline"
)

// LeadService runs the full normalization pipeline for one submission:
// decode -> normalize -> resolve attribution -> assemble -> insert.
// Stateless: nothing is shared between requests.
type LeadService struct {
	store     domain.LeadStore
	assembler *pipeline.Assembler
	log       zerolog.Logger
}

// SubmitInput carries the transient per-request data; discarded after decoding.
type SubmitInput struct {
	ContentType string
	Body        []byte
	Referer     string
	ClientIP    string
}

// New wires the service. store may be nil when the storage collaborator is
// not configured; every Submit then fails with domain.ErrNotConfigured.
func New(store domain.LeadStore, geo domain.Geolocator, log zerolog.Logger) *LeadService {
	norm := pipeline.NewNormalizer(pipeline.DefaultAliases())
	return &LeadService{
		store:     store,
		assembler: pipeline.NewAssembler(norm, geo, log),
		log:       log,
	}
}

// Submit processes one inbound webform submission and returns the id assigned
// by storage. Error taxonomy: *domain.ValidationError for empty or
// unrecognizable payloads, domain.ErrNotConfigured for missing credentials,
// and *supabase.APIError (passed through unwrapped) for storage failures.
// Nothing is retried.
func (s *LeadService) Submit(ctx context.Context, in SubmitInput) (string, error) {
	if s.store == nil {
		return "", domain.ErrNotConfigured
	}

	fm := pipeline.Decode(in.ContentType, in.Body)
	if len(fm) == 0 {
		return "", &domain.ValidationError{}
	}

	lead := s.assembler.Assemble(ctx, fm, in.Referer, in.ClientIP)
	if lead.Empty() {
		return "", &domain.ValidationError{Keys: fm.Keys()}
	}

	id, err := s.store.InsertLead(ctx, lead.Row())
	if err != nil {
		return "", err
	}

	s.log.Info().Str("lead_id", id).Msg("lead stored")
	return id, nil
}

// Dashboard returns the most recent rows from the read view, newest first.
func (s *LeadService) Dashboard(ctx context.Context, limit int) ([]map[string]any, error) {
	if s.store == nil {
		return nil, domain.ErrNotConfigured
	}
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	return s.store.DashboardRows(ctx, limit)
}
