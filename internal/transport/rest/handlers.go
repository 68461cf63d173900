package rest

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	"github.com/leadgate/leadgate/internal/domain"
	"github.com/leadgate/leadgate/internal/infrastructure/supabase"
	"github.com/leadgate/leadgate/internal/pkg/logger"
	"github.com/leadgate/leadgate/internal/service"
	"github.com/leadgate/leadgate/internal/transport/rest/response"
)

// maxBodyBytes bounds inbound submissions; webform payloads are tiny.
const maxBodyBytes = 1 << 20

type Handler struct {
	svc            *service.LeadService
	dashboardLimit int
}

func NewHandler(svc *service.LeadService, dashboardLimit int) *Handler {
	if dashboardLimit <= 0 {
		dashboardLimit = 200
	}
	return &Handler{svc: svc, dashboardLimit: dashboardLimit}
}

// SubmitLead is the webform capture endpoint. It accepts JSON, url-encoded
// and multipart bodies and never rejects a request because the body was
// unparseable — only because nothing usable was recovered from it.
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		response.Validation(w, nil)
		return
	}

	id, err := h.svc.Submit(r.Context(), service.SubmitInput{
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
		Referer:     r.Referer(),
		ClientIP:    clientIP(r),
	})
	if err != nil {
		h.submitError(w, r, err)
		return
	}

	response.OK(w, id)
}

func (h *Handler) submitError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *domain.ValidationError
	var apiErr *supabase.APIError

	switch {
	case errors.As(err, &vErr):
		logger.Ctx(r.Context()).Warn().Strs("keys", vErr.Keys).Msg("submission rejected")
		response.Validation(w, vErr.Keys)

	case errors.Is(err, domain.ErrNotConfigured):
		logger.Ctx(r.Context()).Error().Msg("storage credentials missing")
		response.NotConfigured(w)

	case errors.As(err, &apiErr):
		logger.Ctx(r.Context()).Error().
			Str("code", apiErr.Code).
			Str("message", apiErr.Message).
			Msg("storage insert failed")
		response.Storage(w, &response.StorageError{
			Message: apiErr.Message,
			Details: apiErr.Details,
			Hint:    apiErr.Hint,
			Code:    apiErr.Code,
		})

	default:
		logger.Ctx(r.Context()).Error().Err(err).Msg("submission failed")
		response.Internal(w)
	}
}

// Dashboard serves the read view rows for the leads dashboard. Rendering is
// the client's problem; this endpoint only reads.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	limit := h.dashboardLimit
	if s := strings.TrimSpace(r.URL.Query().Get("limit")); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	rows, err := h.svc.Dashboard(r.Context(), limit)
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			response.NotConfigured(w)
			return
		}
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) {
			response.Storage(w, &response.StorageError{
				Message: apiErr.Message,
				Details: apiErr.Details,
				Hint:    apiErr.Hint,
				Code:    apiErr.Code,
			})
			return
		}
		logger.Ctx(r.Context()).Error().Err(err).Msg("dashboard read failed")
		response.Internal(w)
		return
	}
	if rows == nil {
		rows = []map[string]any{}
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]any{"ok": true, "leads": rows})
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "OK")
}

// clientIP resolves the submitting browser's address: first X-Forwarded-For
// hop when present (the service runs behind a proxy in production), else the
// RemoteAddr host part.
func clientIP(r *http.Request) string {
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
