package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape for the submission endpoint:
// success {"ok":true,"id":"..."} and failure {"ok":false,...}.
// Cross-origin form scripts depend on this staying JSON for every status.
type Envelope struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Where string `json:"where,omitempty"`
	Error string `json:"error,omitempty"`

	// Keys lists the raw field names received, on validation failures only.
	Keys []string `json:"keys,omitempty"`

	// SupabaseError carries the storage collaborator's structured error
	// unchanged.
	SupabaseError *StorageError `json:"supabase_error,omitempty"`
}

// StorageError mirrors the PostgREST error object.
type StorageError struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Code    string `json:"code,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes the 200 success envelope with the storage-assigned id.
func OK(w http.ResponseWriter, id string) {
	JSON(w, http.StatusOK, Envelope{OK: true, ID: id})
}

// Validation writes the 400 envelope listing the keys that were received.
func Validation(w http.ResponseWriter, keys []string) {
	JSON(w, http.StatusBadRequest, Envelope{OK: false, Where: "validation", Error: "no lead data", Keys: keys})
}

// NotConfigured writes the 500 envelope for missing storage credentials.
func NotConfigured(w http.ResponseWriter) {
	JSON(w, http.StatusInternalServerError, Envelope{OK: false, Where: "config", Error: "server not configured"})
}

// Storage writes the 500 envelope carrying the collaborator's error.
func Storage(w http.ResponseWriter, e *StorageError) {
	JSON(w, http.StatusInternalServerError, Envelope{OK: false, Where: "supabase", SupabaseError: e})
}

// Internal writes a generic 500 without leaking detail.
func Internal(w http.ResponseWriter) {
	JSON(w, http.StatusInternalServerError, Envelope{OK: false, Error: "internal error"})
}
