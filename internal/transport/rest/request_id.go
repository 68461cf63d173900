package rest

import (
	"net/http"

	"github.com/google/uuid"

	appCtx "github.com/leadgate/leadgate/internal/pkg/context"
)

const (
	requestIDHeader = "X-Request-Id"

	// maxRequestIDLen caps inbound ids; the submission endpoint is open to
	// arbitrary cross-origin clients and the id is echoed into every log line.
	maxRequestIDLen = 64
)

// RequestID injects a request id into context and response header. An inbound
// id is honored when it is plausible, otherwise a fresh uuid is minted.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(requestIDHeader)
		if rid == "" || len(rid) > maxRequestIDLen || !printableASCII(rid) {
			rid = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, rid)

		ctx := appCtx.WithRequestID(r.Context(), rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func printableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
