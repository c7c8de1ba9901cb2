package web

import (
	"context"
	"net"
	"net/http"

	"github.com/google/uuid"

	"github.com/JonMunkholm/landsplit/internal/core"
)

// IngestIDHeader carries the ingestion ID back to the caller.
const IngestIDHeader = "X-Ingest-ID"

// withIngestMetadata assigns an ingestion ID and records the client IP for
// ingestion logs. The ID is echoed in the response headers.
func withIngestMetadata(w http.ResponseWriter, r *http.Request) context.Context {
	id := uuid.New().String()
	w.Header().Set(IngestIDHeader, id)

	ctx := core.ContextWithIngestID(r.Context(), id)
	return core.ContextWithIPAddress(ctx, clientIP(r))
}

// clientIP returns the host part of RemoteAddr. TrustedRealIP has already
// replaced it with the forwarded address when the proxy is trusted.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
