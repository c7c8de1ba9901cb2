package core

import "context"

type contextKey string

const (
	ctxKeyIngestID  contextKey = "ingest_id"
	ctxKeyIPAddress contextKey = "client_ip"
)

// ContextWithIngestID attaches the ingestion ID used in logs and the
// X-Ingest-ID response header.
func ContextWithIngestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyIngestID, id)
}

// GetIngestIDFromContext extracts the ingestion ID from context.
func GetIngestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyIngestID).(string); ok {
		return v
	}
	return ""
}

// ContextWithIPAddress adds the client IP to context for ingestion logs.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// GetIPAddressFromContext extracts the client IP from context.
func GetIPAddressFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		return v
	}
	return ""
}
