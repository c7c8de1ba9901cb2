package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusCode)
//  3. Error is mapped via core.MapError to get the support code
//  4. Technical error + context is logged with the request ID for correlation
//  5. The error text is returned verbatim as "detail" alongside the code

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/landsplit/internal/core"
	"github.com/JonMunkholm/landsplit/internal/logging"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// respondError logs err and writes it as an ErrorResponse.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if id := core.GetIngestIDFromContext(r.Context()); id != "" {
		attrs = append(attrs, "ingest_id", id)
	}
	if core.IsUserFacing(err) {
		logger.Warn("request error", attrs...)
	} else {
		logger.Error("request error", attrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Detail: err.Error(),
		Code:   userMsg.Code,
	})
}

// uploadError normalizes errors from reading the request body. Size limit
// violations keep their "request body too large" text so they map to FILE001.
func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmtTooLarge(maxErr.Limit)
	}
	if errors.Is(err, http.ErrMissingFile) {
		return core.ErrNoFile
	}
	return err
}
