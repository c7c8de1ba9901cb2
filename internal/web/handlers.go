package web

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/JonMunkholm/landsplit/internal/core"
	"github.com/JonMunkholm/landsplit/internal/ingest"
	"github.com/JonMunkholm/landsplit/internal/logging"
)

// maxMemory is the part of a multipart form kept in memory; the rest spills
// to temporary files.
const maxMemory = 32 << 20

// handleReadSheet fetches a remote spreadsheet and returns its region buckets.
//
//	GET /read-sheet/?sheet_url=https://docs.google.com/spreadsheets/d/<id>/edit
func (s *Server) handleReadSheet(w http.ResponseWriter, r *http.Request) {
	ctx := withIngestMetadata(w, r)
	r = r.WithContext(ctx)

	sheetURL := strings.TrimSpace(r.URL.Query().Get("sheet_url"))

	res, err := s.service.ReadSheet(ctx, sheetURL)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, r, res)
}

// handleUploadExcel partitions an uploaded spreadsheet. The file is read from
// the configured multipart field, or from the raw body for any other content
// type (the file name may then be given as ?filename=).
func (s *Server) handleUploadExcel(w http.ResponseWriter, r *http.Request) {
	ctx := withIngestMetadata(w, r)
	r = r.WithContext(ctx)

	up, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	res, err := s.service.ProcessUpload(ctx, up)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, r, res)
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.Upload, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return core.Upload{}, uploadError(err)
		}
		if len(data) == 0 {
			return core.Upload{}, core.ErrNoFile
		}
		return core.Upload{
			Filename:    r.URL.Query().Get("filename"),
			ContentType: r.Header.Get("Content-Type"),
			Data:        data,
		}, nil
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		err = uploadError(err)
		if core.MapError(err).Code == "FILE001" {
			return core.Upload{}, err
		}
		return core.Upload{}, &ingest.MalformedUploadError{Format: "multipart", Err: err}
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(s.cfg.Upload.FormField)
	if err != nil {
		return core.Upload{}, uploadError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return core.Upload{}, uploadError(err)
	}

	return core.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// handleRegions reports the active region profile.
func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.service.Profile())
}

// handleHealth reports liveness and ingest slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":  "ok",
		"ingests": s.service.Limiter().Status(),
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}

func fmtTooLarge(limit int64) error {
	return fmt.Errorf("file too large: upload exceeds %d bytes", limit)
}
