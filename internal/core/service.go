package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/landsplit/internal/config"
	"github.com/JonMunkholm/landsplit/internal/ingest"
	"github.com/JonMunkholm/landsplit/internal/logging"
	"github.com/JonMunkholm/landsplit/internal/pipeline"
	"github.com/JonMunkholm/landsplit/internal/table"
)

// Ingestion sources, used as the "source" log field and metric label.
const (
	SourceSheet  = "sheet"
	SourceUpload = "upload"
)

// ErrNoSheetURL is returned when ReadSheet is called without a URL.
var ErrNoSheetURL = errors.New("sheet_url is required")

// ErrNoFile is returned when an upload carries no file.
var ErrNoFile = errors.New("no file provided")

// SheetFetcher reads a remote spreadsheet into a table.
// *ingest.SheetsFetcher is the production implementation.
type SheetFetcher interface {
	Fetch(ctx context.Context, sheetURL string) (*table.Table, error)
}

// Upload is an uploaded spreadsheet file.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service runs ingestions: it reads a table through an adapter, partitions
// it with the region profile and records the outcome.
type Service struct {
	profile config.Profile
	fetcher SheetFetcher
	limiter *IngestLimiter
	metrics *Metrics
}

// Option customizes a Service.
type Option func(*Service)

// WithMetrics records ingestion metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLimiter replaces the default ingest limiter.
func WithLimiter(l *IngestLimiter) Option {
	return func(s *Service) { s.limiter = l }
}

// NewService creates a Service for the given profile. fetcher may be nil when
// only uploads are served; ReadSheet then fails with an adapter error.
func NewService(profile config.Profile, fetcher SheetFetcher, opts ...Option) *Service {
	s := &Service{
		profile: profile,
		fetcher: fetcher,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = NewIngestLimiter(DefaultMaxConcurrentIngests, DefaultMaxWaitTime)
	}
	return s
}

// Profile returns the active region profile.
func (s *Service) Profile() config.Profile {
	return s.profile
}

// Limiter returns the ingest limiter, for health reporting and shutdown.
func (s *Service) Limiter() *IngestLimiter {
	return s.limiter
}

// ReadSheet fetches the spreadsheet at sheetURL and partitions it.
func (s *Service) ReadSheet(ctx context.Context, sheetURL string) (*pipeline.Result, error) {
	if sheetURL == "" {
		return nil, ErrNoSheetURL
	}
	return s.run(ctx, SourceSheet, []any{"sheet_url", sheetURL}, func(ctx context.Context) (*table.Table, error) {
		if s.fetcher == nil {
			return nil, &ingest.AdapterError{Op: "authorize", Err: ingest.ErrNoCredentials}
		}
		return s.fetcher.Fetch(ctx, sheetURL)
	})
}

// ProcessUpload decodes an uploaded spreadsheet and partitions it.
func (s *Service) ProcessUpload(ctx context.Context, up Upload) (*pipeline.Result, error) {
	if up.Data == nil {
		return nil, ErrNoFile
	}
	fields := []any{"filename", filepath.Base(up.Filename), "bytes", len(up.Data)}
	return s.run(ctx, SourceUpload, fields, func(context.Context) (*table.Table, error) {
		return ingest.Decode(up.Data, up.Filename, up.ContentType)
	})
}

// run holds a limiter slot while the table is loaded and partitioned.
func (s *Service) run(ctx context.Context, source string, fields []any, load func(context.Context) (*table.Table, error)) (*pipeline.Result, error) {
	ingestID := GetIngestIDFromContext(ctx)
	if ingestID == "" {
		ingestID = uuid.New().String()
	}

	args := append([]any{"ingest_id", ingestID, "source", source}, fields...)
	if ip := GetIPAddressFromContext(ctx); ip != "" {
		args = append(args, "client_ip", ip)
	}
	logger := logging.WithFields(ctx, args...)

	start := time.Now()
	fail := func(err error) (*pipeline.Result, error) {
		s.metrics.RecordFailure(source, time.Since(start), err)
		logger.Warn("ingest failed",
			"error", err,
			"code", MapError(err).Code,
			"duration", time.Since(start),
		)
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return fail(fmt.Errorf("acquire ingest slot: %w", err))
	}
	defer s.limiter.Release()

	logger.Debug("ingest started")

	raw, err := load(ctx)
	if err != nil {
		return fail(err)
	}

	res, err := pipeline.Run(raw, s.profile)
	if err != nil {
		return fail(err)
	}

	counts := make(map[string]int, len(res.Buckets))
	for _, b := range res.Buckets {
		counts[b.Name] = len(b.Records)
	}
	s.metrics.RecordSuccess(source, time.Since(start), res.TotalRows, res.Unmatched, counts)

	logger.Info("ingest completed",
		"rows", res.TotalRows,
		"unmatched", res.Unmatched,
		"buckets", counts,
		"duration", time.Since(start),
	)
	return res, nil
}
