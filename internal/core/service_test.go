package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/landsplit/internal/config"
	"github.com/JonMunkholm/landsplit/internal/ingest"
	"github.com/JonMunkholm/landsplit/internal/pipeline"
	"github.com/JonMunkholm/landsplit/internal/table"
)

type stubFetcher struct {
	tbl  *table.Table
	err  error
	urls []string
}

func (f *stubFetcher) Fetch(_ context.Context, sheetURL string) (*table.Table, error) {
	f.urls = append(f.urls, sheetURL)
	if f.err != nil {
		return nil, f.err
	}
	return f.tbl, nil
}

func surveyTable() *table.Table {
	return table.FromRecords([][]any{
		{" State ", "Village"},
		{"Karnataka ", "Hosur"},
		{"Maharashtra", "Nashik"},
		{"Gujarat", "Sayan"},
	})
}

func TestService_ReadSheet(t *testing.T) {
	fetcher := &stubFetcher{tbl: surveyTable()}
	metrics := NewMetrics("test", nil)
	svc := NewService(config.DefaultProfile(), fetcher, WithMetrics(metrics))

	res, err := svc.ReadSheet(context.Background(), "https://docs.google.com/spreadsheets/d/abc/edit")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://docs.google.com/spreadsheets/d/abc/edit"}, fetcher.urls)
	assert.Equal(t, 3, res.TotalRows)
	assert.Equal(t, 1, res.Unmatched)

	ktk, ok := res.Bucket("karnataka")
	require.True(t, ok)
	require.Len(t, ktk, 1)
	v, _ := ktk[0].Get("village")
	assert.Equal(t, "Hosur", v)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ingestsTotal.WithLabelValues(SourceSheet, OutcomeSuccess, codeNone)))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.rowsTotal.WithLabelValues(SourceSheet)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.unmatchedRows.WithLabelValues(SourceSheet)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.bucketRows.WithLabelValues("mp_maha")))
	assert.Equal(t, 0, svc.Limiter().ActiveCount(), "slot released")
}

func TestService_ReadSheetErrors(t *testing.T) {
	t.Run("missing url", func(t *testing.T) {
		svc := NewService(config.DefaultProfile(), &stubFetcher{})
		_, err := svc.ReadSheet(context.Background(), "")
		assert.ErrorIs(t, err, ErrNoSheetURL)
		assert.Equal(t, "REQ001", MapError(err).Code)
	})

	t.Run("adapter failure", func(t *testing.T) {
		metrics := NewMetrics("test", nil)
		fetcher := &stubFetcher{err: &ingest.AdapterError{Op: "open", Err: errors.New("googleapi: Error 404")}}
		svc := NewService(config.DefaultProfile(), fetcher, WithMetrics(metrics))

		_, err := svc.ReadSheet(context.Background(), "https://docs.google.com/spreadsheets/d/abc")
		assert.ErrorIs(t, err, ingest.ErrAdapterFailure)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ingestsTotal.WithLabelValues(SourceSheet, OutcomeError, "ING001")))
	})

	t.Run("no fetcher configured", func(t *testing.T) {
		svc := NewService(config.DefaultProfile(), nil)
		_, err := svc.ReadSheet(context.Background(), "https://docs.google.com/spreadsheets/d/abc")
		assert.ErrorIs(t, err, ingest.ErrNoCredentials)
		assert.ErrorIs(t, err, ingest.ErrAdapterFailure)
	})

	t.Run("missing classification column", func(t *testing.T) {
		fetcher := &stubFetcher{tbl: table.FromRecords([][]any{{"Village"}, {"Hosur"}})}
		svc := NewService(config.DefaultProfile(), fetcher)

		_, err := svc.ReadSheet(context.Background(), "https://docs.google.com/spreadsheets/d/abc")
		var mce *pipeline.MissingColumnError
		require.ErrorAs(t, err, &mce)
		assert.Equal(t, "state", mce.Column)
	})
}

func TestService_ProcessUpload(t *testing.T) {
	svc := NewService(config.DefaultProfile(), nil)

	res, err := svc.ProcessUpload(context.Background(), Upload{
		Filename: "survey.csv",
		Data:     []byte("State,Village\nMadhya Pradesh,Manpur\nKarnataka,Hosur\n"),
	})
	require.NoError(t, err)

	mh, ok := res.Bucket("mp_maha")
	require.True(t, ok)
	require.Len(t, mh, 1)
	s, _ := mh[0].Get("state")
	assert.Equal(t, "madhya pradesh", s)
}

func TestService_ProcessUploadErrors(t *testing.T) {
	svc := NewService(config.DefaultProfile(), nil)

	_, err := svc.ProcessUpload(context.Background(), Upload{Filename: "x.csv"})
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = svc.ProcessUpload(context.Background(), Upload{Filename: "scan.pdf", Data: []byte("%PDF-1.7")})
	assert.ErrorIs(t, err, ingest.ErrMalformedUpload)
	assert.Equal(t, "ING002", MapError(err).Code)

	_, err = svc.ProcessUpload(context.Background(), Upload{Filename: "x.csv", Data: []byte("Village\nHosur\n")})
	assert.Equal(t, "VAL004", MapError(err).Code)
}

func TestService_Busy(t *testing.T) {
	limiter := NewIngestLimiter(1, 20*time.Millisecond)
	require.True(t, limiter.TryAcquire())
	defer limiter.Release()

	svc := NewService(config.DefaultProfile(), &stubFetcher{tbl: surveyTable()}, WithLimiter(limiter))

	_, err := svc.ReadSheet(context.Background(), "https://docs.google.com/spreadsheets/d/abc")
	assert.ErrorIs(t, err, ErrTooManyIngests)
	assert.Equal(t, "UPL002", MapError(err).Code)
}

func TestService_UsesContextIngestID(t *testing.T) {
	ctx := ContextWithIngestID(context.Background(), "fixed-id")
	assert.Equal(t, "fixed-id", GetIngestIDFromContext(ctx))
	assert.Equal(t, "", GetIngestIDFromContext(context.Background()))

	ctx = ContextWithIPAddress(ctx, "10.0.0.1")
	assert.Equal(t, "10.0.0.1", GetIPAddressFromContext(ctx))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("", func() float64 { return 2 })
	m.RecordFailure(SourceUpload, time.Millisecond, ErrNoFile)

	n, err := testutil.GatherAndCount(m.Registry(), "landsplit_ingests_total", "landsplit_active_ingests")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.NotNil(t, m.Handler())

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.RecordSuccess(SourceSheet, time.Second, 1, 0, nil)
		nilMetrics.RecordFailure(SourceSheet, time.Second, ErrNoFile)
	})
}
