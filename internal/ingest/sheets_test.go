package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/JonMunkholm/landsplit/internal/config"
	"github.com/JonMunkholm/landsplit/internal/table"
)

const testSheetURL = "https://docs.google.com/spreadsheets/d/1AbC_def-42/edit#gid=0"

// fakeSheetsAPI serves the two Sheets endpoints the fetcher calls.
func fakeSheetsAPI(t *testing.T, values [][]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case !strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/1AbC_def-42"):
			http.NotFound(w, r)
		case strings.Contains(r.URL.Path, "/values/"):
			assert.Equal(t, "UNFORMATTED_VALUE", r.URL.Query().Get("valueRenderOption"))
			assert.True(t, strings.HasSuffix(r.URL.Path, "/values/'Survey ''24'"), "range %s", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]any{
				"range":          "'Survey ''24'!A1:Z100",
				"majorDimension": "ROWS",
				"values":         values,
			})
		default:
			json.NewEncoder(w).Encode(map[string]any{
				"spreadsheetId": "1AbC_def-42",
				"sheets": []any{
					map[string]any{"properties": map[string]any{"sheetId": 0, "title": "Survey '24", "index": 0}},
					map[string]any{"properties": map[string]any{"sheetId": 7, "title": "Archive", "index": 1}},
				},
			})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testFetcher(srv *httptest.Server, worksheet int) *SheetsFetcher {
	return NewSheetsFetcher("", worksheet,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
}

func TestSpreadsheetID(t *testing.T) {
	id, err := SpreadsheetID(testSheetURL)
	require.NoError(t, err)
	assert.Equal(t, "1AbC_def-42", id)

	_, err = SpreadsheetID("https://example.com/not-a-sheet")
	assert.Error(t, err)
}

func TestSheetsFetcher_Fetch(t *testing.T) {
	srv := fakeSheetsAPI(t, [][]any{
		{" State ", "Village", "Survey Number"},
		{"Karnataka ", "Hosur", 12},
		{"Maharashtra", "Nashik"},
		{},
	})

	tbl, err := testFetcher(srv, 0).Fetch(context.Background(), testSheetURL)
	require.NoError(t, err)

	assert.Equal(t, []string{" State ", "Village", "Survey Number"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, table.Row{"Karnataka ", "Hosur", 12.0}, tbl.Rows[0])
	assert.Equal(t, table.Row{"Maharashtra", "Nashik", nil}, tbl.Rows[1])
}

func TestSheetsFetcher_WorksheetOutOfRange(t *testing.T) {
	srv := fakeSheetsAPI(t, nil)

	_, err := testFetcher(srv, 5).Fetch(context.Background(), testSheetURL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAdapterFailure))
	assert.Contains(t, err.Error(), "worksheet index 5 not found")
}

func TestSheetsFetcher_BadURL(t *testing.T) {
	_, err := NewSheetsFetcher("/creds.json", 0).Fetch(context.Background(), "not a url")

	var ae *AdapterError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "parse url", ae.Op)
	assert.ErrorIs(t, err, ErrAdapterFailure)
}

func TestSheetsFetcher_NoCredentials(t *testing.T) {
	_, err := NewSheetsFetcher("", 0).Fetch(context.Background(), testSheetURL)
	assert.ErrorIs(t, err, ErrNoCredentials)
	assert.ErrorIs(t, err, ErrAdapterFailure)
}

func TestSheetsFetcher_RemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`))
	}))
	defer srv.Close()

	_, err := testFetcher(srv, 0).Fetch(context.Background(), testSheetURL)

	var ae *AdapterError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "open", ae.Op)
	assert.Contains(t, err.Error(), "permission")
}

func TestQuoteSheetTitle(t *testing.T) {
	assert.Equal(t, "'Sheet1'", quoteSheetTitle("Sheet1"))
	assert.Equal(t, "'Survey ''24'", quoteSheetTitle("Survey '24"))
}

func TestFetcherFromConfig(t *testing.T) {
	f := FetcherFromConfig(config.SheetsConfig{}, 2)
	assert.Equal(t, 2, f.worksheet)
	assert.Empty(t, f.opts)

	f = FetcherFromConfig(config.SheetsConfig{CredentialsFile: "/creds.json", Endpoint: "http://localhost:9/"}, 0)
	assert.Len(t, f.opts, 3)
}
