package ingest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/JonMunkholm/landsplit/internal/config"
	"github.com/JonMunkholm/landsplit/internal/table"
)

// spreadsheetIDPattern extracts the document key from a Sheets URL such as
// https://docs.google.com/spreadsheets/d/<id>/edit#gid=0
var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// ErrNoCredentials is returned when no service-account file is configured.
var ErrNoCredentials = errors.New("service account credentials are not configured")

// SheetsFetcher reads one worksheet of a Google Sheets document as a table.
// A new API client is built per call so requests share no state.
type SheetsFetcher struct {
	worksheet int
	opts      []option.ClientOption
}

// NewSheetsFetcher returns a fetcher authenticating with the service-account
// file at credentialsFile under the read-only spreadsheets scope. Extra
// options are appended after the credentials, which lets tests point the
// client at a fake endpoint.
func NewSheetsFetcher(credentialsFile string, worksheetIndex int, extra ...option.ClientOption) *SheetsFetcher {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts,
			option.WithCredentialsFile(credentialsFile),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope),
		)
	}
	opts = append(opts, extra...)
	return &SheetsFetcher{worksheet: worksheetIndex, opts: opts}
}

// FetcherFromConfig builds the fetcher used by the server and CLI.
func FetcherFromConfig(cfg config.SheetsConfig, worksheetIndex int) *SheetsFetcher {
	var extra []option.ClientOption
	if cfg.Endpoint != "" {
		extra = append(extra, option.WithEndpoint(cfg.Endpoint))
	}
	return NewSheetsFetcher(cfg.CredentialsFile, worksheetIndex, extra...)
}

// SpreadsheetID extracts the document ID from a spreadsheet URL.
func SpreadsheetID(sheetURL string) (string, error) {
	m := spreadsheetIDPattern.FindStringSubmatch(sheetURL)
	if m == nil {
		return "", fmt.Errorf("%q is not a spreadsheet url", sheetURL)
	}
	return m[1], nil
}

// Fetch opens the spreadsheet at sheetURL, selects the configured worksheet by
// position, and returns its values with the first row as the header. Values
// are read unformatted so numbers arrive as numbers.
func (f *SheetsFetcher) Fetch(ctx context.Context, sheetURL string) (*table.Table, error) {
	id, err := SpreadsheetID(sheetURL)
	if err != nil {
		return nil, &AdapterError{Op: "parse url", Err: err}
	}

	if len(f.opts) == 0 {
		return nil, &AdapterError{Op: "authorize", Err: ErrNoCredentials}
	}

	srv, err := sheets.NewService(ctx, f.opts...)
	if err != nil {
		return nil, &AdapterError{Op: "authorize", Err: err}
	}

	doc, err := srv.Spreadsheets.Get(id).
		Fields("sheets.properties(sheetId,title,index)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &AdapterError{Op: "open", Err: err}
	}

	title, err := worksheetTitle(doc, f.worksheet)
	if err != nil {
		return nil, &AdapterError{Op: "open", Err: err}
	}

	vr, err := srv.Spreadsheets.Values.Get(id, quoteSheetTitle(title)).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &AdapterError{Op: "read", Err: err}
	}

	return table.FromRecords(vr.Values), nil
}

// worksheetTitle returns the title of the worksheet at position index.
func worksheetTitle(doc *sheets.Spreadsheet, index int) (string, error) {
	for _, s := range doc.Sheets {
		if s.Properties != nil && int(s.Properties.Index) == index {
			return s.Properties.Title, nil
		}
	}
	return "", fmt.Errorf("worksheet index %d not found (spreadsheet has %d worksheets)", index, len(doc.Sheets))
}

// quoteSheetTitle renders a title as an A1 range covering the whole sheet.
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
