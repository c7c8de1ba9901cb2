// Error codes for the ingestion service.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Every failed request returns the raw error text as "detail" and the code
// below as "code", so callers can quote the code when asking for help.
//
// # Ingestion Errors (ING001-ING099)
//
//	ING001 - Sheet unreadable: The spreadsheet could not be fetched
//	         Action: Share the sheet with the service account and check the URL
//	         Patterns: "spreadsheet fetch failed"
//
//	ING002 - Malformed upload: The uploaded file is not a readable spreadsheet
//	         Action: Upload an .xlsx workbook or a .csv file
//	         Patterns: "malformed upload"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL004 - Missing column: Required column is missing from the sheet
//	         Action: Add the classification column (for example "State")
//	         Patterns: "missing required column"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the upload size limit
//	          Patterns: "file too large", "request body too large"
//
//	FILE004 - No file: No file was provided
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Patterns: "empty file"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many ingests in progress
//	         Patterns: "too many concurrent ingests"
//
//	UPL004 - Request cancelled
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Missing sheet URL: the sheet_url query parameter is required
//	         Patterns: "sheet_url is required"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// # Pattern Matching
//
// Known error kinds (typed errors and sentinels) are matched first with
// errors.Is and errors.As, so text inside a wrapped cause such as a sheet
// URL never changes the code. Anything else falls back to the pattern
// table, matched case-insensitively using strings.Contains. The first
// matching pattern wins, so more specific patterns are listed before
// general ones.

package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/landsplit/internal/ingest"
	"github.com/JonMunkholm/landsplit/internal/pipeline"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: the first match wins.
var errorPatterns = []errorPattern{
	// File errors come first; they are the most specific.
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the upload size limit",
			Action:  "Remove unused worksheets or split the file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the upload size limit",
			Action:  "Remove unused worksheets or split the file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was provided",
			Action:  "Attach an .xlsx or .csv file in the \"file\" form field",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a spreadsheet with a header row and data rows",
			Code:    "FILE005",
		},
	},

	// Validation
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "Required column is missing from the sheet",
			Action:  "Add the classification column (for example \"State\") to the header row",
			Code:    "VAL004",
		},
	},

	// Ingestion
	{
		pattern: "spreadsheet fetch failed",
		msg: UserMessage{
			Message: "The spreadsheet could not be read",
			Action:  "Check the URL and share the sheet with the service account",
			Code:    "ING001",
		},
	},
	{
		pattern: "malformed upload",
		msg: UserMessage{
			Message: "The uploaded file is not a readable spreadsheet",
			Action:  "Upload an .xlsx workbook or a .csv file",
			Code:    "ING002",
		},
	},

	// Request
	{
		pattern: "sheet_url is required",
		msg: UserMessage{
			Message: "No sheet URL was provided",
			Action:  "Pass the Google Sheets link as the sheet_url query parameter",
			Code:    "REQ001",
		},
	},

	// Upload process
	{
		pattern: "too many concurrent ingests",
		msg: UserMessage{
			Message: "System is busy processing other sheets",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller sheet or try again later",
			Code:    "UPL005",
		},
	},

	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// errorKind maps a typed error or sentinel to the code of its user message.
type errorKind struct {
	match func(error) bool
	code  string
}

func isErr(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

// errorKinds is checked before errorPatterns, in order. An empty upload is
// also malformed, so FILE005 precedes ING002; an adapter failure caused by a
// timeout is still reported as a fetch failure.
var errorKinds = []errorKind{
	{match: func(err error) bool {
		var mbe *http.MaxBytesError
		return errors.As(err, &mbe)
	}, code: "FILE001"},
	{match: isErr(ErrNoFile), code: "FILE004"},
	{match: isErr(ingest.ErrEmptyFile), code: "FILE005"},
	{match: func(err error) bool {
		var mce *pipeline.MissingColumnError
		return errors.As(err, &mce)
	}, code: "VAL004"},
	{match: isErr(ingest.ErrAdapterFailure), code: "ING001"},
	{match: isErr(ingest.ErrMalformedUpload), code: "ING002"},
	{match: isErr(ErrNoSheetURL), code: "REQ001"},
	{match: isErr(ErrTooManyIngests), code: "UPL002"},
	{match: isErr(context.Canceled), code: "UPL004"},
	{match: isErr(context.DeadlineExceeded), code: "UPL005"},
}

// messageForCode returns the pattern table's message for code.
func messageForCode(code string) (UserMessage, bool) {
	for _, ep := range errorPatterns {
		if ep.msg.Code == code {
			return ep.msg, true
		}
	}
	return UserMessage{}, false
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the message of the first matching error kind, then of the first
// matching pattern, or ERR000 when nothing matches.
//
// Example:
//
//	err := errors.New(`missing required column "state"`)
//	msg := MapError(err)
//	// msg.Code == "VAL004"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, k := range errorKinds {
		if k.match(err) {
			if msg, ok := messageForCode(k.code); ok {
				return msg
			}
		}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
