// Package core provides the ingestion service behind the HTTP and CLI
// surfaces.
//
// It contains no transport code. Web handlers, the CLI, and tests all drive
// the same [Service].
//
// # Architecture
//
//   - Adapters: a [SheetFetcher] reads a remote spreadsheet; uploads are
//     decoded by the ingest package.
//   - Service: [Service.ReadSheet] and [Service.ProcessUpload] load a table,
//     hand it to pipeline.Run with the configured profile, and return the
//     ordered bucket result.
//   - Limiter: [IngestLimiter] caps how many workbooks are held in memory at
//     once.
//   - Metrics: [Metrics] counts ingestions, rows per bucket and unmatched rows.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - ING001-ING002: Ingestion errors (remote sheet, malformed upload)
//   - VAL004: Missing classification column
//   - FILE001-FILE005: File errors (size, missing, empty)
//   - UPL002-UPL005: Busy limiter, cancelled or timed-out requests
//
// Every ingestion gets an ID (a UUID unless the caller supplied one through
// [ContextWithIngestID]) that appears on each log line for that request.
package core
