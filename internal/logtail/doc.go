// Package logtail reads the end of Shelf's own log file for the in-app
// diagnostics view.
//
// Read keeps a ring buffer of the last N lines so large files never sit in
// memory whole. Parse understands the key=value format written by
// slog.TextHandler and falls back to treating the line as free text.
package logtail
