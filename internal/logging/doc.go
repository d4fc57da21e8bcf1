// Package logging wraps log/slog with the handlers and attribute helpers
// used across the scribe daemon: a human-oriented console handler, a JSON
// handler for machine consumption, and stable field-name constants.
package logging
