// Package timeouts provides centralized timeout values for handler
// operations. Handlers wrap store calls in context.WithTimeout using these
// tiers; the workflow core itself has no timeout semantics of its own.
//
// Guidelines for choosing a tier:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads or lookups
//   - Medium: list queries, single-document writes
//   - Long: writes that touch more than one collection
package timeouts

import "time"

const (
	Ping   = 2 * time.Second
	Short  = 5 * time.Second
	Medium = 10 * time.Second
	Long   = 30 * time.Second
)
