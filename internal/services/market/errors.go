package market

import (
	"fmt"
	"strings"
)

// SchemaMismatchError reports a source table whose columns could not be
// mapped to the canonical quote schema. The cascade driver treats it as a
// fall-through signal, identically to a transport failure.
type SchemaMismatchError struct {
	Source  string
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("source %s: no column matched required field(s): %s", e.Source, strings.Join(e.Missing, ", "))
}

// SourceAttempt records one failed cascade attempt for diagnostics.
type SourceAttempt struct {
	Source string
	Err    error
}

// DataUnavailableError is returned when every configured source has been
// exhausted. It carries the per-source failures so the last underlying
// error is available for diagnostics.
type DataUnavailableError struct {
	Attempts []SourceAttempt
}

func (e *DataUnavailableError) Error() string {
	if len(e.Attempts) == 0 {
		return "market data unavailable: no sources configured"
	}
	last := e.Attempts[len(e.Attempts)-1]
	return fmt.Sprintf("market data unavailable after %d source(s); last failure (%s): %v",
		len(e.Attempts), last.Source, last.Err)
}

// Unwrap exposes the last underlying error.
func (e *DataUnavailableError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}
