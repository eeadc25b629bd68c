package common

import (
	"sync"

	"github.com/rs/zerolog"
)

// Stage names the pipeline step a diagnostic was raised in
type Stage string

const (
	StageResolve   Stage = "resolve"
	StageVideos    Stage = "videos"
	StagePlaylists Stage = "playlists"
	StageChannels  Stage = "channels"
)

// Diagnostic is one recovered failure
type Diagnostic struct {
	Stage      Stage  `json:"stage"`
	Identifier string `json:"identifier"`
	Cause      error  `json:"-"`
	Status     int    `json:"status,omitempty"` // HTTP status of a provider failure
}

// Diagnostics collects recovered failures from concurrent branches and logs each one.
// The zero value is ready to use.
type Diagnostics struct {
	mu      sync.Mutex
	entries []Diagnostic
	logger  *zerolog.Logger
}

// NewDiagnostics returns a collector that also logs every record to logger.
func NewDiagnostics(logger zerolog.Logger) *Diagnostics {
	return &Diagnostics{logger: &logger}
}

// Record stores a failure. A nil cause is ignored.
func (d *Diagnostics) Record(stage Stage, identifier string, cause error) {
	if d == nil || cause == nil {
		return
	}

	status := StatusCode(cause)

	d.mu.Lock()
	d.entries = append(d.entries, Diagnostic{Stage: stage, Identifier: identifier, Cause: cause, Status: status})
	d.mu.Unlock()

	if d.logger != nil {
		event := d.logger.Warn().
			Err(cause).
			Str("stage", string(stage)).
			Str("identifier", identifier)
		if status != 0 {
			event = event.Int("status", status)
		}
		event.Msg("Skipped entry")
	}
}

// Entries returns a copy of the recorded failures in recording order.
func (d *Diagnostics) Entries() []Diagnostic {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Diagnostic, len(d.entries))
	copy(out, d.entries)
	return out
}
