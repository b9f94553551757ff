package notification

import (
	"github.com/rs/zerolog"

	"github.com/Veraticus/shopfront/pkg/interfaces"
)

// LogReporter writes lifecycle transitions to a logger at debug level.
type LogReporter struct {
	log zerolog.Logger
}

// NewLogReporter creates a reporter writing to log.
func NewLogReporter(log zerolog.Logger) *LogReporter {
	return &LogReporter{log: log}
}

// ReportPhase implements interfaces.PhaseReporter
func (r *LogReporter) ReportPhase(id, kind, phase string) {
	r.log.Debug().
		Str("id", id).
		Str("kind", kind).
		Str("phase", phase).
		Msg("toast transition")
}

// Ensure LogReporter implements PhaseReporter
var _ interfaces.PhaseReporter = (*LogReporter)(nil)
