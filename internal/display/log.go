package display

import "log/slog"

// Ensure LogObserver implements Observer.
var _ Observer = (*LogObserver)(nil)

// LogObserver writes every region transition to a logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver returns an observer that logs region changes via slog.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// RegionChanged logs the form, sequence and which parts of the region are shown.
// Result HTML is logged by length only.
func (o *LogObserver) RegionChanged(s Snapshot) {
	args := []any{"form", s.Form, "seq", s.Seq, "loading", s.Loading}
	switch {
	case s.HasError():
		args = append(args, "error", s.Error)
		o.logger.Warn("result region error", args...)
	case s.HasResult():
		args = append(args, "content_bytes", len(s.Content))
		o.logger.Info("result region updated", args...)
	default:
		o.logger.Debug("result region changed", args...)
	}
}
