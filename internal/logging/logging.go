// Package logging centralizes the structured logger every ambient
// component uses in place of the teacher's bare log.Printf/fmt.Printf
// calls (SPEC_FULL.md §7).
package logging

import "go.uber.org/zap"

// New builds the process-wide structured logger. Production builds use
// zap's JSON encoder; callers that want human-readable output during
// development should swap in zap.NewDevelopment themselves.
func New() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// Sync flushes buffered log entries, ignoring the sync-to-console error
// zap returns on some platforms for stdout/stderr.
func Sync(logger *zap.Logger) {
	_ = logger.Sync()
}
