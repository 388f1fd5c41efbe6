// Package logger constructs the zap.Logger every binary in this module
// shares, matching the teacher's pkg/logger.NewLogger call shape used
// throughout its cmd/ and hack/ entrypoints.
package logger

import "go.uber.org/zap"

// LoggerConfig selects between the production and development zap
// presets, mirroring the teacher's single Debug toggle.
type LoggerConfig struct {
	Debug bool
}

// NewLogger builds a *zap.Logger: development config (console encoder,
// debug level) when cfg.Debug is set, production config (JSON encoder,
// info level) otherwise.
func NewLogger(cfg *LoggerConfig) (*zap.Logger, error) {
	if cfg != nil && cfg.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
