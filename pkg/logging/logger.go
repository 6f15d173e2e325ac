// Package logging provides the zap logger construction and log sanitization
// helpers used across agentbase-engine.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the service logger for the given environment.
// Production environments get JSON output at info level; everything else
// gets human-readable development output at debug level.
func New(env string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)

	switch env {
	case "production", "staging":
		logger, err = zap.NewProduction()
	default:
		cfg := zap.NewDevelopmentConfig()
		logger, err = cfg.Build()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger.With(zap.String("service", "agentbase-engine")), nil
}
