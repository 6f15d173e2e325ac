package mls

import (
	"go.uber.org/zap"

	"github.com/agentbase-hq/agentbase-engine/pkg/config"
)

// Mode reports whether a provider was built from real credentials or the
// demo sandbox, so callers can log and branch on it explicitly.
type Mode string

const (
	ModeConfigured Mode = "configured"
	ModeDemo       Mode = "demo"
)

// SimplyRETS public demo sandbox credentials.
const (
	demoAPIKey    = "simplyrets"
	demoAPISecret = "simplyrets"
)

// NewProvider builds the configured MLS provider. When the selected
// provider has no credentials, it falls back to the SimplyRETS demo
// sandbox and reports ModeDemo instead of failing startup.
func NewProvider(cfg *config.MLSConfig, logger *zap.Logger) (Provider, Mode) {
	switch cfg.Provider {
	case "bridge":
		if cfg.Bridge.IsConfigured() {
			return NewBridgeClient(cfg.Bridge.BaseURL, cfg.Bridge.Dataset, cfg.Bridge.ServerToken), ModeConfigured
		}
		logger.Warn("Bridge server token not set, falling back to SimplyRETS demo sandbox")
	default:
		if cfg.SimplyRETS.IsConfigured() {
			return NewSimplyRETSClient(cfg.SimplyRETS.BaseURL, cfg.SimplyRETS.APIKey, cfg.SimplyRETS.APISecret), ModeConfigured
		}
		logger.Warn("SimplyRETS credentials not set, using demo sandbox")
	}

	return NewSimplyRETSClient(cfg.SimplyRETS.BaseURL, demoAPIKey, demoAPISecret), ModeDemo
}
