package mls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agentbase-hq/agentbase-engine/pkg/config"
)

func TestNewProvider_ConfiguredSimplyRETS(t *testing.T) {
	cfg := &config.MLSConfig{Provider: "simplyrets"}
	cfg.SimplyRETS.BaseURL = "https://api.simplyrets.com"
	cfg.SimplyRETS.APIKey = "real-key"
	cfg.SimplyRETS.APISecret = "real-secret"

	provider, mode := NewProvider(cfg, zap.NewNop())

	require.NotNil(t, provider)
	assert.Equal(t, ModeConfigured, mode)
	assert.Equal(t, "simplyrets", provider.Name())
}

func TestNewProvider_ConfiguredBridge(t *testing.T) {
	cfg := &config.MLSConfig{Provider: "bridge"}
	cfg.Bridge.BaseURL = "https://api.bridgedataoutput.com/api/v2/OData"
	cfg.Bridge.Dataset = "actris"
	cfg.Bridge.ServerToken = "token"

	provider, mode := NewProvider(cfg, zap.NewNop())

	require.NotNil(t, provider)
	assert.Equal(t, ModeConfigured, mode)
	assert.Equal(t, "bridge", provider.Name())
}

func TestNewProvider_DemoFallback(t *testing.T) {
	cfg := &config.MLSConfig{Provider: "simplyrets"}
	cfg.SimplyRETS.BaseURL = "https://api.simplyrets.com"

	provider, mode := NewProvider(cfg, zap.NewNop())

	require.NotNil(t, provider)
	assert.Equal(t, ModeDemo, mode)
	assert.Equal(t, "simplyrets", provider.Name())
}

func TestNewProvider_BridgeWithoutTokenFallsBackToDemo(t *testing.T) {
	cfg := &config.MLSConfig{Provider: "bridge"}
	cfg.SimplyRETS.BaseURL = "https://api.simplyrets.com"

	provider, mode := NewProvider(cfg, zap.NewNop())

	require.NotNil(t, provider)
	assert.Equal(t, ModeDemo, mode)
	assert.Equal(t, "simplyrets", provider.Name())
}
