package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routedecor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "echo", cfg.Server.Adapter)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, StrategyContainer, cfg.Controllers.Strategy)
	assert.Equal(t, "demo/container/**", cfg.Controllers.ControllerExpression())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  adapter: fiber
  host: 127.0.0.1
  port: 9000
  prefix: /api
controllers:
  expression: "app/controllers/**"
  strategy: direct
log:
  level: debug
  development: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fiber", cfg.Server.Adapter)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, "/api", cfg.Server.Prefix)
	assert.Equal(t, "app/controllers/**", cfg.Controllers.ControllerExpression())
	assert.Equal(t, StrategyDirect, cfg.Controllers.Strategy)
	assert.True(t, cfg.Log.Development)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  adapter: gin\n  port: 9000\n")
	t.Setenv("ROUTEDECOR_SERVER_PORT", "9100")
	t.Setenv("ROUTEDECOR_CONTROLLERS_STRATEGY", "direct")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gin", cfg.Server.Adapter)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "demo/direct/**", cfg.Controllers.ControllerExpression())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "adapter", body: "server:\n  adapter: chi\n", message: "Config.Server.Adapter failed on 'oneof'"},
		{name: "port", body: "server:\n  port: 70000\n", message: "Config.Server.Port failed on 'max'"},
		{name: "prefix", body: "server:\n  prefix: api\n", message: "Config.Server.Prefix failed on 'startswith'"},
		{name: "strategy", body: "controllers:\n  strategy: magic\n", message: "Config.Controllers.Strategy failed on 'oneof'"},
		{name: "expression", body: "controllers:\n  expression: \"app/[a-\"\n", message: "Config.Controllers.Expression failed on 'glob'"},
		{name: "log level", body: "log:\n  level: loud\n", message: "Config.Log.Level failed on 'oneof'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
