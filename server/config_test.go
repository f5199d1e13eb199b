package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", config.ListenAddr())
	assert.Equal(t, "info", config.Server.LogLevel)
	assert.Equal(t, 45, config.Server.TurnTimeoutSeconds)
	assert.Empty(t, config.Bots)
}

func TestLoadConfigFile(t *testing.T) {
	content := `
server {
  address              = "0.0.0.0"
  port                 = 9090
  log_level            = "debug"
  turn_timeout_seconds = 20
}

bot "east" {
  strategy = "random"
}

bot "west" {
  name = "walter"
}
`
	path := filepath.Join(t.TempDir(), "server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", config.ListenAddr())
	assert.Equal(t, "debug", config.Server.LogLevel)
	assert.Equal(t, 20, config.Server.TurnTimeoutSeconds)

	require.Len(t, config.Bots, 2)
	assert.Equal(t, "east", config.Bots[0].Seat)
	assert.Equal(t, "random", config.Bots[0].Strategy)
	assert.Equal(t, "random-east", config.Bots[0].Name)
	assert.Equal(t, "walter", config.Bots[1].Name)
	assert.Equal(t, "basic", config.Bots[1].Strategy, "strategy defaults to basic")
}

func TestLoadConfigRejectsBadSeat(t *testing.T) {
	content := `
bot "northeast" {
  strategy = "basic"
}
`
	path := filepath.Join(t.TempDir(), "server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
