package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad(t *testing.T) {
	t.Run("Reads values from the yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		content := []byte(`
log-level: "debug"
http-port: "9090"
public-url: "https://santase.example"

limits:
  room-connections: 2
  max-body-bytes: 512

lifetimes:
  room-ttl: 1h
`)
		require.NoError(t, os.WriteFile(path, content, 0o600))

		conf := MustLoad(path)

		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "https://santase.example", conf.PublicURL)
		assert.Equal(t, 2, conf.Limits.RoomConnections)
		assert.Equal(t, int64(512), conf.Limits.MaxBodyBytes)
		assert.Equal(t, time.Hour, conf.Lifetimes.RoomTTL)
	})

	t.Run("Falls back to defaults for omitted fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("log-level: \"info\"\n"), 0o600))

		conf := MustLoad(path)

		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, 4, conf.Limits.RoomConnections)
		assert.Equal(t, 30*time.Minute, conf.Lifetimes.IdleTTL)
		assert.Equal(t, 30*time.Second, conf.Lifetimes.PingInterval)
	})

	t.Run("Panics on a missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "nope.yml"))
		})
	})
}
