package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultServer(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	data := []byte("description: Dungeon of Doom\nsend_queue_size: 8\nwrite_timeout: 2s\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Dungeon of Doom", cfg.Description)
	require.Equal(t, 8, cfg.SendQueueSize)
	require.Equal(t, 2*time.Second, cfg.WriteTimeout)
	// Untouched keys keep their defaults
	require.Equal(t, 64, cfg.EventQueueSize)
	require.Equal(t, "maps/", cfg.MapPath)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("description: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestGameDescriptionPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motd.txt")
	require.NoError(t, os.WriteFile(path, []byte("Abandon all hope.\n"), 0o644))

	cfg := DefaultServer()
	cfg.DescriptionFile = path
	desc, err := cfg.GameDescription()
	require.NoError(t, err)
	require.Equal(t, "Abandon all hope.", desc)

	cfg.DescriptionFile = filepath.Join(t.TempDir(), "absent.txt")
	_, err = cfg.GameDescription()
	require.Error(t, err)

	cfg.DescriptionFile = ""
	desc, err = cfg.GameDescription()
	require.NoError(t, err)
	require.Equal(t, "Welcome, adventurer.", desc)
}

func TestMapFile(t *testing.T) {
	cfg := DefaultServer()
	cfg.MapPath = "/srv/lurk/maps/"
	require.Equal(t, "/srv/lurk/maps/5.json", cfg.MapFile(5))

	// Environment wins over the configured prefix
	t.Setenv("MAP_PATH", "/tmp/override/")
	require.Equal(t, "/tmp/override/12.json", cfg.MapFile(12))
}
