package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Server holds all configuration for the game server.
type Server struct {
	// Greeting shown in the GAME frame. When DescriptionFile is set it
	// wins over the inline text.
	Description     string `yaml:"description"`
	DescriptionFile string `yaml:"description_file"`

	// World
	MapPath string `yaml:"map_path"`

	// Write queue / timeouts
	WriteTimeout  time.Duration `yaml:"write_timeout"`   // per-write deadline (default: 5s)
	SendQueueSize int           `yaml:"send_queue_size"` // per-client outbox capacity (default: 256)

	// Game loop
	EventQueueSize int `yaml:"event_queue_size"` // fan-in queue capacity (default: 64)
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		Description:    "Welcome, adventurer.",
		MapPath:        "maps/",
		WriteTimeout:   5 * time.Second,
		SendQueueSize:  256,
		EventQueueSize: 64,
	}
}

// Load loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// GameDescription resolves the greeting text, preferring the file.
func (s Server) GameDescription() (string, error) {
	if s.DescriptionFile == "" {
		return s.Description, nil
	}
	data, err := os.ReadFile(s.DescriptionFile)
	if err != nil {
		return "", fmt.Errorf("reading description %s: %w", s.DescriptionFile, err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// MapFile returns the path of numbered map n. The MAP_PATH environment
// variable overrides the configured prefix; the number and ".json" are
// appended to it as-is.
func (s Server) MapFile(n int) string {
	prefix := os.Getenv("MAP_PATH")
	if prefix == "" {
		prefix = s.MapPath
	}
	return fmt.Sprintf("%s%d.json", prefix, n)
}
