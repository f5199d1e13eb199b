package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"fivehundred/game"
)

// Config is the complete server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Bots   []BotSeat      `hcl:"bot,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address            string `hcl:"address,optional"`
	Port               int    `hcl:"port,optional"`
	LogLevel           string `hcl:"log_level,optional"`
	StaticDir          string `hcl:"static_dir,optional"`
	TurnTimeoutSeconds int    `hcl:"turn_timeout_seconds,optional"`
}

// BotSeat fills one seat with a computer player
type BotSeat struct {
	Seat     string `hcl:"seat,label"` // "north", "east", "south", "west"
	Name     string `hcl:"name,optional"`
	Strategy string `hcl:"strategy,optional"` // "random" or "basic"
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:            "localhost",
			Port:               8080,
			LogLevel:           "info",
			StaticDir:          "static",
			TurnTimeoutSeconds: 45,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config: %s", diags.Error())
	}

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.StaticDir == "" {
		config.Server.StaticDir = "static"
	}
	if config.Server.TurnTimeoutSeconds == 0 {
		config.Server.TurnTimeoutSeconds = 45
	}

	for i := range config.Bots {
		if _, ok := game.ParsePosition(config.Bots[i].Seat); !ok {
			return nil, fmt.Errorf("bot block has unknown seat %q", config.Bots[i].Seat)
		}
		if config.Bots[i].Strategy == "" {
			config.Bots[i].Strategy = "basic"
		}
		if config.Bots[i].Name == "" {
			config.Bots[i].Name = config.Bots[i].Strategy + "-" + config.Bots[i].Seat
		}
	}

	return &config, nil
}

// ListenAddr returns the address:port the server binds to
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
