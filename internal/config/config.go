package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Defaults applied before the config file and environment are consulted.
const (
	DefaultPort      = 7200
	DefaultRoot      = "/withings"
	DefaultLogFile   = "/var/log/file_server.log"
	DefaultBindAddr  = "0.0.0.0"
	DefaultChunkSize = 1024 * 1024
	DefaultBasePath  = "/wt"
)

// Config is the resolved process configuration. It is immutable after Load
// and shared read-only by all request handlers.
type Config struct {
	Port      int    `toml:"port"`
	Root      string `toml:"serve_directory"`
	LogFile   string `toml:"log_file"`
	BindAddr  string `toml:"bind_address"`
	ChunkSize int    `toml:"chunk_size"`
	BasePath  string `toml:"base_path"`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Port:      DefaultPort,
		Root:      DefaultRoot,
		LogFile:   DefaultLogFile,
		BindAddr:  DefaultBindAddr,
		ChunkSize: DefaultChunkSize,
		BasePath:  DefaultBasePath,
	}
}

// Load resolves the configuration in increasing precedence: built-in
// defaults, the optional TOML file at configFilePath, then environment
// variables (SERVER_PORT, SERVE_DIRECTORY, LOG_FILE, BIND_ADDRESS,
// BUFFER_SIZE, BASE_PATH). A .env file in the working directory is loaded
// into the environment first, if present.
func Load(configFilePath string) (*Config, error) {
	cfg := Default()

	if configFilePath != "" {
		if _, err := toml.DecodeFile(configFilePath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFilePath, err)
		}
	}

	// A missing .env is the normal case, not an error.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve serve directory %s: %w", cfg.Root, err)
	}
	cfg.Root = absRoot

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT %q: %w", v, err)
		}
		c.Port = p
	}
	if v := os.Getenv("SERVE_DIRECTORY"); v != "" {
		c.Root = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("BIND_ADDRESS"); v != "" {
		c.BindAddr = v
	}
	if v := os.Getenv("BUFFER_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BUFFER_SIZE %q: %w", v, err)
		}
		c.ChunkSize = n
	}
	if v := os.Getenv("BASE_PATH"); v != "" {
		c.BasePath = v
	}
	return nil
}

// Validate checks invariants that must hold before the server starts.
// Existence of the serve directory is checked separately when the listener
// is constructed, so a bad root still prevents the socket from binding.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range [1, 65535]", c.Port)
	}
	if c.Root == "" {
		return fmt.Errorf("serve directory must not be empty")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.BasePath != "" {
		if !strings.HasPrefix(c.BasePath, "/") {
			return fmt.Errorf("base path %q must start with /", c.BasePath)
		}
		if strings.HasSuffix(c.BasePath, "/") {
			return fmt.Errorf("base path %q must not end with /", c.BasePath)
		}
	}
	return nil
}

// Addr returns the host:port the listener binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.BindAddr, strconv.Itoa(c.Port))
}
