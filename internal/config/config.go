// Package config handles the configuration directory, the optional config
// file, and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "todolist"

	// ConfigFile is the optional TOML configuration filename.
	ConfigFile = "config.toml"

	// OAuthClientFile is the OAuth client credentials filename (googletasks backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename (googletasks backend).
	TokenFile = "token.json"
)

// Backend names.
const (
	BackendAppwrite    = "appwrite"
	BackendGoogleTasks = "googletasks"
	BackendPostgres    = "postgres"
	BackendMemory      = "memory"
)

const (
	defaultEndpoint       = "https://cloud.appwrite.io/v1"
	defaultListen         = "localhost:8080"
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
	defaultRequestTimeout = 10 * time.Second
)

// Environment variables. The Appwrite names follow the original deployment.
const (
	EnvEndpoint       = "APPWRITE_ENDPOINT"
	EnvProjectID      = "APPWRITE_PROJECT_ID"
	EnvAPIKey         = "APPWRITE_API_KEY"
	EnvDatabaseID     = "APPWRITE_DATABASE_ID"
	EnvCollectionID   = "APPWRITE_COLLECTION_ID"
	EnvBackend        = "TODOLIST_BACKEND"
	EnvPostgresDSN    = "TODOLIST_POSTGRES_DSN"
	EnvListen         = "TODOLIST_LISTEN"
	EnvLogLevel       = "TODOLIST_LOG_LEVEL"
	EnvLogFormat      = "TODOLIST_LOG_FORMAT"
	EnvRequestTimeout = "TODOLIST_REQUEST_TIMEOUT"
)

var (
	ErrUnknownBackend       = errors.New("unknown backend")
	ErrEndpointInvalid      = errors.New("appwrite endpoint is invalid")
	ErrPostgresDSNMissing   = errors.New("postgres dsn is required")
	ErrRequestTimeoutFormat = errors.New("invalid request timeout")
	ErrConfigFile           = errors.New("invalid config file")
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Backend selects the store implementation.
	Backend string

	// DatabaseID and CollectionID address the task collection.
	// They are passed through untouched; a wrong value makes every call fail.
	DatabaseID   string
	CollectionID string

	Appwrite AppwriteConfig

	PostgresDSN string

	// Listen is the web server address.
	Listen string

	LogLevel  string
	LogFormat string

	// RequestTimeout bounds each remote call. Zero disables the bound.
	RequestTimeout time.Duration
}

// AppwriteConfig holds the Appwrite connection settings.
type AppwriteConfig struct {
	Endpoint  string
	ProjectID string
	APIKey    string
}

// fileConfig mirrors config.toml.
type fileConfig struct {
	Backend        string `toml:"backend"`
	DatabaseID     string `toml:"database_id"`
	CollectionID   string `toml:"collection_id"`
	PostgresDSN    string `toml:"postgres_dsn"`
	Listen         string `toml:"listen"`
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`
	RequestTimeout string `toml:"request_timeout"`
	Appwrite       struct {
		Endpoint  string `toml:"endpoint"`
		ProjectID string `toml:"project_id"`
		APIKey    string `toml:"api_key"`
	} `toml:"appwrite"`
}

// New creates a Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todolist or $HOME/.config/todolist.
func New(configDir string) *Config {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:            dir,
		Backend:        BackendAppwrite,
		Appwrite:       AppwriteConfig{Endpoint: defaultEndpoint},
		Listen:         defaultListen,
		LogLevel:       defaultLogLevel,
		LogFormat:      defaultLogFormat,
		RequestTimeout: defaultRequestTimeout,
	}
}

// Load builds a Config from defaults, the config file in the config directory
// (if present), and environment variables, in that order of precedence.
func Load(configDir string) (*Config, error) {
	cfg := New(configDir)

	if err := cfg.loadFile(cfg.FilePath()); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfigFile, path, err)
	}

	setString(&c.Backend, fc.Backend)
	setString(&c.DatabaseID, fc.DatabaseID)
	setString(&c.CollectionID, fc.CollectionID)
	setString(&c.PostgresDSN, fc.PostgresDSN)
	setString(&c.Listen, fc.Listen)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)
	setString(&c.Appwrite.Endpoint, fc.Appwrite.Endpoint)
	setString(&c.Appwrite.ProjectID, fc.Appwrite.ProjectID)
	setString(&c.Appwrite.APIKey, fc.Appwrite.APIKey)

	if fc.RequestTimeout != "" {
		d, err := parseTimeout(fc.RequestTimeout)
		if err != nil {
			return err
		}
		c.RequestTimeout = d
	}
	return nil
}

func (c *Config) loadEnv() error {
	setString(&c.Backend, getEnv(EnvBackend))
	setString(&c.DatabaseID, getEnv(EnvDatabaseID))
	setString(&c.CollectionID, getEnv(EnvCollectionID))
	setString(&c.PostgresDSN, getEnv(EnvPostgresDSN))
	setString(&c.Listen, getEnv(EnvListen))
	setString(&c.LogLevel, getEnv(EnvLogLevel))
	setString(&c.LogFormat, getEnv(EnvLogFormat))
	setString(&c.Appwrite.Endpoint, getEnv(EnvEndpoint))
	setString(&c.Appwrite.ProjectID, getEnv(EnvProjectID))
	setString(&c.Appwrite.APIKey, getEnv(EnvAPIKey))

	if raw := getEnv(EnvRequestTimeout); raw != "" {
		d, err := parseTimeout(raw)
		if err != nil {
			return err
		}
		c.RequestTimeout = d
	}
	return nil
}

// Validate checks the settings the selected backend cannot run without.
// Database and collection identifiers are not checked.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAppwrite:
		return validateEndpoint(c.Appwrite.Endpoint)
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: set %s", ErrPostgresDSNMissing, EnvPostgresDSN)
		}
		return nil
	case BackendGoogleTasks, BackendMemory:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: endpoint is empty", ErrEndpointInvalid)
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return fmt.Errorf("%w: scheme must be http or https, got: %s", ErrEndpointInvalid, endpoint)
	}
	if strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://") == "" {
		return fmt.Errorf("%w: host is empty", ErrEndpointInvalid)
	}
	return nil
}

func parseTimeout(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %q", ErrRequestTimeoutFormat, raw)
	}
	return d, nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func setString(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to the optional TOML config file.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
