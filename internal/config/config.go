package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/notes/internal/errors"
)

const (
	// DefaultBaseURL is the notes API the CLI talks to by default.
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultMountID is the id of the element views render into.
	DefaultMountID = "app"

	// DefaultPort is the default live preview port.
	DefaultPort = 3000

	// DefaultHost is the default live preview host.
	DefaultHost = "localhost"

	// DefaultMaxDepth bounds nested reactive notifications.
	DefaultMaxDepth = 64
)

// FileNames are the configuration file names Load looks for, in order.
var FileNames = []string{"notes.yaml", "notes.yml", "notes.json"}

// Config is the complete notes CLI configuration.
type Config struct {
	API      APIConfig      `json:"api" yaml:"api"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Mount    MountConfig    `json:"mount" yaml:"mount"`
	Preview  PreviewConfig  `json:"preview" yaml:"preview"`
	Export   ExportConfig   `json:"export" yaml:"export"`
	Log      LogConfig      `json:"log" yaml:"log"`
	Reactive ReactiveConfig `json:"reactive" yaml:"reactive"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// APIConfig configures the notes backend client.
type APIConfig struct {
	// BaseURL is the API root, e.g. http://localhost:8000/api.
	BaseURL string `json:"base_url" yaml:"base_url" validate:"required,url"`

	// Token is the bearer token sent with every request.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// Timeout bounds each request.
	Timeout Duration `json:"timeout" yaml:"timeout" validate:"gte=0"`

	// RateLimit is the sustained requests per second. Zero disables limiting.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" validate:"gte=0"`

	// Burst is the number of requests allowed at once.
	Burst int `json:"burst" yaml:"burst" validate:"gte=0"`

	// UserID is sent with created notes.
	UserID int `json:"user_id,omitempty" yaml:"user_id,omitempty" validate:"gte=0"`
}

// CacheConfig configures the offline note cache.
type CacheConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Dir     string `json:"dir" yaml:"dir" validate:"required_if=Enabled true"`
}

// MountConfig configures the page views render into.
type MountConfig struct {
	ID    string `json:"id" yaml:"id" validate:"required"`
	Title string `json:"title" yaml:"title"`
}

// PreviewConfig configures the live preview server.
type PreviewConfig struct {
	Host string   `json:"host" yaml:"host"`
	Port int      `json:"port" yaml:"port" validate:"gte=0,lte=65535"`
	Poll Duration `json:"poll" yaml:"poll" validate:"gte=0"`
}

// ExportConfig configures where rendered snapshots are written.
type ExportConfig struct {
	// Dir is the directory for file snapshots.
	Dir string `json:"dir" yaml:"dir"`

	// Bucket is the S3 bucket. Empty disables S3 export.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Prefix is prepended to S3 object keys.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	Region string `json:"region,omitempty" yaml:"region,omitempty" validate:"required_with=Bucket"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" validate:"omitempty,url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"oneof=text json"`
}

// ReactiveConfig configures the reactive runtime.
type ReactiveConfig struct {
	// ResetDependencies clears a computation's dependencies before each run.
	ResetDependencies bool `json:"reset_dependencies" yaml:"reset_dependencies"`

	// MaxDepth bounds nested notifications.
	MaxDepth int `json:"max_depth" yaml:"max_depth" validate:"gt=0"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			Timeout:   Duration(10 * time.Second),
			RateLimit: 5,
			Burst:     10,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".notes-cache",
		},
		Mount: MountConfig{
			ID:    DefaultMountID,
			Title: "Notes",
		},
		Preview: PreviewConfig{
			Host: DefaultHost,
			Port: DefaultPort,
			Poll: Duration(5 * time.Second),
		},
		Export: ExportConfig{
			Dir:    "dist",
			Prefix: "snapshots/",
			Region: "us-east-1",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Reactive: ReactiveConfig{
			MaxDepth: DefaultMaxDepth,
		},
	}
}

// Load reads the first configuration file found in dir. If there is none
// it returns the defaults.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from path. The format follows the
// extension: .json is JSON, anything else YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("N001").WithDetail(path).Wrap(err)
	}

	cfg := New()
	if err := decode(path, data, cfg); err != nil {
		return nil, errors.New("N002").
			WithDetailf("Failed to parse %s: %v", filepath.Base(path), err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// SaveTo writes the configuration to path in the format its extension
// names.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.New("N002").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("N001").WithDetail(path).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in values a file left empty.
func (c *Config) applyDefaults() {
	d := New()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.Mount.ID == "" {
		c.Mount.ID = d.Mount.ID
	}
	if c.Preview.Host == "" {
		c.Preview.Host = d.Preview.Host
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = d.Preview.Port
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Reactive.MaxDepth == 0 {
		c.Reactive.MaxDepth = d.Reactive.MaxDepth
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
}

// Environment variables read by ApplyEnv.
const (
	EnvBaseURL = "NOTES_API_URL"
	EnvToken   = "NOTES_API_TOKEN"
	EnvBucket  = "NOTES_EXPORT_BUCKET"
	EnvLevel   = "NOTES_LOG_LEVEL"
	EnvPort    = "NOTES_PREVIEW_PORT"
)

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.API.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv(EnvBucket); v != "" {
		c.Export.Bucket = v
	}
	if v := os.Getenv(EnvLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Preview.Port = port
		}
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration. The returned error lists every
// invalid field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.New("N003").Wrap(err)
	}
	fields := make(map[string][]string)
	for _, fe := range verrs {
		name := fieldPath(fe.Namespace())
		fields[name] = append(fields[name], fmt.Sprintf("failed %q check (value %v)", fe.Tag(), fe.Value()))
	}
	return errors.New("N003").WithFields(fields)
}

// fieldPath turns "Config.API.BaseURL" into "API.BaseURL".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// PreviewAddress returns the host:port the live preview listens on.
func (c *Config) PreviewAddress() string {
	return net.JoinHostPort(c.Preview.Host, strconv.Itoa(c.Preview.Port))
}

// PreviewURL returns the URL of the live preview.
func (c *Config) PreviewURL() string {
	return "http://" + c.PreviewAddress()
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
