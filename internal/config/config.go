package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/MrJamesThe3rd/reconciler/internal/document"
)

// HeaderCount is the number of columns in a reconciliation report.
const HeaderCount = 18

const defaultFile = "config.toml"

// Database holds the credentials of one ledger.
type Database struct {
	User     string
	Password string
	Host     string
	Port     int
	Name     string
	Schema   string
}

type MinIO struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"reconciliation-reports"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`

	// LinkExpiry is how long the download link for an uploaded report stays valid; 0 disables it.
	LinkExpiry time.Duration `envconfig:"MINIO_LINK_EXPIRY" default:"24h"`
}

// Enabled reports whether reports should also be uploaded to object storage.
func (m MinIO) Enabled() bool {
	return m.Endpoint != ""
}

// Telemetry uses the standard OTEL_* variables. Tracing stays off until an endpoint is set.
type Telemetry struct {
	Endpoint    string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Protocol    string  `envconfig:"OTEL_EXPORTER_OTLP_PROTOCOL" default:"grpc"`
	ServiceName string  `envconfig:"OTEL_SERVICE_NAME" default:"reconciler"`
	Disabled    bool    `envconfig:"OTEL_SDK_DISABLED" default:"false"`
	SampleRatio float64 `envconfig:"OTEL_TRACES_SAMPLER_ARG" default:"1.0"`
}

func (t Telemetry) Enabled() bool {
	return t.Endpoint != "" && !t.Disabled
}

// Config is read from the environment; tuning knobs come from the TOML file named by File.
type Config struct {
	Biller struct {
		User     string `envconfig:"BILLER_USER"`
		Password string `envconfig:"BILLER_PASS"`
		Host     string `envconfig:"BILLER_HOST"`
		Port     int    `envconfig:"BILLER_PORT" default:"5432"`
		Name     string `envconfig:"BILLER_NAME"`
		Schema   string `envconfig:"BILLER_SCHE" default:"public"`
	}

	Jano struct {
		User     string `envconfig:"JANO_USER"`
		Password string `envconfig:"JANO_PASS"`
		Host     string `envconfig:"JANO_HOST"`
		Port     int    `envconfig:"JANO_PORT" default:"1521"`
		Name     string `envconfig:"JANO_NAME"`
	}

	MinIO MinIO

	Pushgateway struct {
		URL string `envconfig:"PUSHGATEWAY_URL"`
		Job string `envconfig:"PUSHGATEWAY_JOB" default:"reconciler"`
	}

	Telemetry Telemetry

	File string `envconfig:"RECONCILER_CONFIG" default:"config.toml"`

	Settings Settings `ignored:"true"`
}

// Load reads the environment and then the tuning file. A path argument overrides
// RECONCILER_CONFIG; a missing file is only an error when it was asked for explicitly.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	explicit := path != "" || cfg.File != defaultFile
	if path != "" {
		cfg.File = path
	}

	settings, err := LoadSettings(cfg.File)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !explicit:
		settings = DefaultSettings()
	default:
		return nil, err
	}

	cfg.Settings = settings

	return &cfg, nil
}

func (c *Config) BillerDB() Database {
	return Database{
		User:     c.Biller.User,
		Password: c.Biller.Password,
		Host:     c.Biller.Host,
		Port:     c.Biller.Port,
		Name:     c.Biller.Name,
		Schema:   c.Biller.Schema,
	}
}

func (c *Config) JanoDB() Database {
	return Database{
		User:     c.Jano.User,
		Password: c.Jano.Password,
		Host:     c.Jano.Host,
		Port:     c.Jano.Port,
		Name:     c.Jano.Name,
	}
}

// Validate reports every missing credential and out-of-range setting at once.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		env   string
		value string
	}{
		{"BILLER_USER", c.Biller.User},
		{"BILLER_PASS", c.Biller.Password},
		{"BILLER_HOST", c.Biller.Host},
		{"BILLER_NAME", c.Biller.Name},
		{"BILLER_SCHE", c.Biller.Schema},
		{"JANO_USER", c.Jano.User},
		{"JANO_PASS", c.Jano.Password},
		{"JANO_HOST", c.Jano.Host},
		{"JANO_NAME", c.Jano.Name},
	}

	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("missing environment variable %s", r.env))
		}
	}

	if c.MinIO.Enabled() && (c.MinIO.AccessKey == "" || c.MinIO.SecretKey == "") {
		errs = append(errs, errors.New("MINIO_ENDPOINT is set but credentials are missing"))
	}

	if err := c.Settings.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	return nil
}

// Settings are the tuning knobs read from the TOML file.
type Settings struct {
	LogConsoleLevel   string   `toml:"log_console_level"`
	LogFileLevel      string   `toml:"log_file_level"`
	LogFile           string   `toml:"log_file"`
	EnginePoolSize    int      `toml:"engine_pool_size"`
	EngineMaxOverflow int      `toml:"engine_max_overflow"`
	Workers           int      `toml:"workers"`
	LookupTimeout     Duration `toml:"lookup_timeout"`
	LookupsPerSecond  float64  `toml:"lookups_per_second"`
	OutputDir         string   `toml:"output_dir"`
	ReportName        string   `toml:"report_name"`
	Compress          bool     `toml:"compress"`
	Headers           []string `toml:"headers"`
	StartDate         string   `toml:"start_date"`
	EndDate           string   `toml:"end_date"`
}

func DefaultSettings() Settings {
	return Settings{
		LogConsoleLevel:   "info",
		LogFileLevel:      "warn",
		EnginePoolSize:    5,
		EngineMaxOverflow: 10,
		Workers:           5,
		LookupTimeout:     Duration(30 * time.Second),
		OutputDir:         "reports",
		ReportName:        "facturas_negativas",
	}
}

// LoadSettings decodes path over DefaultSettings, so absent keys keep their defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(b, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return s, nil
}

func (s Settings) Validate() error {
	var errs []error

	if s.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", s.Workers))
	}

	if s.EnginePoolSize < 1 {
		errs = append(errs, fmt.Errorf("engine_pool_size must be at least 1, got %d", s.EnginePoolSize))
	}

	if s.EngineMaxOverflow < 0 {
		errs = append(errs, fmt.Errorf("engine_max_overflow must not be negative, got %d", s.EngineMaxOverflow))
	}

	if s.LookupTimeout < 0 {
		errs = append(errs, errors.New("lookup_timeout must not be negative"))
	}

	if s.LookupsPerSecond < 0 {
		errs = append(errs, errors.New("lookups_per_second must not be negative"))
	}

	if s.ReportName == "" {
		errs = append(errs, errors.New("report_name is required"))
	}

	if len(s.Headers) != 0 && len(s.Headers) != HeaderCount {
		errs = append(errs, fmt.Errorf("headers must list %d columns, got %d", HeaderCount, len(s.Headers)))
	}

	return errors.Join(errs...)
}

// MaxOpenConns mirrors a pool of EnginePoolSize connections allowed to overflow by EngineMaxOverflow.
func (s Settings) MaxOpenConns() int {
	return s.EnginePoolSize + s.EngineMaxOverflow
}

// Period returns the configured billing window, or the previous calendar month when none is set.
func (s Settings) Period(now time.Time) (document.Period, error) {
	if s.StartDate == "" && s.EndDate == "" {
		return document.PreviousMonth(now), nil
	}

	return document.ParsePeriod(s.StartDate, s.EndDate)
}

// Duration decodes TOML strings such as "30s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	*d = Duration(v)

	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
