// Package config loads nvdmirror settings from defaults, an optional YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/iudanet/nvdmirror/internal/models"
)

// EnvPrefix is prepended to every environment variable derived from a key
const EnvPrefix = "NVDMIRROR"

// Storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Archive backends
const (
	ArchiveNone = "none"
	ArchiveFS   = "fs"
	ArchiveS3   = "s3"
)

// maxPageSize is the largest resultsPerPage the NVD 2.0 APIs accept
const maxPageSize = 2000

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete runtime configuration
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	NVD        NVDConfig        `mapstructure:"nvd"`
	Sync       SyncConfig       `mapstructure:"sync"`
	Checkpoint CheckpointConfig `mapstructure:"checkpoint"`
}

// NVDConfig configures the API client
type NVDConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	PacingDelay   time.Duration `mapstructure:"pacing_delay"`
	OverloadDelay time.Duration `mapstructure:"overload_delay"` // 0 = 2 × pacing_delay
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxAttempts   int           `mapstructure:"max_attempts"`
}

// StorageConfig selects and configures the target store
type StorageConfig struct {
	Driver     string         `mapstructure:"driver"`
	SQLitePath string         `mapstructure:"sqlite_path"`
	Postgres   PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings. DSN wins over the
// individual fields when set.
type PostgresConfig struct {
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	Port     int    `mapstructure:"port"`
	MaxConns int    `mapstructure:"max_conns"`
}

// ConnString returns the DSN or builds a postgres:// URL from the fields
func (p PostgresConfig) ConnString() string {
	if p.DSN != "" {
		return p.DSN
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   p.Host + ":" + strconv.Itoa(p.Port),
		Path:   "/" + p.Name,
	}
	if p.User != "" {
		if p.Password != "" {
			u.User = url.UserPassword(p.User, p.Password)
		} else {
			u.User = url.User(p.User)
		}
	}
	if p.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{p.SSLMode}}.Encode()
	}
	return u.String()
}

// CheckpointConfig configures the bbolt checkpoint store
type CheckpointConfig struct {
	Path string `mapstructure:"path"`
}

// ArchiveConfig configures raw page and snapshot archival
type ArchiveConfig struct {
	Backend   string        `mapstructure:"backend"`
	Dir       string        `mapstructure:"dir"`
	S3        S3Config      `mapstructure:"s3"`
	Retention time.Duration `mapstructure:"retention"`
}

// S3Config configures the S3 archive backend
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// SyncConfig configures sweeps
type SyncConfig struct {
	Entities        []string      `mapstructure:"entities"`
	EndDelay        time.Duration `mapstructure:"end_delay"`
	WatermarkMargin time.Duration `mapstructure:"watermark_margin"`
	CVEPageSize     int           `mapstructure:"cve_page_size"`
	CPEPageSize     int           `mapstructure:"cpe_page_size"`
	ForceFull       bool          `mapstructure:"force_full"`
}

// LogConfig configures the root logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text | json | auto
	File   string `mapstructure:"file"`
}

// New returns a viper instance with defaults and environment bindings.
// Callers may bind command flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("nvd.base_url", "https://services.nvd.nist.gov")
	v.SetDefault("nvd.api_key", "")
	v.SetDefault("nvd.pacing_delay", 6*time.Second)
	v.SetDefault("nvd.overload_delay", time.Duration(0))
	v.SetDefault("nvd.retry_delay", 10*time.Second)
	v.SetDefault("nvd.timeout", 60*time.Second)
	v.SetDefault("nvd.max_attempts", 3)

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "data/nvd_mirror.db")
	v.SetDefault("storage.postgres.dsn", "")
	v.SetDefault("storage.postgres.host", "localhost")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.name", "nvd")
	v.SetDefault("storage.postgres.user", "")
	v.SetDefault("storage.postgres.password", "")
	v.SetDefault("storage.postgres.sslmode", "")
	v.SetDefault("storage.postgres.max_conns", 4)

	v.SetDefault("checkpoint.path", "data/checkpoints.db")

	v.SetDefault("archive.backend", ArchiveFS)
	v.SetDefault("archive.dir", "data")
	v.SetDefault("archive.retention", 90*24*time.Hour)
	v.SetDefault("archive.s3.bucket", "")
	v.SetDefault("archive.s3.prefix", "")
	v.SetDefault("archive.s3.region", "")
	v.SetDefault("archive.s3.endpoint", "")
	v.SetDefault("archive.s3.access_key_id", "")
	v.SetDefault("archive.s3.secret_access_key", "")
	v.SetDefault("archive.s3.use_path_style", false)

	v.SetDefault("sync.entities", []string{models.EntityNameCVE, models.EntityNameCPE})
	v.SetDefault("sync.force_full", false)
	v.SetDefault("sync.end_delay", 15*time.Minute)
	v.SetDefault("sync.watermark_margin", time.Second)
	v.SetDefault("sync.cve_page_size", models.DefaultPageSize)
	v.SetDefault("sync.cpe_page_size", models.DefaultPageSize)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Имена переменных из .env исходного развертывания
	_ = v.BindEnv("nvd.api_key", EnvPrefix+"_NVD_API_KEY", "NVD_API_KEY")
	_ = v.BindEnv("storage.postgres.host", EnvPrefix+"_STORAGE_POSTGRES_HOST", "DB_HOST")
	_ = v.BindEnv("storage.postgres.port", EnvPrefix+"_STORAGE_POSTGRES_PORT", "DB_PORT")
	_ = v.BindEnv("storage.postgres.name", EnvPrefix+"_STORAGE_POSTGRES_NAME", "DB_NAME")
	_ = v.BindEnv("storage.postgres.user", EnvPrefix+"_STORAGE_POSTGRES_USER", "DB_USER")
	_ = v.BindEnv("storage.postgres.password", EnvPrefix+"_STORAGE_POSTGRES_PASSWORD", "DB_PASSWORD")

	return v
}

// Load reads the optional config file and decodes v into a validated Config
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations. The API key is not
// required here so that read-only commands work without one.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.NVD.BaseURL == "" {
		add("nvd.base_url is required")
	}
	if c.NVD.MaxAttempts <= 0 {
		add("nvd.max_attempts must be positive, got %d", c.NVD.MaxAttempts)
	}
	if c.NVD.PacingDelay < 0 || c.NVD.OverloadDelay < 0 || c.NVD.RetryDelay < 0 {
		add("nvd delays must not be negative")
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			add("storage.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.Host == "" {
			add("storage.postgres.dsn or storage.postgres.host is required for the postgres driver")
		}
	default:
		add("unknown storage.driver %q", c.Storage.Driver)
	}

	if c.Checkpoint.Path == "" {
		add("checkpoint.path is required")
	}

	switch c.Archive.Backend {
	case ArchiveNone:
	case ArchiveFS:
		if c.Archive.Dir == "" {
			add("archive.dir is required for the fs backend")
		}
	case ArchiveS3:
		if c.Archive.S3.Bucket == "" {
			add("archive.s3.bucket is required for the s3 backend")
		}
	default:
		add("unknown archive.backend %q", c.Archive.Backend)
	}

	if len(c.Sync.Entities) == 0 {
		add("sync.entities must not be empty")
	}
	for _, name := range c.Sync.Entities {
		if _, err := models.LookupEntity(name); err != nil {
			add("sync.entities: %w", err)
		}
	}
	if c.Sync.CVEPageSize <= 0 || c.Sync.CVEPageSize > maxPageSize {
		add("sync.cve_page_size must be in 1..%d, got %d", maxPageSize, c.Sync.CVEPageSize)
	}
	if c.Sync.CPEPageSize <= 0 || c.Sync.CPEPageSize > maxPageSize {
		add("sync.cpe_page_size must be in 1..%d, got %d", maxPageSize, c.Sync.CPEPageSize)
	}
	if c.Sync.EndDelay < 0 {
		add("sync.end_delay must not be negative")
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Log.Level)) {
		add("unknown log.level %q", c.Log.Level)
	}
	if !slices.Contains([]string{"text", "json", "auto"}, strings.ToLower(c.Log.Format)) {
		add("unknown log.format %q", c.Log.Format)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Entities resolves the configured entity names, applying page sizes.
// Duplicates are dropped; order follows the configuration.
func (c *Config) Entities() ([]models.Entity, error) {
	entities := make([]models.Entity, 0, len(c.Sync.Entities))
	seen := make(map[string]bool, len(c.Sync.Entities))

	for _, name := range c.Sync.Entities {
		entity, err := models.LookupEntity(name)
		if err != nil {
			return nil, err
		}
		if seen[entity.Name] {
			continue
		}
		seen[entity.Name] = true

		switch entity.Name {
		case models.EntityNameCVE:
			entity.PageSize = c.Sync.CVEPageSize
		case models.EntityNameCPE:
			entity.PageSize = c.Sync.CPEPageSize
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
