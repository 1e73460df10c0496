// Package config loads the uploader configuration from a YAML file and
// REPORTS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/dvloznov/report-uploader/internal/publish"
	"github.com/dvloznov/report-uploader/internal/report"
)

// EnvPrefix is the prefix of environment overrides, e.g. REPORTS_SUPABASE_SERVICE_KEY.
const EnvPrefix = "REPORTS"

// Config holds the uploader configuration.
type Config struct {
	// SourceDir is the directory the report generator writes PDFs to.
	SourceDir string
	Plant     string

	Ledger   LedgerConfig
	Log      LogConfig
	Supabase SupabaseConfig
	Storage  StorageConfig
	Index    IndexConfig

	Cadences map[report.Cadence]CadenceConfig
}

// LedgerConfig selects where completed uploads are recorded.
type LedgerConfig struct {
	// Backend is "file" or "redis".
	Backend string
	// Dir holds one uploaded_<cadence>_reports.json file per cadence.
	Dir   string
	Redis RedisConfig
}

// RedisConfig is the configuration for the Redis ledger
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// LogConfig is the configuration for the logger
type LogConfig struct {
	// Dir holds one <cadence>_uploader.log file per cadence.
	Dir   string
	Level string
}

// SupabaseConfig is the configuration for the Supabase project
type SupabaseConfig struct {
	URL        string
	ServiceKey string
	Bucket     string
	Table      string
}

// StorageConfig selects the object storage backend.
type StorageConfig struct {
	// Backend is "supabase" or "gcs".
	Backend         string
	GCSBucket       string
	CredentialsFile string
}

// IndexConfig selects the metadata index backend.
type IndexConfig struct {
	// Backend is "supabase" or "bigquery".
	Backend   string
	ProjectID string
	Dataset   string
	Table     string
}

// CadenceConfig describes the reports of one cadence.
type CadenceConfig struct {
	Prefix       string              `mapstructure:"prefix"`
	Category     string              `mapstructure:"category"`
	Label        string              `mapstructure:"label"`
	Schedule     string              `mapstructure:"schedule"`
	UploadedBy   string              `mapstructure:"uploaded_by"`
	Tags         []string            `mapstructure:"tags"`
	Destinations []DestinationConfig `mapstructure:"destinations"`
}

// DestinationConfig is one remote folder a report is copied to.
type DestinationConfig struct {
	Name       string `mapstructure:"name"`
	RemotePath string `mapstructure:"remote_path"`
	FolderID   string `mapstructure:"folder_id"`
}

// Load reads the configuration. When path is empty the file
// report-uploader.yaml is searched in ./config, the working directory and
// /etc/report-uploader; a missing file is not an error. Load does not
// validate the result; commands call Validate for the settings they need.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("report-uploader")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/report-uploader/")
	}

	// Enable environment variable override
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	cfg.SourceDir = v.GetString("source_dir")
	cfg.Plant = v.GetString("plant")

	// Ledger
	cfg.Ledger.Backend = v.GetString("ledger.backend")
	cfg.Ledger.Dir = v.GetString("ledger.dir")
	cfg.Ledger.Redis.Addr = v.GetString("ledger.redis.addr")
	cfg.Ledger.Redis.Password = v.GetString("ledger.redis.password")
	cfg.Ledger.Redis.DB = v.GetInt("ledger.redis.db")
	cfg.Ledger.Redis.Prefix = v.GetString("ledger.redis.prefix")

	// Logging
	cfg.Log.Dir = v.GetString("log.dir")
	cfg.Log.Level = v.GetString("log.level")

	// Remote services
	cfg.Supabase.URL = v.GetString("supabase.url")
	cfg.Supabase.ServiceKey = v.GetString("supabase.service_key")
	cfg.Supabase.Bucket = v.GetString("supabase.bucket")
	cfg.Supabase.Table = v.GetString("supabase.table")

	cfg.Storage.Backend = v.GetString("storage.backend")
	cfg.Storage.GCSBucket = v.GetString("storage.gcs_bucket")
	cfg.Storage.CredentialsFile = v.GetString("storage.credentials_file")

	cfg.Index.Backend = v.GetString("index.backend")
	cfg.Index.ProjectID = v.GetString("index.project_id")
	cfg.Index.Dataset = v.GetString("index.dataset")
	cfg.Index.Table = v.GetString("index.table")

	// Cadences start from the plant layout; fields set in the file replace the defaults.
	cfg.Cadences = DefaultCadences()
	for _, c := range report.Cadences {
		key := "cadences." + c.String()
		if !v.IsSet(key) {
			continue
		}
		cc := cfg.Cadences[c]
		if v.IsSet(key + ".destinations") {
			cc.Destinations = nil
		}
		if v.IsSet(key + ".tags") {
			cc.Tags = nil
		}
		if err := v.UnmarshalKey(key, &cc); err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", key, err)
		}
		cfg.Cadences[c] = cc
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("plant", "RETAMAR")

	v.SetDefault("ledger.backend", "file")
	v.SetDefault("ledger.dir", ".")
	v.SetDefault("ledger.redis.addr", "")
	v.SetDefault("ledger.redis.password", "")
	v.SetDefault("ledger.redis.db", 0)
	v.SetDefault("ledger.redis.prefix", "reports:uploaded")

	v.SetDefault("log.dir", ".")
	v.SetDefault("log.level", "info")

	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.service_key", "")
	v.SetDefault("supabase.bucket", "documents")
	v.SetDefault("supabase.table", "documents")

	v.SetDefault("storage.backend", "supabase")
	v.SetDefault("storage.gcs_bucket", "")
	v.SetDefault("storage.credentials_file", "")

	v.SetDefault("index.backend", "supabase")
	v.SetDefault("index.project_id", "")
	v.SetDefault("index.dataset", "")
	v.SetDefault("index.table", "documents")
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return errors.New("config: source_dir is required")
	}

	switch c.Ledger.Backend {
	case "file":
		if c.Ledger.Dir == "" {
			return errors.New("config: ledger.dir is required for the file ledger")
		}
	case "redis":
		if c.Ledger.Redis.Addr == "" {
			return errors.New("config: ledger.redis.addr is required for the redis ledger")
		}
	default:
		return fmt.Errorf("config: unknown ledger.backend %q", c.Ledger.Backend)
	}

	switch c.Storage.Backend {
	case "supabase":
	case "gcs":
		if c.Storage.GCSBucket == "" {
			return errors.New("config: storage.gcs_bucket is required for the gcs backend")
		}
	default:
		return fmt.Errorf("config: unknown storage.backend %q", c.Storage.Backend)
	}

	switch c.Index.Backend {
	case "supabase":
	case "bigquery":
		if c.Index.ProjectID == "" || c.Index.Dataset == "" {
			return errors.New("config: index.project_id and index.dataset are required for the bigquery backend")
		}
	default:
		return fmt.Errorf("config: unknown index.backend %q", c.Index.Backend)
	}

	if c.UsesSupabase() {
		if c.Supabase.URL == "" {
			return errors.New("config: supabase.url is required")
		}
		if c.Supabase.ServiceKey == "" {
			return errors.New("config: supabase.service_key is required")
		}
		if c.Supabase.Bucket == "" {
			return errors.New("config: supabase.bucket is required")
		}
	}

	for _, cad := range report.Cadences {
		if len(c.Cadences[cad].Destinations) == 0 {
			return fmt.Errorf("config: cadences.%s needs at least one destination", cad)
		}
	}
	return nil
}

// UsesSupabase reports whether any selected backend talks to Supabase.
func (c *Config) UsesSupabase() bool {
	return c.Storage.Backend == "supabase" || c.Index.Backend == "supabase"
}

// Profile builds the publish profile of cadence c.
func (c *Config) Profile(cad report.Cadence) (publish.Profile, error) {
	cc, ok := c.Cadences[cad]
	if !ok {
		return publish.Profile{}, fmt.Errorf("config: no settings for cadence %q", cad)
	}
	prefix := cc.Prefix
	if prefix == "" {
		prefix = report.DefaultPrefix(cad)
	}

	p := publish.Profile{
		Cadence:    cad,
		Patterns:   report.Patterns(cad, prefix),
		Plant:      c.Plant,
		Category:   cc.Category,
		Tags:       cc.Tags,
		Label:      cc.Label,
		Schedule:   cc.Schedule,
		UploadedBy: cc.UploadedBy,
	}
	for _, d := range cc.Destinations {
		p.Destinations = append(p.Destinations, publish.Destination{
			Name:       d.Name,
			RemotePath: d.RemotePath,
			FolderID:   d.FolderID,
		})
	}
	if err := p.Validate(); err != nil {
		return publish.Profile{}, err
	}
	return p, nil
}
