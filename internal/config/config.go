package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Import    ImportConfig    `mapstructure:"import"`
	Migration MigrationConfig `mapstructure:"migration"`
	Sweeper   SweeperConfig   `mapstructure:"sweeper"`
	Editor    EditorConfig    `mapstructure:"editor"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	Mode         string        `mapstructure:"mode"` // gin mode: debug, release or test
}

// DatabaseConfig picks the store. Driver "memory" keeps everything in
// process and ignores URI and Name.
type DatabaseConfig struct {
	Driver    string `mapstructure:"driver"`
	URI       string `mapstructure:"uri"`
	Name      string `mapstructure:"name"`
	BatchSize int32  `mapstructure:"batch_size"`
}

type S3Config struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

// JWTConfig configures the dashboard session tokens the API issues.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// AuthConfig configures how a sign-in credential is verified. Provider
// "token" accepts ID tokens signed by the identity provider; "local" checks
// a password against the hash on the account record.
type AuthConfig struct {
	Provider       string `mapstructure:"provider"`
	IdentitySecret string `mapstructure:"identity_secret"`
	Issuer         string `mapstructure:"issuer"`
	Audience       string `mapstructure:"audience"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	File        string `mapstructure:"file"`
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAgeDays  int    `mapstructure:"max_age_days"`
	Development bool   `mapstructure:"development"`
}

type ImportConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type MigrationConfig struct {
	ReportPrefix string `mapstructure:"report_prefix"`
}

type SweeperConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

type EditorConfig struct {
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// LoadConfig reads configuration from path/config.yaml and environment
// variables (server.address -> SERVER_ADDRESS). A missing file is not an error.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}

	// Durations are given as strings ("60m", "1h") and decoded by viper.
	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}
	return config, config.Validate()
}

// Every key gets a default so AutomaticEnv can see it and the service
// starts from environment variables alone.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "fitness_admin")
	v.SetDefault("database.batch_size", 200)

	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.presign_expiry", "15m")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")

	v.SetDefault("auth.provider", "token")
	v.SetDefault("auth.identity_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.development", false)

	v.SetDefault("import.max_bytes", 1<<20)
	v.SetDefault("migration.report_prefix", "migration-reports/")
	v.SetDefault("sweeper.enabled", false)
	v.SetDefault("sweeper.schedule", "@every 1h")
	v.SetDefault("editor.session_ttl", "2h")
}

// Validate reports settings that would only fail later at runtime.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("database.driver must be mongo or memory, got %q", c.Database.Driver)
	}
	switch c.Auth.Provider {
	case "token", "local":
	default:
		return fmt.Errorf("auth.provider must be token or local, got %q", c.Auth.Provider)
	}
	if c.Import.MaxBytes <= 0 {
		return errors.New("import.max_bytes must be positive")
	}
	if c.S3.Enabled && c.S3.BucketName == "" {
		return errors.New("s3.bucket_name is required when s3.enabled is set")
	}
	return nil
}
