package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Brand      BrandConfig      `mapstructure:"brand"`
	Identity   IdentityConfig   `mapstructure:"identity"`
	Completion CompletionConfig `mapstructure:"completion"`
	Database   DatabaseConfig   `mapstructure:"database"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Site       SiteConfig       `mapstructure:"site"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type BrandConfig struct {
	// Default selects which brand's gateway serves auth requests that carry
	// no brand context of their own. Overridable via BRAND_DEFAULT.
	Default string `mapstructure:"default"`
}

type IdentityConfig struct {
	// Mode is "http" for a hosted identity provider or "dev" for the
	// embedded in-process provider.
	Mode       string `mapstructure:"mode"`
	BaseURL    string `mapstructure:"base_url"`
	AnonKey    string `mapstructure:"anon_key"`
	ServiceKey string `mapstructure:"service_key"`
	// JWTSecret verifies provider-issued session tokens.
	JWTSecret  string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type CompletionConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type DatabaseConfig struct {
	Tenant TenantDBConfig `mapstructure:"tenant"`
}

type TenantDBConfig struct {
	BasePath               string `mapstructure:"base_path"`
	MaxConnectionsPerBrand int    `mapstructure:"max_connections_per_brand"`
}

type RateLimitConfig struct {
	LoginPerMinute  int `mapstructure:"login_per_minute"`
	SignupPerMinute int `mapstructure:"signup_per_minute"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

type SiteConfig struct {
	// PublicURL is the externally reachable site root, used for auth
	// redirect links.
	PublicURL string `mapstructure:"public_url"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
