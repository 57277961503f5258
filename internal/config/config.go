package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "EXOPREDICT"

	DefaultAPIBaseURL = "http://localhost:8000"
)

// Config holds the client configuration
type Config struct {
	APIBaseURL    string        `mapstructure:"api_base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	DownloadDir   string        `mapstructure:"download_dir"`
	XLSX          bool          `mapstructure:"xlsx"`
	UserAgent     string        `mapstructure:"user_agent"`
	Debug         bool          `mapstructure:"debug"`
}

type LoadOptions struct {
	// ConfigFile replaces the search paths when set
	ConfigFile string

	// Flags are bound to their config keys; only flags the operator set
	// take precedence over env and file values.
	Flags *pflag.FlagSet
}

// flagKeys maps command-line flags to config keys
var flagKeys = map[string]string{
	"api-url":      "api_base_url",
	"timeout":      "timeout",
	"download-dir": "download_dir",
	"xlsx":         "xlsx",
	"debug":        "debug",
}

// Load reads configuration from defaults, config file, environment and flags
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	envMappings := map[string]string{
		"api_base_url":   "EXOPREDICT_API_URL",
		"timeout":        "EXOPREDICT_TIMEOUT",
		"retry_attempts": "EXOPREDICT_RETRY_ATTEMPTS",
		"retry_delay":    "EXOPREDICT_RETRY_DELAY",
		"download_dir":   "EXOPREDICT_DOWNLOAD_DIR",
		"xlsx":           "EXOPREDICT_XLSX",
		"user_agent":     "EXOPREDICT_USER_AGENT",
		"debug":          "EXOPREDICT_DEBUG",
	}

	for configKey, envVar := range envMappings {
		if err := v.BindEnv(configKey, envVar); err != nil {
			log.Warn().Err(err).Msgf("Failed to bind environment variable %s for %s", envVar, configKey)
		}
	}

	if opts.Flags != nil {
		for flagName, configKey := range flagKeys {
			flag := opts.Flags.Lookup(flagName)
			if flag == nil {
				continue
			}

			if err := v.BindPFlag(configKey, flag); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag %s: %w", flagName, err)
			}
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.exopredict")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || opts.ConfigFile != "" {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Debug().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.APIBaseURL = strings.TrimRight(strings.TrimSpace(config.APIBaseURL), "/")

	if err := validateConfig(config); err != nil {
		return Config{}, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("retry_attempts", 2)
	v.SetDefault("retry_delay", time.Second)
	v.SetDefault("download_dir", ".")
	v.SetDefault("xlsx", false)
	v.SetDefault("user_agent", "")
	v.SetDefault("debug", false)
}

func validateConfig(config Config) error {
	var problems []string

	parsed, err := url.Parse(config.APIBaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		problems = append(problems, fmt.Sprintf("api_base_url %q must be an http(s) URL", config.APIBaseURL))
	}

	if config.Timeout <= 0 {
		problems = append(problems, "timeout must be positive")
	}

	if config.RetryAttempts < 0 {
		problems = append(problems, "retry_attempts must not be negative")
	}

	if config.RetryDelay < 0 {
		problems = append(problems, "retry_delay must not be negative")
	}

	if config.DownloadDir == "" {
		problems = append(problems, "download_dir must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}
