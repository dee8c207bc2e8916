package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// DefaultEndpoint is the dashboard the client was written against.
const DefaultEndpoint = "https://home.personalcapital.com"

// DefaultUserAgent mirrors a desktop browser; the dashboard rejects
// obviously non-browser agents on the login path.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/98.0.4758.102 Safari/537.36"

// DefaultConfig returns the built-in defaults without reading any
// file or environment source.
func DefaultConfig() *Config {

	v := viper.New()
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		logrus.Fatalf("error unmarshaling default config: %v", err)
	}

	return &config
}

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	if err := setupViperConfig(v, configFile); err != nil {
		return nil, err
	}

	bindEnvironmentVariables(v)

	config, err := readAndUnmarshalConfig(v)
	if err != nil {
		return nil, err
	}

	if err := setupLogging(config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFile loads the .env file if it exists
func loadEnvFile() error {
	if err := gotenv.Load(); err != nil {
		// .env file not found, that's okay - continue with other sources
		if !os.IsNotExist(err) {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}
	return nil
}

// setupViperConfig configures viper with file paths and defaults
func setupViperConfig(v *viper.Viper, configFile string) error {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/capsync")

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
	}

	if err := setupHomeConfigPath(v); err != nil {
		return err
	}

	setDefaults(v)

	v.SetEnvPrefix("CAPSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)

	return nil
}

// setupHomeConfigPath adds the home directory config path if available
func setupHomeConfigPath(v *viper.Viper) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	configPath := filepath.Join(home, ".config", "capsync")
	v.AddConfigPath(configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.MkdirAll(configPath, 0700); err != nil {
			logrus.Errorf("Failed to create config directory: %v", err)
		}
	}

	return nil
}

// bindEnvironmentVariables binds all environment variables to viper
func bindEnvironmentVariables(v *viper.Viper) {
	v.BindEnv("api.endpoint", "CAPSYNC_API_ENDPOINT")
	v.BindEnv("api.user_agent", "CAPSYNC_API_USER_AGENT")
	v.BindEnv("api.timeout", "CAPSYNC_API_TIMEOUT")

	v.BindEnv("cache.enabled", "CAPSYNC_CACHE_ENABLED")
	v.BindEnv("cache.dir", "CAPSYNC_CACHE_DIR")

	v.BindEnv("challenge.max_attempts", "CAPSYNC_CHALLENGE_MAX_ATTEMPTS")
	v.BindEnv("login.identity", "CAPSYNC_LOGIN_IDENTITY")
	v.BindEnv("login.verify_cached", "CAPSYNC_LOGIN_VERIFY_CACHED")

	v.BindEnv("logging.level", "CAPSYNC_LOGGING_LEVEL")
	v.BindEnv("logging.format", "CAPSYNC_LOGGING_FORMAT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.endpoint", DefaultEndpoint)
	v.SetDefault("api.user_agent", DefaultUserAgent)
	v.SetDefault("api.timeout", 30*time.Second)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.dir", "")

	v.SetDefault("challenge.max_attempts", 3)
	v.SetDefault("login.identity", "")
	v.SetDefault("login.verify_cached", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// readAndUnmarshalConfig reads the config file and unmarshals it
func readAndUnmarshalConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is fine, we have defaults and env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setupLogging configures the logging system based on the config
func setupLogging(config *Config) error {
	logrusLevel, err := logrus.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}

	logrus.SetLevel(logrusLevel)

	switch strings.ToLower(config.Logging.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{})
	default:
		return fmt.Errorf("unknown logging format: %s", config.Logging.Format)
	}

	return nil
}
