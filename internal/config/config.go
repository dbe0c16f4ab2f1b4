// Package config loads the userfinder settings from defaults,
// an optional JSON file, a .env file and the process environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/patric-chuzhbe/userfinder/internal/logger"
	"github.com/patric-chuzhbe/userfinder/internal/models"
)

// Config holds the runtime settings. Every field has a working default.
type Config struct {
	UsersURL       string        `env:"USERS_URL" validate:"required,url"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" validate:"gt=0"`
	LogLevel       string        `env:"LOG_LEVEL" validate:"loglevel"`
	LogOutput      string        `env:"LOG_OUTPUT" validate:"required"`
	DisplayFormat  string        `env:"DISPLAY_FORMAT" validate:"displayformat"`
	ConfigFile     string        `env:"CONFIG"`
}

// jsonConfig mirrors Config for the JSON file, where the timeout is a duration string.
type jsonConfig struct {
	UsersURL       string `json:"users_url"`
	RequestTimeout string `json:"request_timeout"`
	LogLevel       string `json:"log_level"`
	LogOutput      string `json:"log_output"`
	DisplayFormat  string `json:"display_format"`
}

var defaultConfig = Config{
	UsersURL:       "https://jsonplaceholder.typicode.com/users",
	RequestTimeout: 10 * time.Second,
	LogLevel:       "warn",
	LogOutput:      logger.OutputStderr,
	DisplayFormat:  string(models.FormatStandard),
}

// Format returns the configured initial display format.
func (c *Config) Format() models.Format {
	format, err := models.ParseFormat(c.DisplayFormat)
	if err != nil {
		return models.FormatStandard
	}
	return format
}

// normalizeLogLevel accepts "warning" as an alias of zap's "warn".
func normalizeLogLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return "warn"
	}
	return level
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[value]
}

func validateDisplayFormat(fieldLevel validator.FieldLevel) bool {
	_, err := models.ParseFormat(fieldLevel.Field().String())
	return err == nil
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("displayformat", validateDisplayFormat)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}

// InitOption customizes New.
type InitOption func(*initOptions)

type initOptions struct {
	disableDotEnv bool
	configFile    string
}

// WithDisableDotEnv skips loading the .env file from the working directory.
func WithDisableDotEnv(disable bool) InitOption {
	return func(options *initOptions) {
		options.disableDotEnv = disable
	}
}

// WithConfigFile reads the JSON config file at path unless CONFIG names another one.
func WithConfigFile(path string) InitOption {
	return func(options *initOptions) {
		options.configFile = path
	}
}

func applyDefaults(values *Config, defaults Config) {
	if values.UsersURL == "" {
		values.UsersURL = defaults.UsersURL
	}
	if values.RequestTimeout == 0 {
		values.RequestTimeout = defaults.RequestTimeout
	}
	if values.LogLevel == "" {
		values.LogLevel = defaults.LogLevel
	}
	if values.LogOutput == "" {
		values.LogOutput = defaults.LogOutput
	}
	if values.DisplayFormat == "" {
		values.DisplayFormat = defaults.DisplayFormat
	}
}

func applyJSONFile(values *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fromFile jsonConfig
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fromFile.UsersURL != "" {
		values.UsersURL = fromFile.UsersURL
	}
	if fromFile.RequestTimeout != "" {
		timeout, err := time.ParseDuration(fromFile.RequestTimeout)
		if err != nil {
			return fmt.Errorf("parsing request_timeout: %w", err)
		}
		values.RequestTimeout = timeout
	}
	if fromFile.LogLevel != "" {
		values.LogLevel = fromFile.LogLevel
	}
	if fromFile.LogOutput != "" {
		values.LogOutput = fromFile.LogOutput
	}
	if fromFile.DisplayFormat != "" {
		values.DisplayFormat = fromFile.DisplayFormat
	}

	return nil
}

func applyEnv(values *Config, fromEnv Config) {
	if fromEnv.UsersURL != "" {
		values.UsersURL = fromEnv.UsersURL
	}
	if fromEnv.RequestTimeout != 0 {
		values.RequestTimeout = fromEnv.RequestTimeout
	}
	if fromEnv.LogLevel != "" {
		values.LogLevel = fromEnv.LogLevel
	}
	if fromEnv.LogOutput != "" {
		values.LogOutput = fromEnv.LogOutput
	}
	if fromEnv.DisplayFormat != "" {
		values.DisplayFormat = fromEnv.DisplayFormat
	}
}

// New builds the configuration. Priority, lowest first:
// defaults, JSON file (CONFIG), .env file, environment.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if !options.disableDotEnv {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}

	var fromEnv Config
	if err := env.Parse(&fromEnv); err != nil {
		return nil, err
	}

	values := &Config{}
	applyDefaults(values, defaultConfig)

	configFile := options.configFile
	if fromEnv.ConfigFile != "" {
		configFile = fromEnv.ConfigFile
	}
	if configFile != "" {
		if err := applyJSONFile(values, configFile); err != nil {
			return nil, err
		}
		values.ConfigFile = configFile
	}

	applyEnv(values, fromEnv)
	values.LogLevel = normalizeLogLevel(values.LogLevel)

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}
