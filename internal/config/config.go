// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/jeranaias/bradai-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete bradai configuration.
type Config struct {
	API  APIConfig  `toml:"api" mapstructure:"api"`
	Chat ChatConfig `toml:"chat" mapstructure:"chat"`
	UI   UIConfig   `toml:"ui" mapstructure:"ui"`
	Log  LogConfig  `toml:"log" mapstructure:"log"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	// BaseURL is the API root, e.g. http://localhost:5000/api
	BaseURL string `toml:"base_url" mapstructure:"base_url" validate:"required,http_url"`
	// TimeoutSecs bounds each backend request.
	TimeoutSecs int `toml:"timeout_secs" mapstructure:"timeout_secs" validate:"min=1,max=600"`
}

// Timeout returns the request timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ChatConfig contains conversation settings.
type ChatConfig struct {
	// DefaultModel is selected at startup and used as the catalog fallback.
	DefaultModel string `toml:"default_model" mapstructure:"default_model" validate:"required"`
	// HealthIntervalSecs is the delay between backend health checks.
	HealthIntervalSecs int `toml:"health_interval_secs" mapstructure:"health_interval_secs" validate:"min=1,max=3600"`
}

// HealthInterval returns the delay between health checks.
func (c ChatConfig) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSecs) * time.Second
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme" mapstructure:"theme" validate:"oneof=auto dark light"`
	// Locale is a BCP 47 tag used for number formatting.
	Locale string `toml:"locale" mapstructure:"locale" validate:"required,bcp47_language_tag"`
	// MaxInputRows caps the height of the input box.
	MaxInputRows int `toml:"max_input_rows" mapstructure:"max_input_rows" validate:"min=1,max=20"`
	// ShowSidebar shows the model/insight sidebar on startup.
	ShowSidebar bool `toml:"show_sidebar" mapstructure:"show_sidebar"`
}

// Language returns the parsed locale, falling back to English.
func (c UIConfig) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// LogConfig contains diagnostic logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	// File is the log path; empty means ~/.bradai/bradai.log.
	File string `toml:"file" mapstructure:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// DefaultModel is the model selected when nothing else is configured.
const DefaultModel = "brad-ai-1.12.2x"

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://localhost:5000/api",
			TimeoutSecs: 60,
		},
		Chat: ChatConfig{
			DefaultModel:       DefaultModel,
			HealthIntervalSecs: 30,
		},
		UI: UIConfig{
			Theme:        "auto",
			Locale:       "en-US",
			MaxInputRows: 6,
			ShowSidebar:  true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// EnvPrefix prefixes environment overrides, e.g. BRADAI_API_BASE_URL.
const EnvPrefix = "BRADAI"

// ConfigDir returns the bradai configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".bradai"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the configured log file, or the default in ConfigDir.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bradai.log"), nil
}

// =============================================================================
// SETTING KEYS
// =============================================================================

// Dotted setting keys, shared by the TOML file, environment variables and
// flag bindings.
const (
	KeyBaseURL        = "api.base_url"
	KeyTimeout        = "api.timeout_secs"
	KeyDefaultModel   = "chat.default_model"
	KeyHealthInterval = "chat.health_interval_secs"
	KeyTheme          = "ui.theme"
	KeyLocale         = "ui.locale"
	KeyMaxInputRows   = "ui.max_input_rows"
	KeyShowSidebar    = "ui.show_sidebar"
	KeyLogLevel       = "log.level"
	KeyLogFile        = "log.file"
)

// settings flattens c into dotted keys.
func (c *Config) settings() map[string]any {
	return map[string]any{
		KeyBaseURL:        c.API.BaseURL,
		KeyTimeout:        c.API.TimeoutSecs,
		KeyDefaultModel:   c.Chat.DefaultModel,
		KeyHealthInterval: c.Chat.HealthIntervalSecs,
		KeyTheme:          c.UI.Theme,
		KeyLocale:         c.UI.Locale,
		KeyMaxInputRows:   c.UI.MaxInputRows,
		KeyShowSidebar:    c.UI.ShowSidebar,
		KeyLogLevel:       c.Log.Level,
		KeyLogFile:        c.Log.File,
	}
}

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Options controls where Load reads from.
type Options struct {
	// Path is the TOML file. Empty uses ConfigPath(); a missing file at the
	// default path is not an error.
	Path string

	// Flags maps setting keys to command-line flags. A flag only overrides
	// when it was set on the command line.
	Flags map[string]*pflag.Flag
}

// Load builds the configuration: defaults, then the TOML file, then
// BRADAI_* environment variables, then command-line flags. The result is
// validated.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	path := opts.Path
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, err
			}
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := cfg.applyOverrides(opts.Flags); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys absent from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// applyOverrides layers environment variables and set flags over cfg.
func (c *Config) applyOverrides(flags map[string]*pflag.Flag) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, val := range c.settings() {
		v.SetDefault(key, val)
	}
	for key, flag := range flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}

	var out Config
	if err := v.Unmarshal(&out); err != nil {
		return fmt.Errorf("apply overrides: %w", err)
	}
	*c = out
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Encode returns cfg as commented TOML.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# bradai configuration file\n")
	buf.WriteString("# Every key can be overridden with a BRADAI_* environment variable,\n")
	buf.WriteString("# e.g. BRADAI_API_BASE_URL.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveTOML writes cfg to path atomically, creating parent directories.
func SaveTOML(cfg *Config, path string) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
			return name
		})
	})
	return validate
}

// Validate checks field constraints and returns ValidateErrors naming each
// offending key.
func (c *Config) Validate() error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make(ValidateErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   dottedKey(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return errs
}

// dottedKey turns "Config.api.base_url" into "api.base_url".
func dottedKey(ns string) string {
	_, rest, found := strings.Cut(ns, ".")
	if !found {
		return ns
	}
	return rest
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "http_url":
		return fmt.Sprintf("%q is not an http(s) URL", fe.Value())
	case "oneof":
		return fmt.Sprintf("%v must be one of [%s]", fe.Value(), fe.Param())
	case "min":
		return fmt.Sprintf("%v is below the minimum %s", fe.Value(), fe.Param())
	case "max":
		return fmt.Sprintf("%v is above the maximum %s", fe.Value(), fe.Param())
	case "bcp47_language_tag":
		return fmt.Sprintf("%q is not a BCP 47 language tag", fe.Value())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
