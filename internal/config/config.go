// Package config provides configuration management for pagebuilder using
// Viper for loading from files, environment variables and command-line
// flags.
//
// Values are read from .pagebuilder.yml (or the file named by --config or
// PAGEBUILDER_CONFIG_FILE) and may be overridden with PAGEBUILDER_<SECTION>_<KEY>
// environment variables. Load applies defaults and validates the result.
package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/viper"

	"github.com/conneroisu/pagebuilder/internal/catalog"
	"github.com/conneroisu/pagebuilder/internal/editor"
	builderrors "github.com/conneroisu/pagebuilder/internal/errors"
	"github.com/conneroisu/pagebuilder/internal/logging"
	"github.com/conneroisu/pagebuilder/internal/validation"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Editor  EditorConfig  `mapstructure:"editor" yaml:"editor"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" yaml:"port"`
	Host           string   `mapstructure:"host" yaml:"host"`
	Open           bool     `mapstructure:"open" yaml:"open"`
	NoOpen         bool     `mapstructure:"no-open" yaml:"no-open"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	Environment    string   `mapstructure:"environment" yaml:"environment"`
}

type EditorConfig struct {
	DefaultMode     string `mapstructure:"default_mode" yaml:"default_mode"`
	DefaultTemplate string `mapstructure:"default_template" yaml:"default_template"`
}

type ExportConfig struct {
	FileName string `mapstructure:"file_name" yaml:"file_name"`
	Title    string `mapstructure:"title" yaml:"title"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.open", true)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.environment", "development")
	v.SetDefault("editor.default_mode", string(editor.ModeEdit))
	v.SetDefault("editor.default_template", "blank")
	v.SetDefault("export.file_name", "index.html")
	v.SetDefault("export.title", "My Website")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads, defaults and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, builderrors.NewConfigError(builderrors.ErrCodeConfigInvalid, "decode configuration").
			WithCause(err)
	}

	// Slices set through env vars arrive as a single space separated string.
	if v.IsSet("server.allowed_origins") && len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}

	// Override open if --no-open was given
	if config.Server.NoOpen {
		config.Server.Open = false
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoggerConfig builds the logger settings described by the logging section.
// Load has already validated the level.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	lc := logging.DefaultConfig()
	lc.Level, _ = logging.ParseLevel(c.Logging.Level)
	lc.Format = c.Logging.Format
	return lc
}

// Address returns the host:port the editor server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func invalid(section, message string, kv ...interface{}) *builderrors.BuilderError {
	err := builderrors.NewConfigError(builderrors.ErrCodeConfigInvalid, section+": "+message)
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			err.WithContext(key, kv[i+1])
		}
	}
	return err
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return err
	}
	if err := validateEditorConfig(&config.Editor); err != nil {
		return err
	}
	if err := validateExportConfig(&config.Export); err != nil {
		return err
	}
	return validateLoggingConfig(&config.Logging)
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// 0 lets the OS pick a port, which tests rely on.
	if config.Port < 0 || config.Port > 65535 {
		return invalid("server", fmt.Sprintf("port %d is not in valid range 0-65535", config.Port), "port", config.Port)
	}

	if err := validation.ValidateHost(config.Host); err != nil {
		return invalid("server", err.Error(), "host", config.Host)
	}

	for _, origin := range config.AllowedOrigins {
		if err := validation.ValidateOrigin(origin); err != nil {
			return invalid("server", err.Error(), "origin", origin)
		}
	}

	return nil
}

func validateEditorConfig(config *EditorConfig) error {
	if _, err := editor.ParseMode(config.DefaultMode); err != nil {
		return invalid("editor", "unknown default_mode", "mode", config.DefaultMode)
	}
	if _, ok := catalog.Lookup(config.DefaultTemplate); !ok {
		return invalid("editor", "unknown default_template", "template", config.DefaultTemplate)
	}
	return nil
}

// validateExportConfig keeps the export file inside the output directory.
func validateExportConfig(config *ExportConfig) error {
	if err := validation.ValidateFileName(config.FileName); err != nil {
		return invalid("export", err.Error(), "file_name", config.FileName)
	}
	return nil
}

func validateLoggingConfig(config *LoggingConfig) error {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		return invalid("logging", "unknown level", "level", config.Level)
	}
	switch config.Format {
	case "text", "json":
		return nil
	default:
		return invalid("logging", "format must be text or json", "format", config.Format)
	}
}
