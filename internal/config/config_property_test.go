//go:build property

package config

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestConfigurationProperties tests validation over generated values.
func TestConfigurationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(8080)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080, Host: "localhost"},
			Editor:  EditorConfig{DefaultMode: "edit", DefaultTemplate: "blank"},
			Export:  ExportConfig{FileName: "index.html"},
			Logging: LoggingConfig{Level: "info", Format: "text"},
		}
	}

	properties.Property("ports are accepted exactly within 0-65535", prop.ForAll(
		func(port int) bool {
			cfg := valid()
			cfg.Server.Port = port
			err := validateConfig(cfg)
			return (err == nil) == (port >= 0 && port <= 65535)
		},
		gen.IntRange(-100000, 100000),
	))

	properties.Property("hosts with shell metacharacters are rejected", prop.ForAll(
		func(host string, pick int) bool {
			metachars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "'", "\\"}
			bad := metachars[pick%len(metachars)]
			cfg := valid()
			cfg.Server.Host = host + bad + host
			return validateConfig(cfg) != nil
		},
		gen.AlphaString(),
		gen.IntRange(0, 100),
	))

	properties.Property("export file names never carry a directory", prop.ForAll(
		func(dir, name string) bool {
			cfg := valid()
			cfg.Export.FileName = dir + "/" + name
			if validateConfig(cfg) == nil {
				return false
			}
			cfg.Export.FileName = name + ".html"
			return validateConfig(cfg) == nil
		},
		gen.AlphaString(),
		gen.AlphaString().SuchThat(func(s string) bool { return !strings.Contains(s, ".") }),
	))

	properties.TestingRun(t)
}
