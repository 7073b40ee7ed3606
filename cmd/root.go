// Package cmd provides the pagebuilder command-line interface.
//
// Configuration is read with the following precedence, highest first:
//
//  1. Command-line flags (--port, --mode, --log-level, ...)
//  2. PAGEBUILDER_<SECTION>_<KEY> environment variables
//  3. The config file: --config, else PAGEBUILDER_CONFIG_FILE, else
//     .pagebuilder.yml in the working directory
//  4. Built-in defaults
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/pagebuilder/internal/config"
	"github.com/conneroisu/pagebuilder/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pagebuilder",
	Short: "A visual website builder that exports standalone HTML",
	Long: `pagebuilder composes a single web page from predefined blocks (header,
hero, section, contact form) and exports it as one self-contained HTML file.

Quick Start:
  pagebuilder serve                         Open the editor in your browser
  pagebuilder templates                     List the built-in templates
  pagebuilder export --template portfolio   Write a template straight to index.html`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is .pagebuilder.yml, can also use PAGEBUILDER_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	AddFlagValidation(rootCmd.PersistentFlags(), "log-format", ValidateFormat("text", "json"))
}

// initConfig points viper at the config file and enables env overrides.
// A missing file is not an error; defaults apply.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("PAGEBUILDER_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pagebuilder")
	}

	viper.SetEnvPrefix("PAGEBUILDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig loads the configuration and builds the logger it describes.
func loadConfig(cmd *cobra.Command) (*config.Config, *logging.BuilderLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	lc := cfg.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	return cfg, logging.NewLogger(lc), nil
}
