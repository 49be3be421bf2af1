// Package cmd provides the command-line interface for the Changerawr
// markup toolchain.
//
// Configuration sources, highest priority first:
//  1. Command-line flags (--cum, --port, ...)
//  2. Environment variables with the CHANGERAWR_ prefix
//     (CHANGERAWR_ENGINE_CUM_ENABLED, CHANGERAWR_SERVER_PORT, ...)
//  3. A .changerawr.yml configuration file
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Supernova3339/changerawr-sub000/internal/config"
	"github.com/Supernova3339/changerawr-sub000/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "changerawr-markup",
	Short: "Render Changerawr markup (markdown + CUM directives) to HTML",
	Long: `changerawr-markup compiles the constrained markdown grammar used across
Changerawr, standard inline and block markdown plus the CUM directive
dialect for buttons, alerts, embeds, and tables, into sanitized HTML.

Commands:
  render    Compile a markdown file (or stdin) to HTML
  tokens    Dump the parsed token tree as JSON or YAML
  serve     Preview a markdown file in the browser with live reload
  version   Print build information`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .changerawr.yml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("cum", true, "enable the CUM directive dialect")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("engine.cum_enabled", rootCmd.PersistentFlags().Lookup("cum"))
}

// initConfig wires viper to the config file and environment.
func initConfig() {
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".changerawr")
	}

	viper.SetEnvPrefix("CHANGERAWR")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing config file is fine; defaults and env cover everything
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the logger from loaded configuration.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(&logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}
