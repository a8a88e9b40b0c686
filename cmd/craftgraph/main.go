// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the craftgraph CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/craftgraph/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from the log flags before any subcommand runs.
var logger = zap.NewNop()

// rootCmd is the base command for the craftgraph CLI.
var rootCmd = &cobra.Command{
	Use:   "craftgraph",
	Short: "Extract the Minecraft item transformation graph from wiki pages",
	Long: `craftgraph turns Minecraft wiki pages into a normalized graph of item
transformations: crafting, smelting, smithing, stonecutting, trading, mob
drops, brewing, composting, grindstone and bartering.

Each pipeline stage is a subcommand: fetch caches the wiki pages, extract
builds the transformation list, validate checks the exported files and
store indexes the results in SQLite for graph queries.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, err := logging.New(viper.GetString("log.level"), viper.GetString("log.format"))
		if err != nil {
			return err
		}
		logger = log
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./craftgraph.yaml or ~/.config/craftgraph/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log encoding: console or json")
	bindFlag(rootCmd.PersistentFlags(), "log.level", "log-level")
	bindFlag(rootCmd.PersistentFlags(), "log.format", "log-format")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("craftgraph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "craftgraph"))
		}
	}

	viper.SetEnvPrefix("CRAFTGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlag ties a config key to a flag so the flag wins when set and the
// config file or CRAFTGRAPH_ environment supplies the value otherwise.
func bindFlag(flags *pflag.FlagSet, key, name string) {
	if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", name, err))
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
