// Package cmd implements the command line interface
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogovalentte/mangapark-adapter/src/config"
	"github.com/diogovalentte/mangapark-adapter/src/sources"
	"github.com/diogovalentte/mangapark-adapter/src/util"
)

var (
	flagEnvFile string
	flagDebug   bool

	log *zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "mangapark-adapter",
	Short:         "Browse, search and read mangas from MangaPark",
	SilenceUsage:  true,
	SilenceErrors: true,
	// The .env file path can be absolute or relative to the working directory
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetConfigs(flagEnvFile); err != nil {
			return err
		}

		logLevel := config.GlobalConfigs.LogLevel()
		if flagDebug {
			logLevel = zerolog.DebugLevel
			config.GlobalConfigs.API.LogLevelInt = int(logLevel)
		}
		logConfigs := config.GlobalConfigs.Log
		log = util.SetupLogger(logLevel, &util.LogFile{
			Path:       logConfigs.FilePath,
			MaxSizeMB:  logConfigs.MaxSizeMB,
			MaxBackups: logConfigs.MaxBackups,
		})

		return sources.SetupMangaPark(config.GlobalConfigs.MangaPark, log)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return sources.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "path to a .env file with the configs")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		_ = sources.Close()
		os.Exit(1)
	}
}
