package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Inventure71/EvolveProject/internal/config"
	"github.com/Inventure71/EvolveProject/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "evolve",
	Short:         "Tool-calling agent harness",
	Long:          `Evolve drives a language model through a tool-calling loop until the task is finished.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd)
		if err != nil {
			return err
		}

		logCloser, err = logger.Setup(cfg.Log.Level, cfg.Log.File)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.evolve/config.yaml)")
	rootCmd.PersistentFlags().String("provider.name", config.DefaultProviderName, "model provider (google, openai, ollama, anthropic)")
	rootCmd.PersistentFlags().String("provider.model", "", "model name (provider default when empty)")
	rootCmd.PersistentFlags().String("log.level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log.file", "", "also write JSON logs to this file")
	rootCmd.PersistentFlags().String("tools.workdir", "", "base directory for builtin tools")
	rootCmd.PersistentFlags().String("tools.manifest_dir", config.DefaultToolsManifestDir, "directory of YAML tool manifests")
}
