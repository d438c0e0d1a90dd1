package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "streamlessd",
		Short:         "streamlessd: recurring billing daemon",
		Long:          "streamlessd runs the recurring billing engine with a local scheduler and an HTTP API for creators and subscribers.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().String("config", "", "path to config file")

	rootCmd.AddCommand(
		newServeCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// loadConfig reads configuration with viper: explicit file if given, else
// ./streamlessd.yaml, with STREAMLESS_* environment overrides throughout.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	cfg := viper.New()

	cfg.SetDefault("http.addr", ":8080")
	cfg.SetDefault("store.backend", "memory")
	cfg.SetDefault("store.mongo.database", "streamless")
	cfg.SetDefault("engine.drift_tolerance", 15*time.Minute)
	cfg.SetDefault("custody.opening_balance", uint64(0))

	cfg.SetEnvPrefix("STREAMLESS")
	cfg.AutomaticEnv()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg.SetConfigFile(path)
	} else {
		cfg.SetConfigName("streamlessd")
		cfg.SetConfigType("yaml")
		cfg.AddConfigPath(".")
	}

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return cfg, nil
}
