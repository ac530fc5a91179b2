package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tripmate/internal/cli"
	"tripmate/internal/config"
	"tripmate/internal/logger"
	"tripmate/internal/server"
	"tripmate/internal/whatsapp"
)

var (
	version = "0.1.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tripmate",
		Short: "TripMate - messaging-channel travel assistant",
		Long: `TripMate is a travel assistant that answers chat messages over a
messaging channel webhook.

It can:
  • Greet users and track per-user contact history
  • Build booking deep links from booking-style requests
  • Answer general questions with retrieval over ingested documents`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigWithLogger()
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}

	ingestCmd := &cobra.Command{
		Use:   "ingest <path>...",
		Short: "Ingest documents into the semantic index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigWithLogger()
			if err != nil {
				return err
			}
			return runIngest(cfg, args)
		},
	}

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session against the engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigWithLogger()
			if err != nil {
				return err
			}
			return cli.Run(cfg)
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			fmt.Println(cfg.String())

			path, _ := config.ConfigPath()
			fmt.Printf("\nConfig file path: %s\n", path)
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("TripMate v%s\n", version)
		},
	}

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// loadConfigWithLogger loads config and initializes the default logger.
func loadConfigWithLogger() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		LogDir:     config.LogDir(),
		Level:      logger.INFO,
		MaxDays:    7,
		ConsoleOut: true,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}

// runServer assembles the engine and serves the webhook endpoints.
func runServer(cfg *config.Config) error {
	ctx := context.Background()

	rt, err := cli.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	sender := whatsapp.NewClient(
		cfg.WhatsApp.BaseURL,
		cfg.WhatsApp.AccessToken,
		cfg.WhatsApp.PhoneNumberID,
	)

	srv := server.New(rt.Engine, rt.Pipeline, sender, cfg.WhatsApp.VerifyToken, cfg.Server.UploadDir)
	return srv.ListenAndServe(cfg.Server.Addr)
}

// runIngest feeds each document through the ingestion pipeline.
func runIngest(cfg *config.Config, paths []string) error {
	ctx := context.Background()

	rt, err := cli.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	failed := 0
	for _, path := range paths {
		if rt.Pipeline.Ingest(ctx, path) {
			fmt.Printf("ingested %s\n", path)
		} else {
			fmt.Printf("failed to ingest %s (see logs)\n", path)
			failed++
		}
	}
	fmt.Printf("index now holds %d chunks\n", rt.Index.Count())

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(paths))
	}
	return nil
}
