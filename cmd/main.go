package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"s3public/internal/app"
	"s3public/internal/config"
	"s3public/internal/logger"
	"s3public/internal/progress"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile   string
	createConfig bool
	listBuckets  bool
)

var rootCmd = &cobra.Command{
	Use:   "s3public",
	Short: "Make objects public on S3-compatible storage services",
	Long: `Iterates the objects of an S3-compatible bucket under an optional prefix
and sets their ACL to public-read, with dry-run preview, progress reporting
and a per-run summary. Supports Amazon S3, DigitalOcean Spaces, Wasabi,
Backblaze B2, MinIO and custom endpoints.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (YAML)")
	rootCmd.Flags().BoolVar(&createConfig, "create-config", false, "Write a sample config.yaml and exit")

	// Service flags
	rootCmd.Flags().String("service", "", "Storage service ("+config.ServiceNames()+")")
	rootCmd.Flags().String("region", "", "Region name")
	rootCmd.Flags().String("access-key", "", "Access key ID (falls back to AWS_ACCESS_KEY_ID)")
	rootCmd.Flags().String("secret-key", "", "Secret access key (falls back to AWS_SECRET_ACCESS_KEY)")
	rootCmd.Flags().String("endpoint", "", "Custom endpoint URL (overrides the service default)")

	// Operation flags
	rootCmd.Flags().String("bucket", "", "Bucket name")
	rootCmd.Flags().String("prefix", "", "Object prefix filter")
	rootCmd.Flags().Bool("recursive", true, "Include subdirectories (--recursive=false for direct children only)")
	rootCmd.Flags().Bool("dry-run", false, "Show what would be made public without changing anything")
	rootCmd.Flags().BoolVar(&listBuckets, "list-buckets", false, "List available buckets and exit")

	rootCmd.Flags().Int("concurrency", 1, "Number of concurrent workers")
	rootCmd.Flags().String("log-level", "info", "Log level (debug/info/warn/error)")
	rootCmd.Flags().Bool("show-progress", true, "Show live progress display")
	rootCmd.Flags().String("metrics-addr", "", "Prometheus metrics listen address (disabled when empty)")
	rootCmd.Flags().String("report", "", "Outcome report database file (disabled when empty)")
}

func run(cmd *cobra.Command, args []string) error {
	if createConfig {
		if err := config.WriteSample("config.yaml"); err != nil {
			return fmt.Errorf("failed to write sample config: %w", err)
		}
		fmt.Println("Sample configuration file created: config.yaml")
		fmt.Println("Edit it with your credentials before running.")
		return nil
	}

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Received shutdown signal, finishing current objects...")
		cancel()
	}()

	runner, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	defer func() {
		if closeErr := runner.Close(); closeErr != nil {
			log.Error("Error closing runner", zap.Error(closeErr))
		}
	}()

	if listBuckets {
		buckets, err := runner.ListBuckets(ctx)
		if err != nil {
			return fmt.Errorf("failed to list buckets: %w", err)
		}
		for _, bucket := range buckets {
			fmt.Printf("  - %s\n", bucket)
		}
		return nil
	}

	if cfg.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}

	summary, runErr := runner.Run(ctx)
	progress.PrintSummary(summary)

	// Per-object failures are reflected in the summary, not the exit code; a
	// listing-level failure is fatal.
	if runErr != nil {
		return fmt.Errorf("run failed: %w", runErr)
	}

	if summary.Succeeded > 0 && !cfg.DryRun {
		svc := config.Services[cfg.Service]
		log.Info("Objects are now publicly accessible",
			zap.String("service", svc.Name),
			zap.String("region", cfg.Region),
			zap.String("bucket", cfg.Bucket),
			zap.String("prefix", cfg.Prefix),
		)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
