package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbruegger/wallcast/internal/config"
	"github.com/mbruegger/wallcast/internal/observability"
	"github.com/mbruegger/wallcast/internal/pipeline"
	"github.com/mbruegger/wallcast/internal/server"
	"github.com/mbruegger/wallcast/internal/source"
	"github.com/mbruegger/wallcast/internal/store"
	"github.com/mbruegger/wallcast/internal/wallpaper"
)

var version = "dev"

var (
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "wallcast",
	Short:   "Mobile wallpaper channel bot",
	Long:    "Wallcast fetches mobile wallpapers from Pexels, Unsplash, and Wallhaven, filters them, and posts them to a Telegram channel on a schedule.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		observability.SetupLogging(cfg.Logging)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(rotateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("wallcast", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/wallcast/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to set the channel and provider API key variables.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show delivery statistics and rotation state",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.LoadStats()
		if err != nil {
			return fmt.Errorf("loading stats: %w", err)
		}
		rot, err := st.LoadRotation()
		if err != nil {
			return fmt.Errorf("loading rotation: %w", err)
		}

		fmt.Printf("Current source: %s (next: %s)\n\n", rot.Current(), rot.Next())
		fmt.Println("Delivery:")
		fmt.Printf("  Total sent: %d\n", stats.TotalSent)
		fmt.Printf("  Successful batches: %d\n", stats.SuccessfulBatches)
		fmt.Printf("  Failed batches: %d\n", stats.FailedBatches)
		fmt.Printf("  Filtered out: %d\n", stats.FilteredImages)
		fmt.Printf("  Success rate: %.1f%%\n", stats.SuccessRate())
		fmt.Println("\nBy source:")
		for _, src := range wallpaper.Sources() {
			fmt.Printf("  %s: %d\n", src, stats.SourcesUsed[src])
		}
		if days := stats.RecentDays(7); len(days) > 0 {
			fmt.Println("\nRecent days:")
			for _, d := range days {
				fmt.Printf("  %s: %d sent\n", d.Date, d.Sent)
			}
		}
		return nil
	},
}

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Manually advance to the next source",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		rot, err := st.LoadRotation()
		if err != nil {
			return fmt.Errorf("loading rotation: %w", err)
		}
		from := rot.Current()
		to := rot.Advance(time.Now())
		if err := st.SaveRotation(rot); err != nil {
			return fmt.Errorf("saving rotation: %w", err)
		}
		fmt.Printf("Rotated %s -> %s\n", from, to)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one delivery cycle: acquire -> dispatch -> stats -> rotate",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		pipe, err := pipeline.New(cfg, st, buildComposite())
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		result := pipe.RunCycle(ctx)
		printResult(result)
		if result.Failed() {
			return fmt.Errorf("cycle finished with errors")
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run delivery cycles on the configured interval until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		pipe, err := pipeline.New(cfg, st, buildComposite())
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		interval := time.Duration(cfg.Batch.IntervalHours) * time.Hour
		fmt.Printf("Watching: one cycle every %s. Press Ctrl+C to stop.\n", interval)
		pipe.Watch(ctx, interval)
		return nil
	},
}

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local status server",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(st, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

func printResult(result *pipeline.Result) {
	for i, step := range result.Steps {
		fmt.Printf("\nStep %d/%d: %s\n", i+1, len(result.Steps), step.Name)
		if step.Err != nil {
			fmt.Printf("  Error: %v\n", step.Err)
		} else {
			fmt.Printf("  %s\n", step.Summary)
		}
	}
	fmt.Printf("\nSent %d wallpapers from %s.\n", result.Sent, result.Source)
}

// buildComposite assembles the provider chain from config. Order matches
// the rotation cycle, so the current source's own repository is always
// consulted first.
func buildComposite() *source.Composite {
	return source.NewComposite(
		source.NewPexels(cfg.ProviderKey(wallpaper.SourcePexels)),
		source.NewUnsplash(cfg.ProviderKey(wallpaper.SourceUnsplash)),
		source.NewWallhaven(cfg.ProviderKey(wallpaper.SourceWallhaven)),
	)
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func openStore() (*store.Store, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "wallcast.db")
	return store.Open(dbPath)
}
