package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mediq-health/mediq/internal/api"
	"github.com/mediq-health/mediq/internal/config"
	"github.com/mediq-health/mediq/internal/credentials"
	"github.com/mediq-health/mediq/internal/database"
	"github.com/mediq-health/mediq/internal/server"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "mediq",
	Short:   "MedIQ researcher workbench",
	Long:    "mediq drives the MedIQ research API: authentication, research sessions, and exploratory data analysis from the command line.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

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
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mediq", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/mediq/",
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
		fmt.Println("Edit it to point at your MedIQ API, then run 'mediq login'.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show workbench status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		creds, err := credStore().Load()
		if err != nil {
			return err
		}

		if creds != nil && creds.Researcher != nil {
			fmt.Printf("Logged in as: %s <%s>\n", creds.Researcher.FullName, creds.Researcher.Email)
		} else {
			fmt.Println("Not logged in. Run 'mediq login'.")
		}

		fmt.Println("\nSessions:")
		fmt.Printf("  Cached: %d\n", stats.CachedSessions)
		if stats.ActiveSessionID != "" {
			fmt.Printf("  Selected: %s\n", stats.ActiveSessionID)
		} else {
			fmt.Println("  Selected: none")
		}

		fmt.Println("\nAnalyses:")
		fmt.Printf("  Recorded: %d\n", stats.AnalysisRuns)
		if stats.LastRunAt != "" {
			fmt.Printf("  Last run: %s\n", stats.LastRunAt)
		}

		fmt.Println("\nConsent toggles:")
		fmt.Printf("  Total: %d\n", stats.Toggles)
		fmt.Printf("  Enabled: %d\n", stats.EnabledToggles)
		return nil
	},
}

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting dashboard at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run the dashboard on (default from config)")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "mediq.db")
	return database.Open(dbPath)
}

func credStore() *credentials.Store {
	return credentials.NewStore(cfg.GetDataDir())
}

func newClient() *api.Client {
	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second
	return api.New(cfg.API.BaseURL, credStore(), timeout)
}
