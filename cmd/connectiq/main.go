package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/connectiq/connectiq-tui/internal/api"
	"github.com/connectiq/connectiq-tui/internal/config"
	"github.com/connectiq/connectiq-tui/internal/db"
	"github.com/connectiq/connectiq-tui/internal/tui"
	"github.com/connectiq/connectiq-tui/internal/version"
)

func main() {
	// Essential command line flags only (GNU-style double dashes)
	configPathFlag := flag.String("config", "", "Path to JSON configuration file (default: ~/.config/connectiq/config.json)")
	baseURLFlag := flag.String("base-url", "", "ConnectIQ service base URL (overrides config)")
	dbPathFlag := flag.String("db", "", "Path to the local SQLite store (default: ~/.config/connectiq/connectiq.db)")
	versionFlag := flag.Bool("version", false, "Show version information and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\n", version.GetVersionString())
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # Run with default configuration\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --base-url https://api.example   # Point at another service\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --config custom.json             # Use custom configuration\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  CONNECTIQ_CONFIG    Override default config file path\n")
		fmt.Fprintf(os.Stderr, "  CONNECTIQ_BASE_URL  Override the service base URL\n")
		fmt.Fprintf(os.Stderr, "  CONNECTIQ_DB        Override the local store path\n")
		fmt.Fprintf(os.Stderr, "  CONNECTIQ_LOG       Override the log file path\n")
	}

	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	configPath := getConfigPath(*configPathFlag)

	manager := config.NewManager()
	if err := manager.LoadFromFile(configPath); err != nil {
		log.Printf("Warning: could not load configuration: %v", err)
		manager.LoadFromDefaults()
	}
	cfg := manager.GetConfig()

	if *baseURLFlag != "" {
		cfg.API.BaseURL = *baseURLFlag
	}

	dbPath := getDatabasePath(*dbPathFlag, cfg.Database)
	if dbPath == "" {
		log.Fatal("Could not determine a local store path. Provide it via --db or config file.")
	}

	ctx := context.Background()
	store, err := db.Open(ctx, dbPath)
	if err != nil {
		log.Fatalf("Could not open local store at %s: %v", dbPath, err)
	}
	defer store.Close()

	apiClient := api.NewClient(cfg.API.BaseURL, cfg.GetAPITimeout(), nil)

	app := tui.NewApp(cfg, apiClient, store)
	if err := app.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

// getConfigPath resolves the config file path from flag, env, then default
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONNECTIQ_CONFIG"); env != "" {
		return env
	}
	return config.DefaultConfigPath()
}

// getDatabasePath resolves the store path from flag, config, then default
func getDatabasePath(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if configValue != "" {
		return configValue
	}
	return config.DefaultDatabasePath()
}
