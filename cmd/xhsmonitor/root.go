package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"xhsmonitor/pkg/config"
	"xhsmonitor/pkg/converter"
	"xhsmonitor/pkg/crawler"
	"xhsmonitor/pkg/logger"
	"xhsmonitor/pkg/signing"
	"xhsmonitor/pkg/store"
	"xhsmonitor/pkg/xhs"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	dataDir    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xhsmonitor",
	Short: "Crawl, classify, and convert a user's published notes",
	Long: `xhsmonitor crawls the published notes of target users through
registered accounts, classifies each note as video, image, or text, converts
media notes into searchable text, and stores everything deduplicated by note
id.

Features:
  - Secure credential storage using the system keychain
  - Cursor pagination driven to exhaustion with rate-limit pacing
  - Media-to-text conversion with graceful fallback
  - Idempotent storage safe to re-crawl
  - HTTP API for account management and crawl triggering`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.xhsmonitor.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for persisted accounts and contents")

	rootCmd.SetVersionTemplate(`xhsmonitor {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig merges the config file, environment, and global flags, then
// initializes the global logger.
func loadConfig() (*config.Config, error) {
	flags := make(map[string]interface{})
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	if dataDir != "" {
		flags["data-dir"] = dataDir
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	logger.Initialize(&cfg.Logging)
	return cfg, nil
}

// pipeline bundles the wired components behind every command.
type pipeline struct {
	store     *store.Store
	crawler   *crawler.Crawler
	converter converter.Converter
}

// buildPipeline wires the store, crawler, and converter from configuration.
func buildPipeline(cfg *config.Config) (*pipeline, error) {
	log := logger.GetLogger()

	st, err := store.New(cfg.Storage.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	signer := signing.NewAdapter(signing.LocalSignFunc(), "", log)

	factory := func(cookie, a1 string) crawler.Catalog {
		return xhs.NewClient(cookie, a1, signer, xhs.Options{
			BaseURL:    cfg.API.BaseURL,
			WebBaseURL: cfg.API.WebBaseURL,
			UserAgent:  cfg.API.UserAgent,
			Timeout:    cfg.API.RequestTimeout,
		}, log)
	}

	return &pipeline{
		store:     st,
		crawler:   crawler.New(factory, nil, cfg.Crawl, log),
		converter: converter.NewBackend(cfg.Conversion, log),
	}, nil
}
