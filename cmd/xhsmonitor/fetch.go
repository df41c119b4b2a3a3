package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"xhsmonitor/pkg/auth"
	"xhsmonitor/pkg/logger"
	"xhsmonitor/pkg/models"
)

var (
	fetchAccountID string
	fetchBundle    string
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <user_id>",
	Short: "Crawl and convert one user's published notes",
	Long: `Crawl all published notes of the target user, classify them as
video, image, or text, convert media notes into text, and store the results.

The crawl authenticates with either a registered account (--account, by id)
or a stored credential bundle (--bundle, by name; defaults to the first
stored bundle when neither flag is given). Re-running the command is safe:
notes already stored are skipped by their note id.`,
	Example: `  # Crawl with the default stored credential bundle
  xhsmonitor fetch 5ff0e6410000000001008400

  # Crawl with a registered account
  xhsmonitor fetch 5ff0e6410000000001008400 --account 6b1f...

  # Crawl with a named credential bundle
  xhsmonitor fetch 5ff0e6410000000001008400 --bundle work`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVarP(&fetchAccountID, "account", "a", "", "registered account id to crawl with")
	fetchCmd.Flags().StringVarP(&fetchBundle, "bundle", "b", "", "stored credential bundle name to crawl with")
}

func runFetch(cmd *cobra.Command, args []string) error {
	userID := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	account, err := resolveAccount(p)
	if err != nil {
		return err
	}

	log := logger.GetLogger()
	log.WithFields(map[string]interface{}{
		"user_id":    userID,
		"account_id": account.AccountID,
	}).Info("starting fetch")

	contents, crawlErr := p.crawler.FetchUserContent(account, userID)

	var saved, duplicates, failed int
	for _, content := range contents {
		inserted, err := p.store.InsertContent(content)
		if err != nil {
			return fmt.Errorf("failed to persist content: %w", err)
		}
		if !inserted {
			duplicates++
			continue
		}
		saved++

		if !p.converter.Convert(content) {
			failed++
		}
		if _, err := p.store.UpdateContent(content); err != nil {
			return fmt.Errorf("failed to persist conversion result: %w", err)
		}
	}

	fmt.Printf("Fetched %d notes: %d saved, %d duplicates, %d conversion failures\n",
		len(contents), saved, duplicates, failed)

	if crawlErr != nil {
		return fmt.Errorf("crawl aborted after partial result: %w", crawlErr)
	}
	return nil
}

// resolveAccount picks the crawl identity: a registered account by id, a
// stored credential bundle by name, or the default bundle.
func resolveAccount(p *pipeline) (*models.Account, error) {
	if fetchAccountID != "" {
		account, err := p.store.GetAccount(fetchAccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to load account: %w", err)
		}
		if account == nil {
			return nil, fmt.Errorf("account not found: %s", fetchAccountID)
		}
		return account, nil
	}

	manager, err := auth.NewManager()
	if err != nil {
		return nil, fmt.Errorf("failed to open credential manager: %w", err)
	}

	var creds *auth.Credentials
	if fetchBundle != "" {
		creds, err = manager.Retrieve(fetchBundle)
	} else {
		creds, err = manager.RetrieveDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("no usable credentials: %w (run 'xhsmonitor auth login' first)", err)
	}

	return models.NewAccount(uuid.NewString(), creds.Name, creds.UserID, creds.Cookie, creds.A1), nil
}
