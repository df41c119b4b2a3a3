package main

import (
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"xhsmonitor/pkg/models"
)

var (
	accountUsername string
	accountUserID   string
	accountA1       string
)

// accountCmd represents the account command
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage registered crawling accounts",
	Long: `Manage the crawling accounts persisted in the data directory.

Registered accounts are the identities the fetch command and the HTTP API
crawl with. Unlike credential bundles (see 'xhsmonitor auth'), they live in
the store alongside crawled contents.`,
}

// accountAddCmd represents the account add command
var accountAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a crawling account",
	Long: `Register a crawling account. The cookie is read interactively
without echo; username, user id, and a1 token come from flags.`,
	Example: `  # Register an account
  xhsmonitor account add --username alice --user-id 5ff0e64... --a1 18c2...`,
	RunE: runAccountAdd,
}

// accountListCmd represents the account list command
var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered accounts",
	RunE:  runAccountList,
}

// accountRemoveCmd represents the account remove command
var accountRemoveCmd = &cobra.Command{
	Use:   "remove <account_id>",
	Short: "Remove a registered account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountRemove,
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountRemoveCmd)

	accountAddCmd.Flags().StringVar(&accountUsername, "username", "", "display name for the account")
	accountAddCmd.Flags().StringVar(&accountUserID, "user-id", "", "the account's own user id")
	accountAddCmd.Flags().StringVar(&accountA1, "a1", "", "the a1 token from the cookie")
}

func runAccountAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	fmt.Print("Full cookie value (hidden as you type): ")
	cookieBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read cookie: %w", err)
	}
	fmt.Println()

	cookie := strings.TrimSpace(string(cookieBytes))
	if cookie == "" {
		return fmt.Errorf("cookie is required")
	}

	account := models.NewAccount(uuid.NewString(), accountUsername, accountUserID, cookie, accountA1)

	added, err := p.store.AddAccount(account)
	if err != nil {
		return fmt.Errorf("failed to persist account: %w", err)
	}
	if !added {
		return fmt.Errorf("account already exists: %s", account.AccountID)
	}

	fmt.Printf("Account registered: %s\n", account.AccountID)
	return nil
}

func runAccountList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	accounts, err := p.store.GetAllAccounts()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		fmt.Println("No registered accounts. Run 'xhsmonitor account add' to register one.")
		return nil
	}

	fmt.Printf("Registered accounts (%d):\n\n", len(accounts))
	for _, a := range accounts {
		fmt.Printf("  %s\n", a.AccountID)
		if a.Username != "" {
			fmt.Printf("    username: %s\n", a.Username)
		}
		if a.UserID != "" {
			fmt.Printf("    user id:  %s\n", a.UserID)
		}
		fmt.Printf("    status:   %s\n", a.Status)
		fmt.Printf("    created:  %s\n\n", a.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func runAccountRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	deleted, err := p.store.DeleteAccount(args[0])
	if err != nil {
		return fmt.Errorf("failed to remove account: %w", err)
	}
	if !deleted {
		return fmt.Errorf("account not found: %s", args[0])
	}

	fmt.Printf("Account removed: %s\n", args[0])
	return nil
}
