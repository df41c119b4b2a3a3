package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"xhsmonitor/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored credential bundles",
	Long: `Manage stored credential bundles securely.

Bundles are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your cookies or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store a credential bundle securely",
	Long: `Store a credential bundle securely in the system keychain or an
encrypted file.

You will be prompted for:
  - A bundle name (if not provided)
  - The full cookie value from a logged-in browser session
  - The a1 token contained in that cookie
  - The account's user id (optional)`,
	Example: `  # Interactive login
  xhsmonitor auth login

  # Login with a bundle name
  xhsmonitor auth login work`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout <name>",
	Short: "Remove a stored credential bundle",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogout,
}

// authListCmd represents the auth list command
var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credential bundles",
	Long:  `List all stored credential bundles with sensitive values masked.`,
	RunE:  runAuthList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(authListCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	auth.ShowCookieExtractionGuide()

	if name == "" {
		fmt.Print("Bundle name: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read bundle name: %w", err)
		}
		name = strings.TrimSpace(input)
	}
	if name == "" {
		return fmt.Errorf("bundle name is required")
	}

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("Bundle '%s' already exists. Update it? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Println("\nEnter your cookie values (hidden as you type):")

	fmt.Print("Full cookie value: ")
	cookie, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read cookie: %w", err)
	}
	if cookie == "" {
		return fmt.Errorf("cookie is required")
	}

	fmt.Print("\na1 token: ")
	a1, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read a1 token: %w", err)
	}

	fmt.Print("\n\nAccount user id (optional, press Enter to skip): ")
	userID, _ := reader.ReadString('\n')
	userID = strings.TrimSpace(userID)

	creds := &auth.Credentials{
		Name:         name,
		Cookie:       cookie,
		A1:           a1,
		UserID:       userID,
		LastModified: time.Now(),
	}

	fmt.Println("\nStoring credentials securely...")
	if err := manager.Store(creds); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	fmt.Printf("Bundle saved: %s\n", name)
	fmt.Println("\nYour credentials are encrypted and stored in:")
	if auth.IsKeyringAvailable() {
		fmt.Println("  - System keychain (primary)")
	}
	fmt.Println("  - Encrypted file (backup)")
	fmt.Println("\nNext, crawl a user's notes:")
	fmt.Printf("  $ xhsmonitor fetch <user_id> --bundle %s\n", name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	name := args[0]
	if err := manager.Delete(name); err != nil {
		return fmt.Errorf("failed to remove bundle: %w", err)
	}

	fmt.Printf("Bundle removed: %s\n", name)
	return nil
}

func runAuthList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	bundles, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list bundles: %w", err)
	}
	if len(bundles) == 0 {
		fmt.Println("No stored credential bundles. Run 'xhsmonitor auth login' to add one.")
		return nil
	}

	fmt.Printf("Stored credential bundles (%d):\n\n", len(bundles))
	for _, creds := range bundles {
		masked := auth.SanitizeCredentials(creds)
		fmt.Printf("  %s\n", masked.Name)
		fmt.Printf("    cookie:   %s\n", masked.Cookie)
		if masked.A1 != "" {
			fmt.Printf("    a1:       %s\n", masked.A1)
		}
		if masked.UserID != "" {
			fmt.Printf("    user id:  %s\n", masked.UserID)
		}
		fmt.Printf("    modified: %s\n\n", masked.LastModified.Format(time.RFC3339))
	}
	return nil
}

// readPassword reads a line without echoing it
func readPassword() (string, error) {
	data, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
