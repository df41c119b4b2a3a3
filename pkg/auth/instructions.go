package auth

import (
	"fmt"
	"strings"
)

// ShowCookieExtractionGuide displays step-by-step instructions for extracting
// the cookie bundle from a logged-in browser session
func ShowCookieExtractionGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("COOKIE EXTRACTION GUIDE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("This tool needs your web session cookies to call the catalog API.")
	fmt.Println("Follow these steps to extract them from your browser:")
	fmt.Println()

	fmt.Println("STEP 1: Open xiaohongshu in your browser")
	fmt.Println("   - Go to https://www.xiaohongshu.com")
	fmt.Println("   - Log in with your account")
	fmt.Println("   - Make sure the feed loads")
	fmt.Println()

	fmt.Println("STEP 2: Open Developer Tools")
	fmt.Println("   - Chrome/Edge/Brave: Press F12 or Ctrl+Shift+I (Cmd+Option+I on Mac)")
	fmt.Println("   - Firefox: Press F12 or Ctrl+Shift+I (Cmd+Option+I on Mac)")
	fmt.Println("   - Safari: Enable Developer menu in Preferences, then Cmd+Option+I")
	fmt.Println()

	fmt.Println("STEP 3: Go to the Network tab and refresh the page")
	fmt.Println()

	fmt.Println("STEP 4: Find your cookies")
	fmt.Println("   1. Click any request to 'edith.xiaohongshu.com'")
	fmt.Println("   2. Go to the 'Headers' section, 'Request Headers'")
	fmt.Println("   3. Copy the full 'Cookie:' line value")
	fmt.Println("   4. Within it, note the 'a1=' value separately; the signer needs it")
	fmt.Println()

	fmt.Println("TIPS:")
	fmt.Println("   - Copy the ENTIRE cookie value, without quotes or a trailing semicolon")
	fmt.Println("   - Cookies expire, so you may need to refresh them periodically")
	fmt.Println("   - Prefer a secondary account for crawling")
	fmt.Println()

	fmt.Println("SECURITY WARNING:")
	fmt.Println("   - These cookies give FULL access to your account")
	fmt.Println("   - NEVER share them with anyone")
	fmt.Println("   - Store them securely (this tool encrypts them)")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

// ShowQuickExtractGuide shows a condensed version for experienced users
func ShowQuickExtractGuide() {
	fmt.Println("\nQuick guide: F12 -> Network tab -> Refresh -> Click any edith.xiaohongshu.com request -> Headers -> Cookie")
	fmt.Println("   Need: the full cookie value, plus the a1=... part on its own")
}
