// Package crawler walks a user's posted notes and turns raw listing
// records into classified Content values.
//
// A crawl is cursor-driven: pages are requested in order, each page's
// cursor feeds the next request, and the walk stops when the service
// reports no more pages, an empty page arrives, or the page ceiling is
// reached. A rate limiter paces every listing request.
//
// Failure handling is graded:
//   - An account without a cookie fails before any network traffic
//   - A failed self-info probe is logged and ignored
//   - A failed profile lookup falls back to the "Unknown" username
//   - A mid-walk page failure returns the notes collected so far
//     together with the error, so callers can persist partial results
//   - A malformed record is skipped without aborting the page
//
// Only rate-limit errors are retried; authentication and verification
// failures abort the walk immediately.
package crawler
