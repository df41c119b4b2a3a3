// Package retry provides exponential backoff and retry logic for handling
// transient failures in network operations, particularly catalog API calls.
//
// Features:
//   - Multiple backoff strategies (exponential, constant)
//   - Jitter to avoid thundering herd problems
//   - Context support for cancellation
//   - Configurable retry predicates
//   - OnRetry callbacks for observability
//
// Basic usage:
//
//	// Simple retry with defaults
//	err := retry.Do(func() error {
//		return client.GetUser(userID)
//	}, nil)
//
//	// Custom configuration
//	cfg := &retry.Config{
//		MaxAttempts: 5,
//		Backoff: &retry.ExponentialBackoff{
//			InitialDelay: 2 * time.Second,
//			MaxDelay:     30 * time.Second,
//			Multiplier:   2.0,
//			Jitter:       0.1,
//		},
//		RetryIf: retry.DefaultRetryIf,
//		Logger:  logger.GetLogger(),
//	}
//	err := retry.Do(operation, cfg)
//
//	// Operations that return a value
//	page, err := retry.DoWithResult(func() (*xhs.NotePage, error) {
//		return catalog.GetUserPage(userID, cursor, pageSize)
//	}, cfg)
//
// The crawler retries only rate-limit errors; authentication and
// verification failures are surfaced immediately through RetryIf.
package retry
