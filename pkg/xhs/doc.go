// Package xhs implements the HTTP client for the xiaohongshu web API.
//
// The client issues signed requests against the edith API host and maps
// both transport failures and in-band response codes to typed errors:
//
//   - ErrorTypeAuthInvalid - cookie expired or rejected (code -100, HTTP 401/403)
//   - ErrorTypeVerificationRequired - account flagged for verification (code 300012, HTTP 461)
//   - ErrorTypeRateLimited - too many requests (HTTP 429)
//   - ErrorTypeServer - 5xx responses
//   - ErrorTypeAPI - any other non-zero response code
//
// Callers classify errors with the IsAuthInvalid, IsVerificationRequired
// and IsRateLimited predicates rather than matching codes themselves.
//
// Every request carries the caller's cookie and the signature headers
// produced by a signing.Adapter; the client never retries on its own.
package xhs
