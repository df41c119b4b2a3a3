// Package ratelimit paces outbound requests to the catalog service.
//
// The remote service throttles aggressive clients, so every listing
// request goes through a limiter before it hits the network.
//
// Available Implementations:
//
// Interval:
//   - Enforces a minimum gap between consecutive requests
//   - The first request always passes immediately
//   - Default implementation used by the crawler
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - Suitable for burst traffic followed by quiet periods
//
// Interface:
//
// All rate limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait() - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// One request per second
//	limiter := ratelimit.NewInterval(time.Second)
//
//	limiter.Wait()
//	// Proceed with request
//
//	// Token bucket: 50 requests per hour
//	bucket := ratelimit.NewTokenBucket(50, time.Hour)
//	if bucket.Allow() {
//	    // Proceed with request
//	}
package ratelimit
