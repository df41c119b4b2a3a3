package crawler

import (
	"errors"

	"xhsmonitor/pkg/config"
	"xhsmonitor/pkg/logger"
	"xhsmonitor/pkg/models"
	"xhsmonitor/pkg/ratelimit"
	"xhsmonitor/pkg/retry"
	"xhsmonitor/pkg/xhs"
)

// UnknownUsername is the sentinel owner name used when the profile lookup
// fails. The username is cosmetic, not required for correctness.
const UnknownUsername = "Unknown"

// ErrEmptyCredential marks an account whose cookie bundle is empty. It is a
// soft precondition failure: the caller gets an empty result and can keep
// proceeding with the rest of a batch.
var ErrEmptyCredential = errors.New("account credential bundle is empty")

// Crawler drives the remote listing endpoint to exhaustion and turns the
// result into Content entities, with defensive degradation at every step. It
// performs network calls only; persistence is the caller's job.
type Crawler struct {
	newCatalog CatalogFactory
	limiter    ratelimit.Limiter
	cfg        config.CrawlConfig
	logger     logger.Logger
}

// New creates a crawl orchestrator. The factory builds one catalog session
// per fetch; the limiter paces page requests.
func New(newCatalog CatalogFactory, limiter ratelimit.Limiter, cfg config.CrawlConfig, log logger.Logger) *Crawler {
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter = ratelimit.NewInterval(cfg.Interval)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = xhs.DefaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 100
	}

	return &Crawler{
		newCatalog: newCatalog,
		limiter:    limiter,
		cfg:        cfg,
		logger:     log,
	}
}

// FetchUserContent fetches all published notes of the target user through the
// given account and classifies them into Content entities in source order.
//
// Failure handling follows a strict gradient: an empty credential bundle
// returns ErrEmptyCredential before any network call; identity-probe and
// profile-lookup failures are absorbed with degraded defaults; a listing
// failure aborts the crawl and returns what was already classified together
// with the error; a single malformed record is logged and skipped.
func (c *Crawler) FetchUserContent(account *models.Account, userID string) ([]*models.Content, error) {
	if !account.HasCredentials() {
		c.logger.ErrorWithFields("account has no credential bundle, skipping crawl", map[string]interface{}{
			"account_id": account.AccountID,
			"user_id":    userID,
		})
		return []*models.Content{}, ErrEmptyCredential
	}

	catalog := c.newCatalog(account.Cookie, account.A1)

	c.logger.InfoWithFields("starting crawl", map[string]interface{}{
		"account_id": account.AccountID,
		"user_id":    userID,
	})

	// Identity probe: confirms credential liveness for diagnostics only.
	// The identity and listing endpoints can fail independently, so a probe
	// failure does not abort the crawl.
	if self, err := catalog.GetSelf(); err != nil {
		c.logger.WarnWithFields("credential probe failed, continuing", map[string]interface{}{
			"account_id": account.AccountID,
			"error":      err.Error(),
		})
	} else {
		c.logger.DebugWithFields("credential probe succeeded", map[string]interface{}{
			"account_id":    account.AccountID,
			"self_user_id":  self.UserID,
			"self_nickname": self.Nickname,
		})
	}

	username := c.lookupUsername(catalog, userID)

	contents := make([]*models.Content, 0)
	cursor := ""

	for page := 1; page <= c.cfg.MaxPages; page++ {
		c.limiter.Wait()

		notePage, err := c.fetchPage(catalog, userID, cursor)
		if err != nil {
			if xhs.IsVerificationRequired(err) {
				c.logger.ErrorWithFields("remote demands human verification, crawl aborted", map[string]interface{}{
					"user_id": userID,
					"page":    page,
				})
			} else {
				c.logger.ErrorWithFields("listing fetch failed, crawl aborted", map[string]interface{}{
					"user_id": userID,
					"page":    page,
					"error":   err.Error(),
				})
			}
			return contents, err
		}

		for _, raw := range notePage.Notes {
			content, err := Classify(raw, userID, username, catalog.WebBaseURL())
			if err != nil {
				c.logger.WarnWithFields("skipping malformed record", map[string]interface{}{
					"user_id": userID,
					"page":    page,
					"error":   err.Error(),
				})
				continue
			}
			contents = append(contents, content)
		}

		c.logger.DebugWithFields("page classified", map[string]interface{}{
			"user_id":  userID,
			"page":     page,
			"records":  len(notePage.Notes),
			"has_more": notePage.HasMore,
		})

		if !notePage.HasMore || len(notePage.Notes) == 0 {
			break
		}

		if page == c.cfg.MaxPages {
			// Ceiling guards against a non-advancing cursor from the remote.
			c.logger.WarnWithFields("page ceiling reached before cursor exhaustion", map[string]interface{}{
				"user_id":   userID,
				"max_pages": c.cfg.MaxPages,
			})
			break
		}

		cursor = notePage.Cursor
	}

	c.logger.InfoWithFields("crawl finished", map[string]interface{}{
		"user_id":  userID,
		"contents": len(contents),
	})

	return contents, nil
}

// lookupUsername fetches the target's display name, falling back to the
// Unknown sentinel when the profile endpoint fails or returns no name.
func (c *Crawler) lookupUsername(catalog Catalog, userID string) string {
	profile, err := catalog.GetUser(userID)
	if err != nil {
		c.logger.WarnWithFields("profile lookup failed, using fallback username", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return UnknownUsername
	}
	if profile.Nickname == "" {
		return UnknownUsername
	}
	return profile.Nickname
}

// fetchPage fetches one listing page, retrying transient rate-limit rejections
// with exponential backoff. Credential and verification failures are never
// retried; they need operator intervention.
func (c *Crawler) fetchPage(catalog Catalog, userID, cursor string) (*xhs.NotePage, error) {
	attempts := c.cfg.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	return retry.DoWithResult(func() (*xhs.NotePage, error) {
		return catalog.GetUserPage(userID, cursor, c.cfg.PageSize)
	}, &retry.Config{
		MaxAttempts: attempts,
		Backoff:     retry.DefaultExponentialBackoff(),
		RetryIf:     xhs.IsRateLimited,
		Logger:      c.logger,
	})
}
