package xhs

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"xhsmonitor/pkg/logger"
	"xhsmonitor/pkg/signing"
)

// Client issues signed HTTP calls against the remote catalog API on behalf of
// one account. It is a single-attempt, fail-fast boundary: it performs no
// retries, so retry policy lives entirely in the crawl orchestrator.
type Client struct {
	httpClient *http.Client
	baseURL    string
	webBaseURL string
	userAgent  string
	cookie     string
	a1         string
	signer     *signing.Adapter
	logger     logger.Logger
}

// Options configures a Client beyond its credential bundle.
type Options struct {
	BaseURL    string
	WebBaseURL string
	UserAgent  string
	Timeout    time.Duration
}

// NewClient creates a catalog client bound to one credential bundle. The
// signer computes per-request signature headers; cookie is the raw browser
// credential bundle sent verbatim.
func NewClient(cookie, a1 string, signer *signing.Adapter, opts Options, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.WebBaseURL == "" {
		opts.WebBaseURL = DefaultWebBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    opts.BaseURL,
		webBaseURL: opts.WebBaseURL,
		userAgent:  opts.UserAgent,
		cookie:     cookie,
		a1:         a1,
		signer:     signer,
		logger:     log,
	}
}

// WebBaseURL returns the public web host used for canonical note links.
func (c *Client) WebBaseURL() string {
	return c.webBaseURL
}

// GetSelf fetches the profile of the logged-in identity. Used as a liveness
// probe for the credential bundle.
func (c *Client) GetSelf() (*Profile, error) {
	var data profileData
	if err := c.getJSON(SelfInfoURI(), &data); err != nil {
		return nil, err
	}
	return &data.UserInfo, nil
}

// GetUser fetches another user's profile.
func (c *Client) GetUser(userID string) (*Profile, error) {
	var data profileData
	if err := c.getJSON(UserInfoURI(userID), &data); err != nil {
		return nil, err
	}
	return &data.UserInfo, nil
}

// GetUserPage fetches one page of the user's published notes. An empty cursor
// requests the first page.
func (c *Client) GetUserPage(userID, cursor string, pageSize int) (*NotePage, error) {
	var page NotePage
	if err := c.getJSON(UserPostedURI(userID, cursor, pageSize), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// getJSON performs one signed GET against the given URI and decodes the data
// object of the response envelope into target.
func (c *Client) getJSON(uri string, target interface{}) error {
	hdrs, err := c.signer.Sign(signing.Request{URI: uri, A1: c.a1})
	if err != nil {
		// Signing failures propagate as call failures; no retry here.
		return err
	}

	req, err := http.NewRequest(http.MethodGet, c.baseURL+uri, nil)
	if err != nil {
		return &Error{Type: ErrorTypeUnknown, Message: fmt.Sprintf("failed to create request: %v", err)}
	}

	req.Header.Set("Cookie", c.cookie)
	req.Header.Set("X-S", hdrs.Signature)
	req.Header.Set("X-T", hdrs.Timestamp)
	req.Header.Set("X-S-Common", hdrs.CompositeSignature)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Referer", c.webBaseURL+"/")
	req.Header.Set("Origin", c.webBaseURL)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending catalog request", map[string]interface{}{
		"uri": uri,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorWithFields("catalog request failed", map[string]interface{}{
			"uri":      uri,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return &Error{Type: ErrorTypeUnknown, Message: fmt.Sprintf("network error: %v", err)}
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("catalog request completed", map[string]interface{}{
		"uri":      uri,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Type: ErrorTypeUnknown, Message: fmt.Sprintf("failed to read response body: %v", err), Code: resp.StatusCode}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse catalog response", map[string]interface{}{
			"uri":          uri,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return &Error{Type: ErrorTypeUnknown, Message: fmt.Sprintf("failed to parse response: %v", err), Code: resp.StatusCode}
	}

	if err := c.checkEnvelope(uri, &env); err != nil {
		return err
	}

	if target != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, target); err != nil {
			return &Error{Type: ErrorTypeUnknown, Message: fmt.Sprintf("failed to parse data object: %v", err)}
		}
	}

	return nil
}

// checkResponseStatus maps transport-level HTTP statuses onto typed errors.
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.WarnWithFields("credentials rejected", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return &Error{Type: ErrorTypeAuthInvalid, Message: "credentials rejected", Code: resp.StatusCode}
	case http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return &Error{Type: ErrorTypeRateLimited, Message: "rate limit exceeded", Code: resp.StatusCode}
	case 461:
		// The remote serves its captcha wall with this status.
		c.logger.WarnWithFields("human verification demanded", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return &Error{Type: ErrorTypeVerificationRequired, Message: "human verification required", Code: resp.StatusCode}
	default:
		if resp.StatusCode >= 400 {
			return &Error{Type: ErrorTypeUnknown, Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode), Code: resp.StatusCode}
		}
		return nil
	}
}

// checkEnvelope maps remote business codes onto typed errors.
func (c *Client) checkEnvelope(uri string, env *envelope) error {
	if env.Success || env.Code == codeSuccess {
		return nil
	}

	switch env.Code {
	case codeSessionExpired:
		c.logger.WarnWithFields("session expired", map[string]interface{}{
			"uri":  uri,
			"code": env.Code,
			"msg":  env.Msg,
		})
		return &Error{Type: ErrorTypeAuthInvalid, Message: env.Msg, Code: env.Code}
	case codeVerifyRequired:
		c.logger.WarnWithFields("human verification demanded", map[string]interface{}{
			"uri":  uri,
			"code": env.Code,
			"msg":  env.Msg,
		})
		return &Error{Type: ErrorTypeVerificationRequired, Message: env.Msg, Code: env.Code}
	default:
		c.logger.WarnWithFields("remote error", map[string]interface{}{
			"uri":  uri,
			"code": env.Code,
			"msg":  env.Msg,
		})
		return &Error{Type: ErrorTypeUnknown, Message: env.Msg, Code: env.Code}
	}
}
