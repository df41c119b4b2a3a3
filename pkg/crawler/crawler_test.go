package crawler

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xhsmonitor/pkg/config"
	"xhsmonitor/pkg/logger"
	"xhsmonitor/pkg/models"
	"xhsmonitor/pkg/xhs"
)

// mockCatalog scripts the remote catalog for crawl tests.
type mockCatalog struct {
	self     *xhs.Profile
	selfErr  error
	user     *xhs.Profile
	userErr  error
	pages    []*xhs.NotePage
	pageErrs []error

	pageCalls   int
	gotCursors  []string
	gotPageSize int
}

func (m *mockCatalog) GetSelf() (*xhs.Profile, error) {
	if m.selfErr != nil {
		return nil, m.selfErr
	}
	if m.self == nil {
		return &xhs.Profile{}, nil
	}
	return m.self, nil
}

func (m *mockCatalog) GetUser(userID string) (*xhs.Profile, error) {
	if m.userErr != nil {
		return nil, m.userErr
	}
	return m.user, nil
}

func (m *mockCatalog) GetUserPage(userID, cursor string, pageSize int) (*xhs.NotePage, error) {
	idx := m.pageCalls
	m.pageCalls++
	m.gotCursors = append(m.gotCursors, cursor)
	m.gotPageSize = pageSize

	if idx < len(m.pageErrs) && m.pageErrs[idx] != nil {
		return nil, m.pageErrs[idx]
	}
	if idx < len(m.pages) {
		return m.pages[idx], nil
	}
	return &xhs.NotePage{}, nil
}

func (m *mockCatalog) WebBaseURL() string { return "https://web.example.com" }

// nopLimiter counts pacing calls without sleeping.
type nopLimiter struct{ waits int }

func (l *nopLimiter) Allow() bool { return true }
func (l *nopLimiter) Wait()       { l.waits++ }
func (l *nopLimiter) Reset()      {}

func noteJSON(id string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"note_id":"%s","title":"title %s"}`, id, id))
}

func notePage(cursor string, hasMore bool, ids ...string) *xhs.NotePage {
	page := &xhs.NotePage{Cursor: cursor, HasMore: hasMore}
	for _, id := range ids {
		page.Notes = append(page.Notes, noteJSON(id))
	}
	return page
}

func newTestCrawler(catalog *mockCatalog, limiter *nopLimiter, cfg config.CrawlConfig) *Crawler {
	factory := func(cookie, a1 string) Catalog { return catalog }
	return New(factory, limiter, cfg, logger.NewTestLogger())
}

func testAccount() *models.Account {
	return models.NewAccount("acct1", "tester", "self1", "cookie=value", "a1token")
}

func TestFetchUserContentEmptyCredential(t *testing.T) {
	factoryCalled := false
	factory := func(cookie, a1 string) Catalog {
		factoryCalled = true
		return &mockCatalog{}
	}
	c := New(factory, &nopLimiter{}, config.CrawlConfig{}, logger.NewTestLogger())

	account := &models.Account{AccountID: "acct1"}
	contents, err := c.FetchUserContent(account, "target1")

	assert.ErrorIs(t, err, ErrEmptyCredential)
	assert.NotNil(t, contents)
	assert.Empty(t, contents)
	assert.False(t, factoryCalled, "no session should be built for an empty credential")
}

func TestFetchUserContentDrivesPaginationToExhaustion(t *testing.T) {
	catalog := &mockCatalog{
		user: &xhs.Profile{UserID: "target1", Nickname: "Alice"},
		pages: []*xhs.NotePage{
			notePage("c1", true, "n01", "n02", "n03", "n04", "n05", "n06", "n07", "n08", "n09", "n10"),
			notePage("c2", true, "n11", "n12", "n13", "n14", "n15", "n16", "n17", "n18", "n19", "n20"),
			notePage("c3", false, "n21", "n22", "n23", "n24"),
		},
	}
	limiter := &nopLimiter{}
	c := newTestCrawler(catalog, limiter, config.CrawlConfig{PageSize: 10})

	contents, err := c.FetchUserContent(testAccount(), "target1")
	require.NoError(t, err)

	require.Len(t, contents, 24)
	assert.Equal(t, "n01", contents[0].NoteID)
	assert.Equal(t, "n24", contents[23].NoteID)
	assert.Equal(t, "Alice", contents[0].Username)

	// Cursor threading: first page empty, then each page's returned cursor
	assert.Equal(t, []string{"", "c1", "c2"}, catalog.gotCursors)
	assert.Equal(t, 10, catalog.gotPageSize)
	assert.Equal(t, 3, limiter.waits, "every page fetch is paced")
}

func TestFetchUserContentSinglePage(t *testing.T) {
	catalog := &mockCatalog{
		user:  &xhs.Profile{Nickname: "Bob"},
		pages: []*xhs.NotePage{notePage("", false, "n1", "n2")},
	}
	c := newTestCrawler(catalog, &nopLimiter{}, config.CrawlConfig{})

	contents, err := c.FetchUserContent(testAccount(), "target1")
	require.NoError(t, err)
	assert.Len(t, contents, 2)
	assert.Equal(t, 1, catalog.pageCalls)
}

func TestFetchUserContentUnknownUsernameFallback(t *testing.T) {
	catalog := &mockCatalog{
		userErr: &xhs.Error{Type: xhs.ErrorTypeUnknown, Message: "profile unavailable"},
		pages:   []*xhs.NotePage{notePage("", false, "n1")},
	}
	c := newTestCrawler(catalog, &nopLimiter{}, config.CrawlConfig{})

	contents, err := c.FetchUserContent(testAccount(), "target1")
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, UnknownUsername, contents[0].Username)
}

func TestFetchUserContentEmptyNickname(t *testing.T) {
	catalog := &mockCatalog{
		user:  &xhs.Profile{Nickname: ""},
		pages: []*xhs.NotePage{notePage("", false, "n1")},
	}
	c := newTestCrawler(catalog, &nopLimiter{}, config.CrawlConfig{})

	contents, err := c.FetchUserContent(testAccount(), "target1")
	require.NoError(t, err)
	assert.Equal(t, UnknownUsername, contents[0].Username)
}

func TestFetchUserContentProbeFailureIsNonFatal(t *testing.T) {
	catalog := &mockCatalog{
		selfErr: &xhs.Error{Type: xhs.ErrorTypeUnknown, Message: "probe down"},
		user:    &xhs.Profile{Nickname: "Alice"},
		pages:   []*xhs.NotePage{notePage("", false, "n1")},
	}
	c := newTestCrawler(catalog, &nopLimiter{}, config.CrawlConfig{})

	contents, err := c.FetchUserContent(testAccount(), "target1")
	require.NoError(t, err)
	assert.Len(t, contents, 1)
}

func TestFetchUserContentListingFailureReturnsPartialResult(t *testing.T) {
	catalog := &mockCatalog{
		user: &xhs.Profile{Nickname: "Alice"},
		pages: []*xhs.NotePage{
			notePage("c1", true, "n1", "n2"),
		},
		pageErrs: []error{
			nil,
			&xhs.Error{Type: xhs.ErrorTypeVerificationRequired, Message: "captcha"},
		},
	}
	c := newTestCrawler(catalog, &nopLimiter{}, config.CrawlConfig{MaxRetries: 3})

	contents, err := c.FetchUserContent(testAccount(), "target1")

	require.Error(t, err)
	assert.True(t, xhs.IsVerificationRequired(err))
	assert.Len(t, contents, 2, "already classified pages survive the abort")
	assert.Equal(t, 2, catalog.pageCalls, "verification failures are not retried")
}

func TestFetchUserContentSkipsMalformedRecords(t *testing.T) {
	page := &xhs.NotePage{HasMore: false}
	page.Notes = append(page.Notes, noteJSON("n1"))
	page.Notes = append(page.Notes, json.RawMessage(`{"title":"no id"}`))
	page.Notes = append(page.Notes, json.RawMessage(`{"note_id":42}`))
	page.Notes = append(page.Notes, noteJSON("n2"))

	catalog := &mockCatalog{
		user:  &xhs.Profile{Nickname: "Alice"},
		pages: []*xhs.NotePage{page},
	}
	c := newTestCrawler(catalog, &nopLimiter{}, config.CrawlConfig{})

	contents, err := c.FetchUserContent(testAccount(), "target1")
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, "n1", contents[0].NoteID)
	assert.Equal(t, "n2", contents[1].NoteID)
}

func TestFetchUserContentPageCeiling(t *testing.T) {
	// Remote that never stops advertising more pages
	pages := make([]*xhs.NotePage, 10)
	for i := range pages {
		pages[i] = notePage(fmt.Sprintf("c%d", i+1), true, fmt.Sprintf("n%d", i+1))
	}
	catalog := &mockCatalog{
		user:  &xhs.Profile{Nickname: "Alice"},
		pages: pages,
	}
	c := newTestCrawler(catalog, &nopLimiter{}, config.CrawlConfig{MaxPages: 3})

	contents, err := c.FetchUserContent(testAccount(), "target1")
	require.NoError(t, err)
	assert.Len(t, contents, 3)
	assert.Equal(t, 3, catalog.pageCalls)
}

func TestFetchUserContentStopsOnEmptyPage(t *testing.T) {
	catalog := &mockCatalog{
		user: &xhs.Profile{Nickname: "Alice"},
		pages: []*xhs.NotePage{
			notePage("c1", true, "n1"),
			{Cursor: "c2", HasMore: true}, // advertises more but carries nothing
		},
	}
	c := newTestCrawler(catalog, &nopLimiter{}, config.CrawlConfig{})

	contents, err := c.FetchUserContent(testAccount(), "target1")
	require.NoError(t, err)
	assert.Len(t, contents, 1)
	assert.Equal(t, 2, catalog.pageCalls)
}
