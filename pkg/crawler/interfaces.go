package crawler

import "xhsmonitor/pkg/xhs"

// Catalog is the remote catalog client surface the crawler drives. Satisfied
// by *xhs.Client; reimplemented by mocks in tests.
type Catalog interface {
	GetSelf() (*xhs.Profile, error)
	GetUser(userID string) (*xhs.Profile, error)
	GetUserPage(userID, cursor string, pageSize int) (*xhs.NotePage, error)
	WebBaseURL() string
}

// CatalogFactory builds a catalog client bound to one account's credential
// bundle. The session's lifecycle is owned by the caller, not by package
// state.
type CatalogFactory func(cookie, a1 string) Catalog
