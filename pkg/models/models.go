package models

import "time"

// ContentType describes which kind of media a note carries.
type ContentType string

const (
	ContentTypeVideo ContentType = "video"
	ContentTypeImage ContentType = "image"
	ContentTypeText  ContentType = "text"
)

// ConversionStatus tracks the media-to-text conversion state machine.
type ConversionStatus string

const (
	ConversionPending    ConversionStatus = "pending"
	ConversionProcessing ConversionStatus = "processing"
	ConversionCompleted  ConversionStatus = "completed"
	ConversionFailed     ConversionStatus = "failed"
)

// AccountStatusActive is the status assigned to newly registered accounts.
const AccountStatusActive = "active"

// Account is a crawling identity. The Cookie field is the raw browser
// credential bundle; it must be non-empty before any fetch is attempted.
type Account struct {
	AccountID string    `json:"account_id"`
	Username  string    `json:"username"`
	UserID    string    `json:"user_id"`
	Cookie    string    `json:"cookie"`
	A1        string    `json:"a1"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
}

// NewAccount creates an active account with the creation time set.
func NewAccount(accountID, username, userID, cookie, a1 string) *Account {
	return &Account{
		AccountID: accountID,
		Username:  username,
		UserID:    userID,
		Cookie:    cookie,
		A1:        a1,
		CreatedAt: time.Now(),
		Status:    AccountStatusActive,
	}
}

// HasCredentials reports whether the account carries a usable cookie bundle.
func (a *Account) HasCredentials() bool {
	return a != nil && len(a.Cookie) > 0
}

// Content is one remote post. NoteID is the durable identity used for
// deduplication; Type is derived once at classification time and never
// changes afterward. ConvertedText stays empty until a conversion attempt.
type Content struct {
	NoteID        string           `json:"note_id"`
	Title         string           `json:"title"`
	Desc          string           `json:"desc"`
	Type          ContentType      `json:"content_type"`
	PublishTime   int64            `json:"publish_time"`
	Link          string           `json:"link"`
	UserID        string           `json:"user_id"`
	Username      string           `json:"username"`
	ImageURLs     []string         `json:"img_urls"`
	VideoURL      string           `json:"video_url,omitempty"`
	ConvertedText string           `json:"converted_text,omitempty"`
	Status        ConversionStatus `json:"conversion_status"`
	CreatedAt     time.Time        `json:"created_at"`
}

// FallbackText returns the text used when no conversion backend result is
// available: the description, or the title when the description is empty.
func (c *Content) FallbackText() string {
	if c.Desc != "" {
		return c.Desc
	}
	return c.Title
}
