package xhs

import "encoding/json"

// envelope is the remote API response wrapper. Code 0 denotes success; other
// codes denote specific remote-side errors.
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

// Remote business codes observed on the wire.
const (
	codeSuccess        = 0
	codeSessionExpired = -100
	codeVerifyRequired = 300012
)

// Profile is the user identity returned by the self and other-info endpoints.
type Profile struct {
	UserID    string `json:"user_id"`
	Nickname  string `json:"nick_name"`
	Signature string `json:"signature"`
}

// profileData wraps Profile inside the data object.
type profileData struct {
	UserInfo Profile `json:"user_info"`
}

// NotePage is one page of a user's published notes. Records are kept raw so
// that one malformed note cannot poison the whole page; the classifier parses
// them individually.
type NotePage struct {
	Notes   []json.RawMessage `json:"notes"`
	Cursor  string            `json:"cursor"`
	HasMore bool              `json:"has_more"`
}
