package xhs

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// DefaultBaseURL is the remote API host.
	DefaultBaseURL = "https://edith.xiaohongshu.com"

	// DefaultWebBaseURL is the public web host, used for canonical note links.
	DefaultWebBaseURL = "https://www.xiaohongshu.com"

	// SelfInfoEndpoint returns the profile of the logged-in identity.
	SelfInfoEndpoint = "/api/sns/web/v1/user/selfinfo"

	// UserInfoEndpoint returns another user's profile.
	UserInfoEndpoint = "/api/sns/web/v1/user/otherinfo"

	// UserPostedEndpoint lists a user's published notes with cursor pagination.
	UserPostedEndpoint = "/api/sns/web/v1/user_posted"

	// DefaultPageSize is the number of notes requested per page.
	DefaultPageSize = 30

	// imageScenes selects the image rendition set returned by the listing.
	imageScenes = "FD_WM_WEBP"
)

// SelfInfoURI returns the signed request URI for the identity probe.
func SelfInfoURI() string {
	return SelfInfoEndpoint
}

// UserInfoURI returns the signed request URI for a profile lookup.
func UserInfoURI(userID string) string {
	params := url.Values{}
	params.Set("target_user_id", userID)
	return fmt.Sprintf("%s?%s", UserInfoEndpoint, params.Encode())
}

// UserPostedURI returns the signed request URI for one listing page.
func UserPostedURI(userID, cursor string, pageSize int) string {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	params := url.Values{}
	params.Set("num", strconv.Itoa(pageSize))
	params.Set("cursor", cursor)
	params.Set("user_id", userID)
	params.Set("image_scenes", imageScenes)
	return fmt.Sprintf("%s?%s", UserPostedEndpoint, params.Encode())
}

// NoteLink synthesizes the canonical web link for a note.
func NoteLink(webBaseURL, noteID string) string {
	if webBaseURL == "" {
		webBaseURL = DefaultWebBaseURL
	}
	return fmt.Sprintf("%s/explore/%s", webBaseURL, noteID)
}
