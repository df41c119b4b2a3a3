package xhs

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xhsmonitor/pkg/logger"
	"xhsmonitor/pkg/signing"
)

// testSigner returns an adapter whose capability emits fixed headers.
func testSigner(t *testing.T) *signing.Adapter {
	t.Helper()
	sign := func(uri string, body interface{}, a1, b1 string) (map[string]string, error) {
		return map[string]string{
			signing.HeaderSignature: "XYW_test",
			signing.HeaderTimestamp: "1700000000000",
			signing.HeaderComposite: "common_test",
		}, nil
	}
	return signing.NewAdapter(sign, "", logger.NewTestLogger())
}

// newTestClient points a client at the given test server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	return NewClient("cookie=value; a1=token", "token", testSigner(t), Options{
		BaseURL:    server.URL,
		WebBaseURL: "https://web.example.com",
		UserAgent:  "test-agent",
	}, logger.NewTestLogger())
}

func TestGetSelf(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, SelfInfoEndpoint, r.URL.Path)
		assert.Equal(t, "cookie=value; a1=token", r.Header.Get("Cookie"))
		assert.Equal(t, "XYW_test", r.Header.Get("X-S"))
		assert.Equal(t, "1700000000000", r.Header.Get("X-T"))
		assert.Equal(t, "common_test", r.Header.Get("X-S-Common"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		fmt.Fprint(w, `{"success":true,"code":0,"msg":"","data":{"user_info":{"user_id":"self123","nick_name":"me","signature":"hello"}}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)

	profile, err := client.GetSelf()
	require.NoError(t, err)
	assert.Equal(t, "self123", profile.UserID)
	assert.Equal(t, "me", profile.Nickname)
}

func TestGetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserInfoEndpoint, r.URL.Path)
		assert.Equal(t, "target456", r.URL.Query().Get("target_user_id"))

		fmt.Fprint(w, `{"success":true,"code":0,"data":{"user_info":{"user_id":"target456","nick_name":"Alice"}}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)

	profile, err := client.GetUser("target456")
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Nickname)
}

func TestGetUserPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserPostedEndpoint, r.URL.Path)
		assert.Equal(t, "user789", r.URL.Query().Get("user_id"))
		assert.Equal(t, "cur1", r.URL.Query().Get("cursor"))
		assert.Equal(t, "30", r.URL.Query().Get("num"))

		fmt.Fprint(w, `{"success":true,"code":0,"data":{"notes":[{"note_id":"n1"},{"note_id":"n2"}],"cursor":"cur2","has_more":true}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)

	page, err := client.GetUserPage("user789", "cur1", 30)
	require.NoError(t, err)
	assert.Len(t, page.Notes, 2)
	assert.Equal(t, "cur2", page.Cursor)
	assert.True(t, page.HasMore)
}

func TestClientErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCheck func(error) bool
		wantLabel string
	}{
		{
			name:      "session expired business code",
			status:    http.StatusOK,
			body:      `{"success":false,"code":-100,"msg":"login expired"}`,
			wantCheck: IsAuthInvalid,
			wantLabel: "auth invalid",
		},
		{
			name:      "verification business code",
			status:    http.StatusOK,
			body:      `{"success":false,"code":300012,"msg":"captcha"}`,
			wantCheck: IsVerificationRequired,
			wantLabel: "verification required",
		},
		{
			name:      "http unauthorized",
			status:    http.StatusUnauthorized,
			body:      ``,
			wantCheck: IsAuthInvalid,
			wantLabel: "auth invalid",
		},
		{
			name:      "http forbidden",
			status:    http.StatusForbidden,
			body:      ``,
			wantCheck: IsAuthInvalid,
			wantLabel: "auth invalid",
		},
		{
			name:      "http too many requests",
			status:    http.StatusTooManyRequests,
			body:      ``,
			wantCheck: IsRateLimited,
			wantLabel: "rate limited",
		},
		{
			name:      "captcha wall status",
			status:    461,
			body:      ``,
			wantCheck: IsVerificationRequired,
			wantLabel: "verification required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, server)

			_, err := client.GetSelf()
			require.Error(t, err)
			assert.True(t, tt.wantCheck(err), "expected %s error, got %v", tt.wantLabel, err)
		})
	}
}

func TestClientUnknownBusinessCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"code":10042,"msg":"internal remote failure"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.GetSelf()
	require.Error(t, err)

	// Unknown codes keep the remote message for diagnostics
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrorTypeUnknown, apiErr.Type)
	assert.Equal(t, 10042, apiErr.Code)
	assert.Contains(t, apiErr.Message, "internal remote failure")

	assert.False(t, IsAuthInvalid(err))
	assert.False(t, IsRateLimited(err))
	assert.False(t, IsVerificationRequired(err))
}

func TestClientMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.GetSelf()
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrorTypeUnknown, apiErr.Type)
}

func TestClientSigningFailurePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be sent when signing fails")
	}))
	defer server.Close()

	signer := signing.NewAdapter(nil, "", logger.NewTestLogger())
	client := NewClient("cookie", "a1", signer, Options{BaseURL: server.URL}, logger.NewTestLogger())

	_, err := client.GetSelf()
	require.Error(t, err)

	var sigErr *signing.Error
	assert.ErrorAs(t, err, &sigErr)
}

func TestWebBaseURL(t *testing.T) {
	client := NewClient("c", "a", testSigner(t), Options{}, logger.NewTestLogger())
	assert.Equal(t, DefaultWebBaseURL, client.WebBaseURL())
}
