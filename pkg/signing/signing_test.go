package signing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xhsmonitor/pkg/logger"
)

func TestAdapterSign(t *testing.T) {
	log := logger.NewTestLogger()

	t.Run("returns headers from the capability", func(t *testing.T) {
		var gotURI, gotA1, gotB1 string
		sign := func(uri string, body interface{}, a1, b1 string) (map[string]string, error) {
			gotURI, gotA1, gotB1 = uri, a1, b1
			return map[string]string{
				HeaderSignature: "XYW_sig",
				HeaderTimestamp: "1700000000000",
				HeaderComposite: "common",
			}, nil
		}

		adapter := NewAdapter(sign, "", log)
		hdrs, err := adapter.Sign(Request{URI: "/api/test", A1: "a1token", B1: "b1token"})

		require.NoError(t, err)
		assert.Equal(t, "XYW_sig", hdrs.Signature)
		assert.Equal(t, "1700000000000", hdrs.Timestamp)
		assert.Equal(t, "common", hdrs.CompositeSignature)
		assert.Equal(t, "/api/test", gotURI)
		assert.Equal(t, "a1token", gotA1)
		assert.Equal(t, "b1token", gotB1)
	})

	t.Run("fills in default b1 when the request carries none", func(t *testing.T) {
		var gotB1 string
		sign := func(uri string, body interface{}, a1, b1 string) (map[string]string, error) {
			gotB1 = b1
			return map[string]string{HeaderSignature: "sig"}, nil
		}

		adapter := NewAdapter(sign, "default-b1", log)
		_, err := adapter.Sign(Request{URI: "/api/test"})

		require.NoError(t, err)
		assert.Equal(t, "default-b1", gotB1)
	})

	t.Run("request b1 wins over the default", func(t *testing.T) {
		var gotB1 string
		sign := func(uri string, body interface{}, a1, b1 string) (map[string]string, error) {
			gotB1 = b1
			return map[string]string{HeaderSignature: "sig"}, nil
		}

		adapter := NewAdapter(sign, "default-b1", log)
		_, err := adapter.Sign(Request{URI: "/api/test", B1: "explicit-b1"})

		require.NoError(t, err)
		assert.Equal(t, "explicit-b1", gotB1)
	})

	t.Run("nil capability fails", func(t *testing.T) {
		adapter := NewAdapter(nil, "", log)
		hdrs, err := adapter.Sign(Request{URI: "/api/test"})

		assert.Nil(t, hdrs)
		var sigErr *Error
		require.ErrorAs(t, err, &sigErr)
		assert.Equal(t, "/api/test", sigErr.URI)
	})

	t.Run("capability error maps to signing error", func(t *testing.T) {
		sign := func(uri string, body interface{}, a1, b1 string) (map[string]string, error) {
			return nil, errors.New("algorithm version mismatch")
		}

		adapter := NewAdapter(sign, "", log)
		hdrs, err := adapter.Sign(Request{URI: "/api/test"})

		assert.Nil(t, hdrs)
		var sigErr *Error
		require.ErrorAs(t, err, &sigErr)
		assert.Contains(t, sigErr.Message, "algorithm version mismatch")
	})

	t.Run("capability panic is contained", func(t *testing.T) {
		sign := func(uri string, body interface{}, a1, b1 string) (map[string]string, error) {
			panic("boom")
		}

		adapter := NewAdapter(sign, "", log)
		hdrs, err := adapter.Sign(Request{URI: "/api/test"})

		assert.Nil(t, hdrs)
		var sigErr *Error
		require.ErrorAs(t, err, &sigErr)
		assert.Contains(t, sigErr.Message, "boom")
	})

	t.Run("result without signature fails", func(t *testing.T) {
		sign := func(uri string, body interface{}, a1, b1 string) (map[string]string, error) {
			return map[string]string{HeaderTimestamp: "1700000000000"}, nil
		}

		adapter := NewAdapter(sign, "", log)
		hdrs, err := adapter.Sign(Request{URI: "/api/test"})

		assert.Nil(t, hdrs)
		var sigErr *Error
		require.ErrorAs(t, err, &sigErr)
	})
}

func TestLocalSignFunc(t *testing.T) {
	sign := LocalSignFunc()

	result, err := sign("/api/sns/web/v1/user/selfinfo", nil, "a1token", "b1token")
	require.NoError(t, err)

	assert.NotEmpty(t, result[HeaderSignature])
	assert.NotEmpty(t, result[HeaderTimestamp])
	assert.NotEmpty(t, result[HeaderComposite])
	assert.Contains(t, result[HeaderSignature], "XYW_")

	// Different secret material yields a different signature
	other, err := sign("/api/sns/web/v1/user/selfinfo", nil, "other", "b1token")
	require.NoError(t, err)
	assert.NotEqual(t, result[HeaderSignature], other[HeaderSignature])
}

func TestLocalSignFuncUnserializableBody(t *testing.T) {
	sign := LocalSignFunc()

	_, err := sign("/api/test", func() {}, "a1", "b1")
	assert.Error(t, err)
}
