package crawler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xhsmonitor/pkg/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType models.ContentType
		wantTime int64
	}{
		{
			name:     "video wins over images",
			raw:      `{"note_id":"n1","title":"t","video_url":"https://v.example.com/1.mp4","img_urls":["https://i.example.com/1.jpg"],"time":1700000000}`,
			wantType: models.ContentTypeVideo,
			wantTime: 1700000000,
		},
		{
			name:     "images win over text",
			raw:      `{"note_id":"n2","desc":"d","img_urls":["https://i.example.com/1.jpg","https://i.example.com/2.jpg"]}`,
			wantType: models.ContentTypeImage,
		},
		{
			name:     "no media is text",
			raw:      `{"note_id":"n3","title":"plain","desc":"just words"}`,
			wantType: models.ContentTypeText,
		},
		{
			name:     "empty image list is text",
			raw:      `{"note_id":"n4","img_urls":[]}`,
			wantType: models.ContentTypeText,
		},
		{
			name:     "string timestamp is coerced",
			raw:      `{"note_id":"n5","time":"1700000123"}`,
			wantType: models.ContentTypeText,
			wantTime: 1700000123,
		},
		{
			name:     "non-numeric timestamp defaults to zero",
			raw:      `{"note_id":"n6","time":"yesterday"}`,
			wantType: models.ContentTypeText,
			wantTime: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := Classify(json.RawMessage(tt.raw), "owner1", "Alice", "https://web.example.com")
			require.NoError(t, err)

			assert.Equal(t, tt.wantType, content.Type)
			assert.Equal(t, tt.wantTime, content.PublishTime)
			assert.Equal(t, "owner1", content.UserID)
			assert.Equal(t, "Alice", content.Username)
			assert.Equal(t, models.ConversionPending, content.Status)
			assert.NotNil(t, content.ImageURLs)
		})
	}
}

func TestClassifyLink(t *testing.T) {
	content, err := Classify(json.RawMessage(`{"note_id":"abc123"}`), "u", "n", "https://web.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://web.example.com/explore/abc123", content.Link)
}

func TestClassifyMissingNoteID(t *testing.T) {
	_, err := Classify(json.RawMessage(`{"title":"no identity"}`), "u", "n", "")
	assert.ErrorIs(t, err, ErrMissingNoteID)
}

func TestClassifyMalformedRecord(t *testing.T) {
	_, err := Classify(json.RawMessage(`{"note_id":42}`), "u", "n", "")
	assert.Error(t, err)
}
