package crawler

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"xhsmonitor/pkg/models"
	"xhsmonitor/pkg/xhs"
)

// ErrMissingNoteID marks a record without a durable identity; the caller
// skips it.
var ErrMissingNoteID = errors.New("record missing note id")

// noteRecord is the lenient shape a raw listing record is parsed into.
// PublishTime is typed loosely because the remote is not consistent about it.
type noteRecord struct {
	NoteID      string      `json:"note_id"`
	Title       string      `json:"title"`
	Desc        string      `json:"desc"`
	PublishTime interface{} `json:"time"`
	ImageURLs   []string    `json:"img_urls"`
	VideoURL    string      `json:"video_url"`
}

// Classify maps one raw listing record into a typed Content entity. The
// content type is derived from media field presence in strict priority
// order: video URL wins over images, images win over plain text. Pure
// function, no I/O.
func Classify(raw json.RawMessage, userID, username, webBaseURL string) (*models.Content, error) {
	var rec noteRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}

	if rec.NoteID == "" {
		return nil, ErrMissingNoteID
	}

	contentType := models.ContentTypeText
	if rec.VideoURL != "" {
		contentType = models.ContentTypeVideo
	} else if len(rec.ImageURLs) > 0 {
		contentType = models.ContentTypeImage
	}

	imgs := rec.ImageURLs
	if imgs == nil {
		imgs = []string{}
	}

	return &models.Content{
		NoteID:      rec.NoteID,
		Title:       rec.Title,
		Desc:        rec.Desc,
		Type:        contentType,
		PublishTime: coerceTimestamp(rec.PublishTime),
		Link:        xhs.NoteLink(webBaseURL, rec.NoteID),
		UserID:      userID,
		Username:    username,
		ImageURLs:   imgs,
		VideoURL:    rec.VideoURL,
		Status:      models.ConversionPending,
		CreatedAt:   time.Now(),
	}, nil
}

// coerceTimestamp turns whatever the remote put in the time field into an
// integer, defaulting to 0 when absent or non-numeric.
func coerceTimestamp(v interface{}) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
	}
	return 0
}
