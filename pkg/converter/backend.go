package converter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"xhsmonitor/pkg/config"
	"xhsmonitor/pkg/logger"
	"xhsmonitor/pkg/models"
)

// imageTextSeparator joins per-image extraction results.
const imageTextSeparator = "\n\n"

// Backend calls external media-to-text services. Missing backend URLs
// degrade gracefully: the content completes with its description/title
// fallback instead of getting stuck pending. All backend failures are
// contained here; Convert always returns a plain boolean outcome.
type Backend struct {
	videoAPIURL string
	imageAPIURL string
	maxImages   int
	httpClient  *http.Client
	logger      logger.Logger
}

// backendRequest is the payload POSTed to a conversion backend.
type backendRequest struct {
	VideoURL string `json:"video_url,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	NoteID   string `json:"note_id"`
}

// backendResponse is the result shape; the extracted text arrives under one
// of two possible keys depending on the backend version.
type backendResponse struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Text    string `json:"text"`
	Data    struct {
		Text string `json:"text"`
	} `json:"data"`
}

// extractedText returns the text from whichever key carries it.
func (r *backendResponse) extractedText() string {
	if r.Text != "" {
		return r.Text
	}
	return r.Data.Text
}

// ok reports whether the backend signalled success.
func (r *backendResponse) ok() bool {
	return r.Success || r.Code == 0
}

// NewBackend creates a backend converter from configuration.
func NewBackend(cfg config.ConversionConfig, log logger.Logger) *Backend {
	if log == nil {
		log = logger.GetLogger()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxImages := cfg.MaxImagesPerNote
	if maxImages <= 0 {
		maxImages = 5
	}

	return &Backend{
		videoAPIURL: cfg.VideoAPIURL,
		imageAPIURL: cfg.ImageAPIURL,
		maxImages:   maxImages,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      log,
	}
}

// Convert runs the conversion state machine for one content entity.
func (b *Backend) Convert(content *models.Content) bool {
	switch {
	case content.Type == models.ContentTypeVideo && content.VideoURL != "":
		return b.convertVideo(content)
	case content.Type == models.ContentTypeImage && len(content.ImageURLs) > 0:
		return b.convertImages(content)
	default:
		// Text notes need no conversion.
		return completeWithFallback(content, models.ConversionCompleted)
	}
}

// convertVideo sends the video URL to the video backend.
func (b *Backend) convertVideo(content *models.Content) bool {
	if b.videoAPIURL == "" {
		return completeWithFallback(content, models.ConversionCompleted)
	}

	content.Status = models.ConversionProcessing

	text, err := b.post(b.videoAPIURL, backendRequest{
		VideoURL: content.VideoURL,
		NoteID:   content.NoteID,
	})
	if err != nil || text == "" {
		b.logConversionFailure(content, err)
		return completeWithFallback(content, models.ConversionFailed)
	}

	content.ConvertedText = text
	content.Status = models.ConversionCompleted
	return true
}

// convertImages sends each image URL to the image backend, capped to bound
// cost, and joins the per-image texts.
func (b *Backend) convertImages(content *models.Content) bool {
	if b.imageAPIURL == "" {
		return completeWithFallback(content, models.ConversionCompleted)
	}

	content.Status = models.ConversionProcessing

	urls := content.ImageURLs
	if len(urls) > b.maxImages {
		urls = urls[:b.maxImages]
	}

	var texts []string
	for _, imageURL := range urls {
		text, err := b.post(b.imageAPIURL, backendRequest{
			ImageURL: imageURL,
			NoteID:   content.NoteID,
		})
		if err != nil {
			b.logger.WarnWithFields("image conversion call failed", map[string]interface{}{
				"note_id":   content.NoteID,
				"image_url": imageURL,
				"error":     err.Error(),
			})
			continue
		}
		if text != "" {
			texts = append(texts, text)
		}
	}

	if len(texts) == 0 {
		b.logConversionFailure(content, nil)
		return completeWithFallback(content, models.ConversionFailed)
	}

	content.ConvertedText = strings.Join(texts, imageTextSeparator)
	content.Status = models.ConversionCompleted
	return true
}

// post issues one backend call and returns the extracted text. A non-200
// status, an unsuccessful result, or a transport error all come back as
// errors for the caller to contain.
func (b *Backend) post(apiURL string, payload backendRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	resp, err := b.httpClient.Post(apiURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("backend call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read backend response: %w", err)
	}

	var result backendResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("failed to parse backend response: %w", err)
	}

	if !result.ok() {
		return "", fmt.Errorf("backend reported failure (code %d)", result.Code)
	}

	return result.extractedText(), nil
}

func (b *Backend) logConversionFailure(content *models.Content, err error) {
	fields := map[string]interface{}{
		"note_id":      content.NoteID,
		"content_type": string(content.Type),
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	b.logger.WarnWithFields("conversion failed, falling back to description", fields)
}
