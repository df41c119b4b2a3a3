package converter

import (
	"fmt"

	"xhsmonitor/pkg/logger"
	"xhsmonitor/pkg/models"
)

// Converter turns non-text media into searchable text. Convert mutates the
// content's ConvertedText and Status fields and reports success; it never
// returns an error and never leaves the content pending.
type Converter interface {
	Convert(content *models.Content) bool
}

// completeWithFallback finishes a conversion using the content's own
// description or title. Used for text notes, for the no-backend degradation
// path, and as the terminal state after a failed backend attempt.
func completeWithFallback(content *models.Content, status models.ConversionStatus) bool {
	content.ConvertedText = content.FallbackText()
	content.Status = status
	return status == models.ConversionCompleted
}

// Passthrough is the demonstration converter: it produces a stand-in text for
// video and image notes without calling any external backend.
type Passthrough struct {
	logger logger.Logger
}

// NewPassthrough creates the demonstration converter.
func NewPassthrough(log logger.Logger) *Passthrough {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Passthrough{logger: log}
}

// Convert marks the content completed with a synthesized text.
func (p *Passthrough) Convert(content *models.Content) bool {
	switch content.Type {
	case models.ContentTypeVideo:
		content.ConvertedText = fmt.Sprintf("[video transcript] %s\n\n%s\n\nsource: %s",
			content.Title, content.Desc, content.VideoURL)
	case models.ContentTypeImage:
		content.ConvertedText = fmt.Sprintf("[image text] %s\n\n%s\n\n%d images extracted",
			content.Title, content.Desc, len(content.ImageURLs))
	default:
		return completeWithFallback(content, models.ConversionCompleted)
	}

	content.Status = models.ConversionCompleted

	p.logger.DebugWithFields("passthrough conversion completed", map[string]interface{}{
		"note_id":      content.NoteID,
		"content_type": string(content.Type),
	})

	return true
}
