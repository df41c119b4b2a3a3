// Package converter turns crawled contents into text.
//
// A conversion moves a content through pending -> processing and lands
// on completed or failed. When the conversion path cannot produce text,
// the content's description (or title) is stored as a fallback so a
// completed record always carries something readable.
//
// Two implementations are provided:
//
//   - Passthrough completes every content from its own text fields and
//     needs no external service
//   - Backend posts video and image URLs to a conversion service,
//     joining per-image results with blank lines and capping the number
//     of images sent per note
package converter
