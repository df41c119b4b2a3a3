// Package store persists accounts and crawled contents as JSON documents
// on disk.
//
// Contents are keyed by note id, which makes inserts idempotent: a note
// that already exists is never overwritten, so re-crawling a user only
// adds records that are genuinely new. Writes go through a temp file and
// rename so a crash never leaves a half-written document behind.
//
// Usage:
//
//	s, err := store.New("data", logger.GetLogger())
//	inserted, err := s.InsertContent(content) // false when the note id exists
//	contents, err := s.GetContentsByOwner(userID) // newest first
package store
