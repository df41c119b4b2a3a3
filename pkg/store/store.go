package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"xhsmonitor/pkg/logger"
	"xhsmonitor/pkg/models"
)

// Store persists accounts and contents as two flat mappings, each held in a
// whole-document JSON file. Every operation is a whole-file read-modify-write;
// single-process deployment is assumed, the mutex only serializes writers
// inside this process.
type Store struct {
	dataDir      string
	accountsPath string
	contentsPath string
	mu           sync.Mutex
	logger       logger.Logger
}

// New creates a store rooted at dataDir, initializing empty record sets on
// first use.
func New(dataDir string, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		dataDir:      dataDir,
		accountsPath: filepath.Join(dataDir, "accounts.json"),
		contentsPath: filepath.Join(dataDir, "contents.json"),
		logger:       log,
	}

	for _, path := range []string{s.accountsPath, s.contentsPath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := saveDocument(path, map[string]json.RawMessage{}); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

// DataDir returns the directory backing the store.
func (s *Store) DataDir() string {
	return s.dataDir
}

// InsertContent stores a content entity keyed by its note id. It is the sole
// deduplication mechanism for repeated crawls: if the key already exists the
// call is a no-op returning false.
func (s *Store) InsertContent(content *models.Content) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := loadDocument[*models.Content](s.contentsPath)
	if err != nil {
		return false, err
	}

	if _, exists := contents[content.NoteID]; exists {
		s.logger.DebugWithFields("duplicate content skipped", map[string]interface{}{
			"note_id": content.NoteID,
		})
		return false, nil
	}

	contents[content.NoteID] = content
	if err := saveDocument(s.contentsPath, contents); err != nil {
		return false, err
	}

	return true, nil
}

// GetContent returns the content with the given note id, or nil when absent.
func (s *Store) GetContent(noteID string) (*models.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := loadDocument[*models.Content](s.contentsPath)
	if err != nil {
		return nil, err
	}

	return contents[noteID], nil
}

// GetContentsByOwner returns all contents of one owner, sorted by publish
// timestamp descending.
func (s *Store) GetContentsByOwner(userID string) ([]*models.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := loadDocument[*models.Content](s.contentsPath)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Content, 0)
	for _, c := range contents {
		if c.UserID == userID {
			result = append(result, c)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PublishTime > result[j].PublishTime
	})

	return result, nil
}

// GetContentsByOwnerAndType filters one owner's contents by content type,
// keeping the publish-descending order.
func (s *Store) GetContentsByOwnerAndType(userID string, contentType models.ContentType) ([]*models.Content, error) {
	all, err := s.GetContentsByOwner(userID)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Content, 0)
	for _, c := range all {
		if c.Type == contentType {
			result = append(result, c)
		}
	}

	return result, nil
}

// UpdateContent replaces a stored content document. No-op returning false
// when the key is absent.
func (s *Store) UpdateContent(content *models.Content) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := loadDocument[*models.Content](s.contentsPath)
	if err != nil {
		return false, err
	}

	if _, exists := contents[content.NoteID]; !exists {
		return false, nil
	}

	contents[content.NoteID] = content
	if err := saveDocument(s.contentsPath, contents); err != nil {
		return false, err
	}

	return true, nil
}

// GetAllContents returns every stored content in unspecified order.
func (s *Store) GetAllContents() ([]*models.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contents, err := loadDocument[*models.Content](s.contentsPath)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Content, 0, len(contents))
	for _, c := range contents {
		result = append(result, c)
	}

	return result, nil
}

// loadDocument reads a whole-document mapping from disk. A missing file is an
// empty mapping.
func loadDocument[T any](path string) (map[string]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]T{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	docs := map[string]T{}
	if len(data) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return docs, nil
}

// saveDocument writes a whole-document mapping atomically: temp file, sync,
// rename.
func saveDocument[T any](path string, docs map[string]T) error {
	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(docs); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync document: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close document: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace document: %w", err)
	}

	return nil
}
