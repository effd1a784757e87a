package store

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cardsd/cardsd/internal/cards"
)

// FileStore persists the document as a single JSON file. Writes go through a
// temp file followed by a rename, so a concurrent reader never observes a
// partially written document. Pre-mutation snapshots are written as
// timestamped files under a history/ subdirectory next to the document.
type FileStore struct {
	path string
}

// NewFileStore prepares path for use: the parent directory is created and the
// file is seeded with the default document if missing. If preparation fails
// (e.g. read-only filesystem), a fixed location under the system temp
// directory is prepared instead; persistence there does not survive host
// restarts, so the degradation is logged. If both locations fail, the error
// is returned and the process must not serve.
func NewFileStore(path string) (*FileStore, error) {
	if err := prepare(path); err != nil {
		fallback := fallbackPath()
		slog.Warn("Primary store location unusable, falling back", "path", path, "fallback", fallback, "err", err)
		if err2 := prepare(fallback); err2 != nil {
			return nil, fmt.Errorf("no writable store location (%s, %s): %w", path, fallback, err2)
		}
		slog.Warn("Using non-durable fallback store location", "path", fallback)
		path = fallback
	}
	return &FileStore{path: path}, nil
}

// fallbackPath is the well-known degraded location used when the configured
// path is unwritable.
func fallbackPath() string {
	return filepath.Join(os.TempDir(), "cardsd", DocumentName+".json")
}

func prepare(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access document file: %w", err)
		}
		if err := writeFileAtomic(path, cards.DefaultDocument()); err != nil {
			return fmt.Errorf("failed to seed document file: %w", err)
		}
	}
	return nil
}

// Path returns the active document path (the fallback location when the
// primary was unusable).
func (s *FileStore) Path() string {
	return s.path
}

// Read parses the document file. Any access or parse failure is logged and
// the default empty document is returned instead.
func (s *FileStore) Read(ctx context.Context) cards.Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read document, substituting default", "path", s.path, "err", err)
		return cards.DefaultDocument()
	}
	var doc cards.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.WarnContext(ctx, "Failed to parse document, substituting default", "path", s.path, "err", err)
		return cards.DefaultDocument()
	}
	doc.Normalize()
	return doc
}

// Write serializes doc and replaces the document file atomically.
func (s *FileStore) Write(ctx context.Context, doc cards.Document) error {
	if err := writeFileAtomic(s.path, doc); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// Snapshot writes doc to an immutable timestamped file under history/.
func (s *FileStore) Snapshot(ctx context.Context, doc cards.Document) error {
	dir := filepath.Join(filepath.Dir(s.path), "history")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	// Nanosecond timestamp plus a random suffix so same-instant snapshots
	// never collide.
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return fmt.Errorf("failed to generate snapshot suffix: %w", err)
	}
	name := fmt.Sprintf("%s-%s-%x.json", DocumentName, time.Now().UTC().Format("20060102-150405.000000000"), suffix)
	data, err := marshalDocument(doc)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	return nil
}

func marshalDocument(doc cards.Document) ([]byte, error) {
	doc.Normalize()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return append(data, '\n'), nil
}

func writeFileAtomic(path string, doc cards.Document) error {
	data, err := marshalDocument(doc)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace document file: %w", err)
	}
	return nil
}
