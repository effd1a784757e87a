// Package store implements document persistence over two interchangeable
// backends: a durable local JSON file and a remote managed table. The backend
// is selected once at startup and injected into the mutation gateway.
package store

import (
	"context"
	"path/filepath"

	"github.com/cardsd/cardsd/internal/cards"
)

// DocumentName is the fixed logical name of the single live document.
const DocumentName = "cards"

// Store is the persistence capability shared by both backends.
type Store interface {
	// Read returns the stored document. It never fails: backend errors are
	// logged and the default empty document is substituted.
	Read(ctx context.Context) cards.Document

	// Write persists doc, replacing the stored document entirely.
	Write(ctx context.Context, doc cards.Document) error

	// Snapshot records doc in the backend's append-only history sink.
	// Snapshots are immutable once written and are never read back by this
	// process.
	Snapshot(ctx context.Context, doc cards.Document) error
}

// New selects the active backend from cfg. The remote store is used when both
// the remote URL and service key are configured; otherwise the local file
// store. The choice is immutable for the process lifetime.
func New(cfg *Config) (Store, error) {
	if cfg.RemoteURL != "" && cfg.RemoteKey != "" {
		return NewRemoteStore(cfg.RemoteURL, cfg.RemoteKey), nil
	}
	return NewFileStore(filepath.Join(cfg.DataDir, DocumentName+".json"))
}
