package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cardsd/cardsd/internal/cards"
)

// Service is the mutation gateway over the selected Store. It owns the
// read-merge-snapshot-write sequence for the two write operations and the
// best-effort read path.
//
// The sequence is intentionally not serialized: no lock spans the read and
// the write, so two overlapping Upsert calls can merge against the same base
// document and the later write silently discards the earlier one, advancing
// the version by only 1. Callers that need stronger guarantees must serialize
// externally.
type Service struct {
	store Store
}

// NewService creates a gateway over the given store.
func NewService(st Store) *Service {
	return &Service{store: st}
}

// Get returns a copy of the stored document. It always succeeds; backend
// failures surface as the default empty document.
func (s *Service) Get(ctx context.Context) cards.Document {
	return s.store.Read(ctx).Clone()
}

// Replace overwrites the stored document with the caller-supplied cards and
// version. A non-positive version defaults to 1. The previous document is
// snapshotted first; snapshot failures are logged and ignored.
func (s *Service) Replace(ctx context.Context, version int, incoming []cards.Card) (cards.Document, error) {
	if version <= 0 {
		version = cards.DefaultVersion
	}
	if incoming == nil {
		incoming = []cards.Card{}
	}
	current := s.store.Read(ctx)
	if err := s.store.Snapshot(ctx, current); err != nil {
		slog.WarnContext(ctx, "Failed to snapshot document before replace", "err", err)
	}
	doc := cards.Document{Version: version, Cards: incoming}
	if err := s.store.Write(ctx, doc); err != nil {
		return cards.Document{}, fmt.Errorf("failed to persist document: %w", err)
	}
	slog.InfoContext(ctx, "Document replaced", "version", doc.Version, "cards", len(doc.Cards))
	return doc, nil
}

// Upsert merges incoming cards into the stored collection by id and bumps the
// version by 1 relative to the version read at the start of the call. Returns
// the new version and the number of incoming records processed.
func (s *Service) Upsert(ctx context.Context, incoming []cards.Card) (version, updated int, err error) {
	current := s.store.Read(ctx)
	merged := cards.Merge(current.Cards, incoming)
	if err := s.store.Snapshot(ctx, current); err != nil {
		slog.WarnContext(ctx, "Failed to snapshot document before upsert", "err", err)
	}
	doc := cards.Document{Version: current.Version + 1, Cards: merged}
	if err := s.store.Write(ctx, doc); err != nil {
		return 0, 0, fmt.Errorf("failed to persist document: %w", err)
	}
	slog.InfoContext(ctx, "Document upserted", "version", doc.Version, "incoming", len(incoming), "cards", len(doc.Cards))
	return doc.Version, len(incoming), nil
}
