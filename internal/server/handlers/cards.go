// Package handlers implements the API endpoint handlers.
package handlers

import (
	"context"
	"sync"

	"github.com/cardsd/cardsd/internal/server/dto"
	"github.com/cardsd/cardsd/internal/store"
	"github.com/invopop/jsonschema"
)

// CardsHandler handles reads and mutations of the card document.
type CardsHandler struct {
	svc *store.Service
}

// NewCardsHandler creates a new cards handler over the mutation gateway.
func NewCardsHandler(svc *store.Service) *CardsHandler {
	return &CardsHandler{svc: svc}
}

// GetCards returns the stored document. It always succeeds; backend trouble
// surfaces as the default empty document, never as an error status.
func (h *CardsHandler) GetCards(ctx context.Context, _ *dto.GetCardsRequest) (*dto.CardsResponse, error) {
	doc := h.svc.Get(ctx)
	return &dto.CardsResponse{Version: doc.Version, Cards: cardsToDTO(doc.Cards)}, nil
}

// ReplaceCards overwrites the stored document with the request body.
func (h *CardsHandler) ReplaceCards(ctx context.Context, req *dto.ReplaceCardsRequest) (*dto.ReplaceCardsResponse, error) {
	doc, err := h.svc.Replace(ctx, req.Version, cardsFromDTO(req.Cards))
	if err != nil {
		return nil, dto.StorageError("Failed to save cards").Wrap(err)
	}
	return &dto.ReplaceCardsResponse{OK: true, Version: doc.Version}, nil
}

// UpsertCards merges the request cards into the stored document by id.
func (h *CardsHandler) UpsertCards(ctx context.Context, req *dto.UpsertCardsRequest) (*dto.UpsertCardsResponse, error) {
	version, updated, err := h.svc.Upsert(ctx, cardsFromDTO(req.Cards))
	if err != nil {
		return nil, dto.StorageError("Failed to save cards").Wrap(err)
	}
	return &dto.UpsertCardsResponse{OK: true, Version: version, Updated: updated}, nil
}

var documentSchema = sync.OnceValue(func() *jsonschema.Schema {
	r := &jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true}
	return r.Reflect(&dto.CardsResponse{})
})

// GetSchema returns the JSON Schema of the document response.
func (h *CardsHandler) GetSchema(ctx context.Context, _ *dto.SchemaRequest) (*jsonschema.Schema, error) {
	return documentSchema(), nil
}
