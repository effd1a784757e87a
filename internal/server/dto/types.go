package dto

// Validatable is implemented by all request types.
type Validatable interface {
	Validate() error
}

// HealthRequest is the (empty) health check request.
type HealthRequest struct{}

// Validate implements Validatable.
func (r *HealthRequest) Validate() error { return nil }

// HealthResponse reports service status and build version.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// GetCardsRequest is the (empty) document read request.
type GetCardsRequest struct{}

// Validate implements Validatable.
func (r *GetCardsRequest) Validate() error { return nil }

// CardsResponse is the full document as returned to clients.
type CardsResponse struct {
	Version int              `json:"version"`
	Cards   []map[string]any `json:"cards"`
}

// SchemaRequest is the (empty) document schema request.
type SchemaRequest struct{}

// Validate implements Validatable.
func (r *SchemaRequest) Validate() error { return nil }

// ReplaceCardsRequest replaces the stored document wholesale. The
// caller-supplied version is authoritative; zero defaults to 1.
type ReplaceCardsRequest struct {
	Version int              `json:"version"`
	Cards   []map[string]any `json:"cards"`
}

// Validate rejects bodies without a cards array before any store access.
func (r *ReplaceCardsRequest) Validate() error {
	if r.Cards == nil {
		return MissingField("cards")
	}
	if r.Version < 0 {
		return InvalidField("version", "must be non-negative")
	}
	return nil
}

// ReplaceCardsResponse confirms a full replace.
type ReplaceCardsResponse struct {
	OK      bool `json:"ok"`
	Version int  `json:"version"`
}

// UpsertCardsRequest merges the given cards into the stored document by id.
type UpsertCardsRequest struct {
	Cards []map[string]any `json:"cards"`
}

// Validate rejects bodies without a cards array before any store access.
func (r *UpsertCardsRequest) Validate() error {
	if r.Cards == nil {
		return MissingField("cards")
	}
	return nil
}

// UpsertCardsResponse confirms a merge upsert.
type UpsertCardsResponse struct {
	OK      bool `json:"ok"`
	Version int  `json:"version"`
	Updated int  `json:"updated"`
}
