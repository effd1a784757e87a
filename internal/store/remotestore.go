package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cardsd/cardsd/internal/cards"
)

const (
	remoteTable        = "documents"
	remoteHistoryTable = "documents_history"
)

// RemoteStore persists the document in a managed Postgres table behind a
// PostgREST endpoint (e.g. Supabase). The live document is one row in the
// documents table keyed by the fixed document name; snapshots are appended to
// the documents_history table.
type RemoteStore struct {
	baseURL string
	key     string
	client  *http.Client
}

// NewRemoteStore creates a store talking to the PostgREST API at baseURL,
// authenticating every call with the given service key.
func NewRemoteStore(baseURL, key string) *RemoteStore {
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type documentRow struct {
	Name    string         `json:"name"`
	Payload cards.Document `json:"payload"`
}

type historyRow struct {
	Name    string         `json:"name"`
	Payload cards.Document `json:"payload"`
	SavedAt string         `json:"saved_at"`
}

// Read fetches the row keyed by the document name. A missing row or any
// transport/decode failure is logged and the default document is returned.
func (s *RemoteStore) Read(ctx context.Context) cards.Document {
	u := fmt.Sprintf("%s/rest/v1/%s?name=eq.%s&select=payload&limit=1", s.baseURL, remoteTable, DocumentName)
	req, err := s.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to build remote read request, substituting default", "err", err)
		return cards.DefaultDocument()
	}
	resp, err := s.client.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "Remote read failed, substituting default", "err", err)
		return cards.DefaultDocument()
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		slog.WarnContext(ctx, "Remote read returned an error, substituting default", "status", resp.Status, "detail", readErrorBody(resp))
		return cards.DefaultDocument()
	}
	var rows []struct {
		Payload cards.Document `json:"payload"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		slog.WarnContext(ctx, "Failed to decode remote document, substituting default", "err", err)
		return cards.DefaultDocument()
	}
	if len(rows) == 0 {
		return cards.DefaultDocument()
	}
	doc := rows[0].Payload
	doc.Normalize()
	return doc
}

// Write upserts the row keyed by the document name, replacing its payload
// entirely. Any backend error fails the enclosing mutation.
func (s *RemoteStore) Write(ctx context.Context, doc cards.Document) error {
	doc.Normalize()
	body, err := json.Marshal([]documentRow{{Name: DocumentName, Payload: doc}})
	if err != nil {
		return fmt.Errorf("failed to marshal document row: %w", err)
	}
	u := fmt.Sprintf("%s/rest/v1/%s?on_conflict=name", s.baseURL, remoteTable)
	req, err := s.newRequest(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote write failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("remote write failed: %s: %s", resp.Status, readErrorBody(resp))
	}
	return nil
}

// Snapshot appends doc to the history table with a server-side timestamp
// column.
func (s *RemoteStore) Snapshot(ctx context.Context, doc cards.Document) error {
	doc.Normalize()
	row := historyRow{Name: DocumentName, Payload: doc, SavedAt: time.Now().UTC().Format(time.RFC3339Nano)}
	body, err := json.Marshal([]historyRow{row})
	if err != nil {
		return fmt.Errorf("failed to marshal history row: %w", err)
	}
	u := fmt.Sprintf("%s/rest/v1/%s", s.baseURL, remoteHistoryTable)
	req, err := s.newRequest(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote snapshot failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("remote snapshot failed: %s: %s", resp.Status, readErrorBody(resp))
	}
	return nil
}

func (s *RemoteStore) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build remote request: %w", err)
	}
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// readErrorBody returns a short excerpt of an error response body for logs.
func readErrorBody(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return strings.TrimSpace(string(data))
}
