package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/cardsd/cardsd/internal/cards"
)

func TestRemoteStoreRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/rest/v1/documents" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("name") != "eq.cards" {
			t.Errorf("name filter = %q", q.Get("name"))
		}
		if q.Get("select") != "payload" {
			t.Errorf("select = %q", q.Get("select"))
		}
		if r.Header.Get("apikey") != "svc-key" {
			t.Errorf("apikey = %q", r.Header.Get("apikey"))
		}
		if r.Header.Get("Authorization") != "Bearer svc-key" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		_, _ = io.WriteString(w, `[{"payload": {"version": 3, "cards": [{"id": "a"}]}}]`)
	}))
	defer srv.Close()

	s := NewRemoteStore(srv.URL, "svc-key")
	doc := s.Read(context.Background())
	if doc.Version != 3 || len(doc.Cards) != 1 {
		t.Errorf("Read() = %v", doc)
	}
}

func TestRemoteStoreReadDegradation(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "missing row",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `[]`)
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `not json`)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			s := NewRemoteStore(srv.URL, "svc-key")
			doc := s.Read(context.Background())
			if !reflect.DeepEqual(doc, cards.DefaultDocument()) {
				t.Errorf("Read() = %v, want default document", doc)
			}
		})
	}
}

func TestRemoteStoreReadUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	s := NewRemoteStore(srv.URL, "svc-key")
	doc := s.Read(context.Background())
	if !reflect.DeepEqual(doc, cards.DefaultDocument()) {
		t.Errorf("Read() = %v, want default document", doc)
	}
}

func TestRemoteStoreWrite(t *testing.T) {
	var gotBody []documentRow
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/rest/v1/documents" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("on_conflict"); got != "name" {
			t.Errorf("on_conflict = %q, want name", got)
		}
		if got := r.Header.Get("Prefer"); got != "resolution=merge-duplicates,return=minimal" {
			t.Errorf("Prefer = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewRemoteStore(srv.URL+"/", "svc-key")
	doc := cards.Document{Version: 2, Cards: []cards.Card{{"id": "a"}}}
	if err := s.Write(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	if len(gotBody) != 1 || gotBody[0].Name != "cards" || gotBody[0].Payload.Version != 2 {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestRemoteStoreWriteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "permission denied"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewRemoteStore(srv.URL, "svc-key")
	err := s.Write(context.Background(), cards.DefaultDocument())
	if err == nil {
		t.Fatal("expected error on non-2xx write")
	}
}

func TestRemoteStoreSnapshot(t *testing.T) {
	var gotBody []historyRow
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/documents_history" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Prefer"); got != "return=minimal" {
			t.Errorf("Prefer = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewRemoteStore(srv.URL, "svc-key")
	doc := cards.Document{Version: 4, Cards: []cards.Card{{"id": "a"}}}
	if err := s.Snapshot(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	if len(gotBody) != 1 || gotBody[0].Name != "cards" || gotBody[0].Payload.Version != 4 {
		t.Errorf("body = %+v", gotBody)
	}
	if gotBody[0].SavedAt == "" {
		t.Error("saved_at is empty")
	}
}
