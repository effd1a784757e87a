// Package cards defines the versioned card collection document persisted by
// the store, along with deep cloning and the id-keyed merge used by the
// mutation path.
//
// A Card is an open field set; the only field with defined semantics is "id",
// which is compared as a string after coercion. The Document is the sole unit
// of persistence: a positive version counter plus an ordered card collection.
package cards

import (
	"fmt"
	"strconv"
)

// DefaultVersion is the version of a freshly seeded document.
const DefaultVersion = 1

// Card is one configuration record. All fields are caller-defined.
type Card map[string]any

// Document is the single versioned card collection.
type Document struct {
	Version int    `json:"version"`
	Cards   []Card `json:"cards"`
}

// DefaultDocument returns the empty document used for seeding and for read
// degradation.
func DefaultDocument() Document {
	return Document{Version: DefaultVersion, Cards: []Card{}}
}

// Normalize enforces the document invariants: cards is never nil and version
// is positive. Used after decoding possibly hand-edited or partial data.
func (d *Document) Normalize() {
	if d.Cards == nil {
		d.Cards = []Card{}
	}
	if d.Version < 1 {
		d.Version = DefaultVersion
	}
}

// ID returns the card's identity as a string, mirroring how the id would
// stringify in JSON. Returns false for cards without an id; those are
// anonymous and never participate in merges.
func (c Card) ID() (string, bool) {
	v, ok := c["id"]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		// encoding/json decodes all numbers to float64.
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return fmt.Sprint(t), true
	}
}

// Clone returns a deep copy of the card. Nested maps and slices are copied so
// callers can mutate the result freely.
func (c Card) Clone() Card {
	if c == nil {
		return nil
	}
	out := make(Card, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}
	return out
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{Version: d.Version, Cards: make([]Card, len(d.Cards))}
	for i, c := range d.Cards {
		out.Cards[i] = c.Clone()
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
