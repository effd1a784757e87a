// Converts between dto and cards types.

package handlers

import "github.com/cardsd/cardsd/internal/cards"

func cardsFromDTO(in []map[string]any) []cards.Card {
	out := make([]cards.Card, len(in))
	for i, c := range in {
		out[i] = cards.Card(c)
	}
	return out
}

func cardsToDTO(in []cards.Card) []map[string]any {
	out := make([]map[string]any, len(in))
	for i, c := range in {
		out[i] = map[string]any(c)
	}
	return out
}
