package cards

// Merge computes the id-keyed union of current and incoming card collections.
//
// The result is keyed by stringified id. For an id present in both inputs,
// the merged card is the shallow field union with incoming values winning per
// field; fields absent from the incoming card are preserved. Ids only present
// in incoming are appended in incoming order; existing ids keep their
// original relative order. Cards without an id in either input are excluded
// from the result entirely.
//
// Merge never aliases its inputs: all returned cards are deep copies.
func Merge(current, incoming []Card) []Card {
	order := make([]string, 0, len(current)+len(incoming))
	byID := make(map[string]Card, len(current)+len(incoming))

	for _, c := range current {
		id, ok := c.ID()
		if !ok {
			continue
		}
		if _, seen := byID[id]; !seen {
			order = append(order, id)
		}
		byID[id] = c.Clone()
	}

	for _, in := range incoming {
		id, ok := in.ID()
		if !ok {
			continue
		}
		existing, seen := byID[id]
		if !seen {
			order = append(order, id)
			byID[id] = in.Clone()
			continue
		}
		merged := existing
		for k, v := range in {
			merged[k] = cloneValue(v)
		}
		byID[id] = merged
	}

	out := make([]Card, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}
