package cards

import (
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		current  []Card
		incoming []Card
		want     []Card
	}{
		{
			name:     "new card appended",
			current:  []Card{{"id": "a", "name": "Alpha"}},
			incoming: []Card{{"id": "b", "name": "Beta"}},
			want: []Card{
				{"id": "a", "name": "Alpha"},
				{"id": "b", "name": "Beta"},
			},
		},
		{
			name:     "incoming field wins",
			current:  []Card{{"id": "a", "color": "red", "size": float64(3)}},
			incoming: []Card{{"id": "a", "color": "blue"}},
			want:     []Card{{"id": "a", "color": "blue", "size": float64(3)}},
		},
		{
			name:     "absent fields preserved",
			current:  []Card{{"id": "a", "name": "Alpha", "note": "keep me"}},
			incoming: []Card{{"id": "a", "name": "Alpha v2"}},
			want:     []Card{{"id": "a", "name": "Alpha v2", "note": "keep me"}},
		},
		{
			name:     "numeric id matches string id",
			current:  []Card{{"id": "1", "name": "One"}},
			incoming: []Card{{"id": float64(1), "name": "Uno"}},
			want:     []Card{{"id": float64(1), "name": "Uno"}},
		},
		{
			name:     "idless incoming dropped",
			current:  []Card{{"id": "a"}},
			incoming: []Card{{"name": "anonymous"}, {"id": "b"}},
			want:     []Card{{"id": "a"}, {"id": "b"}},
		},
		{
			name:     "idless current dropped",
			current:  []Card{{"name": "anonymous"}, {"id": "a"}},
			incoming: []Card{},
			want:     []Card{{"id": "a"}},
		},
		{
			name:    "existing order kept, new appended in incoming order",
			current: []Card{{"id": "a"}, {"id": "b"}},
			incoming: []Card{
				{"id": "d"},
				{"id": "b", "touched": true},
				{"id": "c"},
			},
			want: []Card{
				{"id": "a"},
				{"id": "b", "touched": true},
				{"id": "d"},
				{"id": "c"},
			},
		},
		{
			name:     "empty incoming",
			current:  []Card{{"id": "a"}},
			incoming: []Card{},
			want:     []Card{{"id": "a"}},
		},
		{
			name:     "both empty",
			current:  []Card{},
			incoming: []Card{},
			want:     []Card{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.current, tt.incoming)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeIdempotent(t *testing.T) {
	current := []Card{{"id": "a", "color": "red"}, {"id": "b"}}
	incoming := []Card{{"id": "a", "color": "blue"}, {"id": "c"}}

	once := Merge(current, incoming)
	twice := Merge(once, incoming)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second merge changed result: %v vs %v", once, twice)
	}
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	current := []Card{{"id": "a", "meta": map[string]any{"k": "v"}}}
	incoming := []Card{{"id": "b", "tags": []any{"x"}}}

	got := Merge(current, incoming)
	got[0]["meta"].(map[string]any)["k"] = "changed"
	got[1]["tags"].([]any)[0] = "changed"

	if current[0]["meta"].(map[string]any)["k"] != "v" {
		t.Error("merge result aliases current card")
	}
	if incoming[0]["tags"].([]any)[0] != "x" {
		t.Error("merge result aliases incoming card")
	}
}
