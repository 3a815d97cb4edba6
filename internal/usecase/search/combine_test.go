package search

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/minigallery/internal/domain/catalog"
)

func termLabels(terms []Term) []string {
	out := make([]string, len(terms))
	for i, term := range terms {
		out[i] = term.Label
	}
	return out
}

func TestCombine_EndToEnd(t *testing.T) {
	src := necronPair()
	tests := []struct {
		query string
		want  []uint32
		terms int
	}{
		{"necron painting", []uint32{1}, 2},
		{"necron", []uint32{1, 2}, 1},
		{"elite painting", []uint32{1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res := Combine(src, Tokenize(tt.query))
			assertIDs(t, tt.query, res.Hits, tt.want...)
			if len(res.Terms) != tt.terms {
				t.Errorf("terms = %v, want %d", termLabels(res.Terms), tt.terms)
			}
		})
	}
}

func TestCombine_MissIsInert(t *testing.T) {
	src := gallery()
	base := Combine(src, []string{"elite"})
	withMiss := Combine(src, []string{"zzz", "elite", "nothing-here"})
	assertIDs(t, "with misses", withMiss.Hits, ids(base.Hits)...)
	if len(withMiss.Terms) != 1 {
		t.Errorf("misses must not add terms: %v", termLabels(withMiss.Terms))
	}

	none := Combine(src, []string{"zzz"})
	if !none.Hits.IsEmpty() || len(none.Terms) != 0 {
		t.Errorf("all-miss query = %v, %v", ids(none.Hits), termLabels(none.Terms))
	}
}

func TestCombine_OrderInsensitive(t *testing.T) {
	src := gallery()
	tokens := []string{"xeno", "painting", "warriors"}
	perms := [][]string{
		{tokens[0], tokens[1], tokens[2]},
		{tokens[0], tokens[2], tokens[1]},
		{tokens[1], tokens[0], tokens[2]},
		{tokens[1], tokens[2], tokens[0]},
		{tokens[2], tokens[0], tokens[1]},
		{tokens[2], tokens[1], tokens[0]},
	}
	want := ids(Combine(src, perms[0]).Hits)
	assertIDs(t, "baseline", Combine(src, perms[0]).Hits, 1)
	for _, p := range perms[1:] {
		assertIDs(t, "permutation", Combine(src, p).Hits, want...)
	}
}

func TestCombine_EmptyIntersectionReseeds(t *testing.T) {
	src := gallery()
	// "completed" selects batch 3, "elite" selects 1 and 5, "painting" 1, 5 and 7.
	tests := []struct {
		tokens []string
		want   []uint32
	}{
		{[]string{"completed", "elite", "painting"}, []uint32{1, 5, 7}},
		{[]string{"painting", "completed", "elite"}, []uint32{1, 5}},
		{[]string{"elite", "painting", "completed"}, nil},
		{[]string{"completed", "elite"}, nil},
	}
	for _, tt := range tests {
		res := Combine(src, tt.tokens)
		assertIDs(t, strings.Join(tt.tokens, " "), res.Hits, tt.want...)
		if len(res.Terms) != len(tt.tokens) {
			t.Errorf("Combine(%v) terms = %v", tt.tokens, termLabels(res.Terms))
		}
	}
}

func TestCombine_DuplicateTermCountsOnce(t *testing.T) {
	src := gallery()
	once := Combine(src, []string{"elite", "painting"})
	twice := Combine(src, []string{"elite", "painting", "ELITE", "paint"})

	assertIDs(t, "twice", twice.Hits, ids(once.Hits)...)
	if got := termLabels(twice.Terms); len(got) != 2 || got[0] != "elite" || got[1] != "Painting" {
		t.Errorf("terms = %v", got)
	}
	dups := 0
	for _, st := range twice.Steps {
		if st.Outcome == Duplicate {
			dups++
		}
	}
	if dups != 2 {
		t.Errorf("duplicates = %d, want 2", dups)
	}
}

func TestCombine_MatchedButEmptyIsRecorded(t *testing.T) {
	src := gallery()
	res := Combine(src, []string{"unused", "elite"})
	assertIDs(t, "hits", res.Hits, 1, 5)
	if got := termLabels(res.Terms); len(got) != 2 || got[0] != "unused" {
		t.Errorf("terms = %v", got)
	}
}

func TestCombine_CorruptTreeDoesNotHang(t *testing.T) {
	src := gallery()
	res := Combine(src, []string{"broken", "loop", "glitch"})
	// Both categories sit on a cycle and select nothing; the unit name still works.
	assertIDs(t, "hits", res.Hits, 7)
}

func TestCombine_EmptyCatalog(t *testing.T) {
	res := Combine(catalog.New(catalog.Data{}), []string{"necron", "painting"})
	if !res.Hits.IsEmpty() || len(res.Terms) != 0 {
		t.Errorf("empty catalog = %v, %v", ids(res.Hits), termLabels(res.Terms))
	}
}
