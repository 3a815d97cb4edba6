package search

import "testing"

func TestClassifyTag(t *testing.T) {
	src := gallery()

	m, ok := ClassifyTag(src, "ELITE")
	if !ok || m.Term != (Term{Kind: KindTag, Label: "elite"}) {
		t.Fatalf("ClassifyTag(ELITE) = %+v, %v", m.Term, ok)
	}
	assertIDs(t, "elite hits", m.Hits, 1, 5)

	if _, ok := ClassifyTag(src, "elit"); ok {
		t.Error("tags must match exactly")
	}

	m, ok = ClassifyTag(src, "unused")
	if !ok || !m.Hits.IsEmpty() {
		t.Errorf("tag without batches should match with no hits: %+v, %v", m, ok)
	}
}

func TestClassifyCategory(t *testing.T) {
	src := gallery()

	m, ok := ClassifyCategory(src, "xeno")
	if !ok || m.Term.Label != "Xenos" {
		t.Fatalf("ClassifyCategory(xeno) = %+v, %v", m.Term, ok)
	}
	assertIDs(t, "xenos subtree", m.Hits, 1, 2, 3, 4)

	// Trailing s is dropped: "marines" -> "marine".
	m, ok = ClassifyCategory(src, "marines")
	if !ok || m.Term.Label != "Space Marines" {
		t.Fatalf("ClassifyCategory(marines) = %+v, %v", m.Term, ok)
	}
	assertIDs(t, "space marines", m.Hits, 5, 6)

	m, ok = ClassifyCategory(src, "imperium")
	if !ok {
		t.Fatal("imperium should match")
	}
	assertIDs(t, "imperium subtree", m.Hits, 5, 6)

	for _, token := range []string{"s", "S", "orks"} {
		if _, ok := ClassifyCategory(src, token); ok {
			t.Errorf("ClassifyCategory(%q) should miss", token)
		}
	}
}

func TestClassifyCategory_CycleSelectsNothing(t *testing.T) {
	src := gallery()
	m, ok := ClassifyCategory(src, "loop")
	if !ok {
		t.Fatal("a cyclic category still matches by name")
	}
	if !m.Hits.IsEmpty() {
		t.Errorf("cyclic subtree should be empty, got %v", ids(m.Hits))
	}
}

func TestClassifyStage(t *testing.T) {
	src := gallery()
	tests := []struct {
		token string
		label string
		ok    bool
	}{
		{"painting", "Painting", true},
		{"PAINT", "Painting", true},
		{"paint", "Painting", true},
		{"pri", "", false},         // too short
		{"prim", "Priming", true},  // four runes is enough
		{"it", "", false},          // must not match Unopened
		{"magnetizing", "", false}, // no batch at that stage
		{"painted", "", false},
	}
	for _, tt := range tests {
		m, ok := ClassifyStage(src, tt.token)
		if ok != tt.ok || (ok && m.Term.Label != tt.label) {
			t.Errorf("ClassifyStage(%q) = %q, %v; want %q, %v", tt.token, m.Term.Label, ok, tt.label, tt.ok)
		}
	}
}

func TestClassifyUnitType(t *testing.T) {
	src := gallery()

	m, ok := ClassifyUnitType(src, "infantry")
	if !ok || m.Term.Label != "Infantry" {
		t.Fatalf("ClassifyUnitType(infantry) = %+v, %v", m.Term, ok)
	}
	assertIDs(t, "infantry", m.Hits, 1, 2, 6)

	for _, token := range []string{"infant", "Monster", "Epic"} {
		if _, ok := ClassifyUnitType(src, token); ok {
			t.Errorf("ClassifyUnitType(%q) should miss", token)
		}
	}
}

func TestClassifyUnitName(t *testing.T) {
	src := gallery()

	m, ok := ClassifyUnitName(src, "warriors")
	if !ok || m.Term != (Term{Kind: KindUnitName, Label: "warrior"}) {
		t.Fatalf("ClassifyUnitName(warriors) = %+v, %v", m.Term, ok)
	}
	assertIDs(t, "warriors", m.Hits, 1, 2)

	m, ok = ClassifyUnitName(src, "knight")
	if !ok || !m.Hits.IsEmpty() {
		t.Errorf("unit without batches should match with no hits: %+v, %v", m, ok)
	}

	for _, token := range []string{"", "s", "wraith"} {
		if _, ok := ClassifyUnitName(src, token); ok {
			t.Errorf("ClassifyUnitName(%q) should miss", token)
		}
	}
}

func TestClassifyKit(t *testing.T) {
	src := gallery()

	m, ok := ClassifyKit(src, "combat patrol")
	if !ok || m.Term.Label != "Combat Patrol: Necrons" {
		t.Fatalf("ClassifyKit(combat patrol) = %+v, %v", m.Term, ok)
	}
	assertIDs(t, "combat patrols", m.Hits, 2, 3, 4)

	m, ok = ClassifyKit(src, "indomitus")
	if !ok {
		t.Fatal("indomitus should match")
	}
	assertIDs(t, "indomitus", m.Hits, 1, 6)

	for _, token := range []string{"", "  ", "start collecting"} {
		if _, ok := ClassifyKit(src, token); ok {
			t.Errorf("ClassifyKit(%q) should miss", token)
		}
	}
}

func TestSubtreeBatches(t *testing.T) {
	src := gallery()
	assertIDs(t, "Xenos", SubtreeBatches(src, 1), 1, 2, 3, 4)
	assertIDs(t, "Tyranids", SubtreeBatches(src, 3), 4)
	assertIDs(t, "Loop", SubtreeBatches(src, 7))
	assertIDs(t, "unknown", SubtreeBatches(src, 99))
}

func TestResolve_Precedence(t *testing.T) {
	src := gallery()
	r := newResolver(src, Classifiers())

	// "Xenos" is both a tag and a category; the tag wins.
	m, outcome := r.resolve("xenos")
	if outcome != Hit || m.Term.Kind != KindTag {
		t.Fatalf("resolve(xenos) = %+v, %v", m.Term, outcome)
	}
	assertIDs(t, "xenos tag", m.Hits, 4)

	// "necron" hits the category before the unit name or kit.
	m, outcome = r.resolve("necron")
	if outcome != Hit || m.Term.Kind != KindCategory {
		t.Errorf("resolve(necron) = %+v, %v", m.Term, outcome)
	}
}

func TestResolve_Duplicate(t *testing.T) {
	src := gallery()
	r := newResolver(src, Classifiers())

	if _, outcome := r.resolve("elite"); outcome != Hit {
		t.Fatalf("first elite = %v", outcome)
	}
	m, outcome := r.resolve("ELITE")
	if outcome != Duplicate {
		t.Fatalf("second elite = %v", outcome)
	}
	if m.Hits != nil {
		t.Error("a duplicate must not carry hits")
	}
	if _, outcome := r.resolve("zzz"); outcome != Miss {
		t.Errorf("resolve(zzz) = %v", outcome)
	}
}

func TestOutcomeString(t *testing.T) {
	if Miss.String() != "miss" || Duplicate.String() != "duplicate" || Hit.String() != "hit" {
		t.Error("unexpected outcome names")
	}
	if Outcome(9).String() != "unknown" {
		t.Error("out-of-range outcome")
	}
}
