package search

import (
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/kailas-cloud/minigallery/internal/domain/category"
	"github.com/kailas-cloud/minigallery/internal/domain/fold"
	"github.com/kailas-cloud/minigallery/internal/domain/stage"
	"github.com/kailas-cloud/minigallery/internal/domain/unittype"
)

// Kind names the taxonomy a term was matched in.
type Kind string

// Term kinds in classifier precedence order.
const (
	KindTag      Kind = "tag"
	KindCategory Kind = "category"
	KindStage    Kind = "stage"
	KindUnitType Kind = "unit_type"
	KindUnitName Kind = "unit_name"
	KindKit      Kind = "kit"
)

// Term is the canonical form of a matched token.
type Term struct {
	Kind  Kind
	Label string
}

// key identifies a term for duplicate detection.
func (t Term) key() string {
	return string(t.Kind) + ":" + fold.Key(t.Label)
}

// Match is a classified token: its canonical term and the batches it selects.
type Match struct {
	Term Term
	Hits *roaring.Bitmap
}

// Classifier turns a token into a match, or reports false. Classifiers never
// fail: anything they cannot resolve is a miss.
type Classifier func(src Source, token string) (Match, bool)

// Classifiers returns the classifiers in precedence order. The first one that
// matches decides the token.
func Classifiers() []Classifier {
	return []Classifier{
		ClassifyTag,
		ClassifyCategory,
		ClassifyStage,
		ClassifyUnitType,
		ClassifyUnitName,
		ClassifyKit,
	}
}

// ClassifyTag matches a tag whose name equals the token ignoring case.
func ClassifyTag(src Source, token string) (Match, bool) {
	tag, ok := src.TagByName(token)
	if !ok {
		return Match{}, false
	}
	return Match{Term: Term{Kind: KindTag, Label: tag.Name}, Hits: src.TaggedBatches(tag.ID)}, true
}

// ClassifyCategory matches the lowest-ID category whose name contains the
// token, singularized, and selects every batch in its subtree.
func ClassifyCategory(src Source, token string) (Match, bool) {
	fragment := singular(token)
	if fragment == "" {
		return Match{}, false
	}
	cat, ok := src.Tree().FindByName(fragment)
	if !ok {
		return Match{}, false
	}
	return Match{
		Term: Term{Kind: KindCategory, Label: cat.Name()},
		Hits: SubtreeBatches(src, cat.ID()),
	}, true
}

// ClassifyStage matches the first build stage whose name starts with the
// token. A stage no batch is at does not match.
func ClassifyStage(src Source, token string) (Match, bool) {
	s, ok := stage.Match(token)
	if !ok {
		return Match{}, false
	}
	hits := src.BatchesOfStage(s)
	if hits.IsEmpty() {
		return Match{}, false
	}
	return Match{Term: Term{Kind: KindStage, Label: s.String()}, Hits: hits}, true
}

// ClassifyUnitType matches a unit type by its exact name ignoring case.
// A type no batch has does not match.
func ClassifyUnitType(src Source, token string) (Match, bool) {
	t, ok := unittype.Parse(token)
	if !ok {
		return Match{}, false
	}
	hits := src.BatchesOfUnitType(t)
	if hits.IsEmpty() {
		return Match{}, false
	}
	return Match{Term: Term{Kind: KindUnitType, Label: t.String()}, Hits: hits}, true
}

// ClassifyUnitName matches when some unit name contains the singularized token.
func ClassifyUnitName(src Source, token string) (Match, bool) {
	fragment := singular(token)
	if fragment == "" || !src.HasUnitNamed(fragment) {
		return Match{}, false
	}
	return Match{
		Term: Term{Kind: KindUnitName, Label: fragment},
		Hits: src.BatchesWithUnitName(fragment),
	}, true
}

// ClassifyKit matches every kit whose name contains the token. The term is
// named after the lowest-ID kit.
func ClassifyKit(src Source, token string) (Match, bool) {
	fragment := strings.TrimSpace(token)
	if fragment == "" {
		return Match{}, false
	}
	kits := src.KitsByName(fragment)
	if len(kits) == 0 {
		return Match{}, false
	}
	hits := roaring.NewBitmap()
	for _, k := range kits {
		hits.Or(src.BatchesOfKit(k.ID))
	}
	return Match{Term: Term{Kind: KindKit, Label: kits[0].Name}, Hits: hits}, true
}

// SubtreeBatches collects the batches of root and every descendant category.
// A root on a cyclic chain yields an empty set.
func SubtreeBatches(src Source, root category.ID) *roaring.Bitmap {
	out := roaring.NewBitmap()
	for _, id := range src.Tree().Subtree(root) {
		out.Or(src.BatchesInCategory(id))
	}
	return out
}

func singular(token string) string {
	return strings.TrimSpace(fold.TrimPlural(strings.TrimSpace(token)))
}
