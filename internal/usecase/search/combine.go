package search

import "github.com/RoaringBitmap/roaring"

// Step records how one token was resolved.
type Step struct {
	Token   string
	Term    Term
	Outcome Outcome
	Hits    uint64
}

// Resolution is the outcome of combining a query's tokens.
type Resolution struct {
	Hits  *roaring.Bitmap
	Terms []Term
	Steps []Step
}

// Combine resolves tokens against src and ANDs their results. Tokens that
// select nothing are skipped. A productive token seeds the result while it is
// empty and narrows it otherwise, so a token that empties the result is
// forgotten by the next productive one.
func Combine(src Source, tokens []string) Resolution {
	return combine(src, Classifiers(), tokens)
}

func combine(src Source, classifiers []Classifier, tokens []string) Resolution {
	res := Resolution{Hits: roaring.NewBitmap(), Terms: []Term{}}
	r := newResolver(src, classifiers)

	for _, token := range tokens {
		m, outcome := r.resolve(token)
		step := Step{Token: token, Term: m.Term, Outcome: outcome}
		if outcome == Hit {
			res.Terms = append(res.Terms, m.Term)
			step.Hits = m.Hits.GetCardinality()
		}
		res.Steps = append(res.Steps, step)

		if outcome != Hit || m.Hits.IsEmpty() {
			continue
		}
		if res.Hits.IsEmpty() {
			res.Hits.Or(m.Hits)
			continue
		}
		res.Hits.And(m.Hits)
	}
	return res
}
