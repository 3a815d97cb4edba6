package search

// Outcome is how a single token resolved.
type Outcome int

// Token outcomes.
const (
	// Miss means no classifier matched.
	Miss Outcome = iota
	// Duplicate means the token matched a term an earlier token already applied.
	Duplicate
	// Hit means the token matched a new term.
	Hit
)

func (o Outcome) String() string {
	switch o {
	case Miss:
		return "miss"
	case Duplicate:
		return "duplicate"
	case Hit:
		return "hit"
	default:
		return "unknown"
	}
}

// resolver tries classifiers in order and remembers the terms it has applied.
// One resolver serves one query.
type resolver struct {
	src         Source
	classifiers []Classifier
	seen        map[string]struct{}
}

func newResolver(src Source, classifiers []Classifier) *resolver {
	return &resolver{src: src, classifiers: classifiers, seen: make(map[string]struct{})}
}

// resolve classifies token with the first matching classifier. A duplicate
// term returns the match with Outcome Duplicate; its hits must not be applied.
func (r *resolver) resolve(token string) (Match, Outcome) {
	for _, classify := range r.classifiers {
		m, ok := classify(r.src, token)
		if !ok {
			continue
		}
		key := m.Term.key()
		if _, dup := r.seen[key]; dup {
			return Match{Term: m.Term}, Duplicate
		}
		r.seen[key] = struct{}{}
		return m, Hit
	}
	return Match{}, Miss
}
