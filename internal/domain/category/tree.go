package category

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/minigallery/internal/domain/fold"
)

// Tree is an arena of categories addressed by ID. It is read-only once built
// and safe for concurrent use.
//
// Stored parent links are not trusted: corrupt data may form cycles, so every
// traversal re-checks the chain it is about to follow.
type Tree struct {
	nodes    map[ID]Category
	children map[ID][]ID
	order    []ID
}

// NewTree indexes cats. Later duplicates of an ID replace earlier ones.
func NewTree(cats []Category) *Tree {
	t := &Tree{
		nodes:    make(map[ID]Category, len(cats)),
		children: make(map[ID][]ID),
	}
	for _, c := range cats {
		if _, dup := t.nodes[c.id]; !dup {
			t.order = append(t.order, c.id)
		}
		t.nodes[c.id] = c
	}
	sort.Slice(t.order, func(i, j int) bool { return t.order[i] < t.order[j] })

	for _, id := range t.order {
		if p, ok := t.nodes[id].Parent(); ok {
			t.children[p] = append(t.children[p], id)
		}
	}
	return t
}

// Len returns the number of categories.
func (t *Tree) Len() int { return len(t.order) }

// Get returns the category with the given ID.
func (t *Tree) Get(id ID) (Category, bool) {
	c, ok := t.nodes[id]
	return c, ok
}

// Has reports whether id is a known category.
func (t *Tree) Has(id ID) bool {
	_, ok := t.nodes[id]
	return ok
}

// All returns every category in ascending ID order.
func (t *Tree) All() []Category {
	out := make([]Category, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.nodes[id])
	}
	return out
}

// Children returns the IDs of the direct children of id, ascending.
func (t *Tree) Children(id ID) []ID {
	kids := t.children[id]
	out := make([]ID, len(kids))
	copy(out, kids)
	return out
}

// IsSafe walks the parent chain from id and reports whether it ends at a root.
// It returns false when the chain revisits a node, including a node that is its
// own parent, and for unknown IDs. A parent ID with no matching node ends the
// chain like a root does.
func (t *Tree) IsSafe(id ID) bool {
	node, ok := t.nodes[id]
	if !ok {
		return false
	}
	visited := map[ID]struct{}{id: {}}
	for {
		parentID, hasParent := node.Parent()
		if !hasParent {
			return true
		}
		if _, seen := visited[parentID]; seen {
			return false
		}
		parent, known := t.nodes[parentID]
		if !known {
			return true
		}
		visited[parentID] = struct{}{}
		node = parent
	}
}

// OnCycle reports whether walking the parent chain from id leads back to id.
// Nodes that merely hang below a cycle are unsafe but not on it.
func (t *Tree) OnCycle(id ID) bool {
	node, ok := t.nodes[id]
	if !ok {
		return false
	}
	visited := make(map[ID]struct{})
	for {
		parentID, hasParent := node.Parent()
		if !hasParent {
			return false
		}
		if parentID == id {
			return true
		}
		if _, seen := visited[parentID]; seen {
			return false
		}
		parent, known := t.nodes[parentID]
		if !known {
			return false
		}
		visited[parentID] = struct{}{}
		node = parent
	}
}

// CascadingName returns the path-style name "Root/Child/Leaf" for id.
// A category on or above a cycle gets only its own name.
func (t *Tree) CascadingName(id ID) string {
	node, ok := t.nodes[id]
	if !ok {
		return ""
	}
	if !t.IsSafe(id) {
		return node.name
	}
	parentID, hasParent := node.Parent()
	if !hasParent {
		return node.name
	}
	if _, known := t.nodes[parentID]; !known {
		return node.name
	}
	return t.CascadingName(parentID) + "/" + node.name
}

// Subtree returns root and all of its descendants. It returns nil when root is
// unknown or its parent chain is cyclic.
func (t *Tree) Subtree(root ID) []ID {
	if !t.IsSafe(root) {
		return nil
	}
	var out []ID
	seen := map[ID]struct{}{root: {}}
	stack := []ID{root}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, current)
		for _, child := range t.children[current] {
			if _, dup := seen[child]; dup {
				continue
			}
			seen[child] = struct{}{}
			stack = append(stack, child)
		}
	}
	return out
}

// Unsafe returns the IDs of every category whose parent chain is cyclic.
func (t *Tree) Unsafe() []ID {
	var out []ID
	for _, id := range t.order {
		if !t.IsSafe(id) {
			out = append(out, id)
		}
	}
	return out
}

// FindByName returns the lowest-ID category whose name contains fragment,
// ignoring case. An empty fragment matches nothing.
func (t *Tree) FindByName(fragment string) (Category, bool) {
	if strings.TrimSpace(fragment) == "" {
		return Category{}, false
	}
	for _, id := range t.order {
		if fold.Contains(t.nodes[id].name, fragment) {
			return t.nodes[id], true
		}
	}
	return Category{}, false
}

// WithParent returns a new tree in which id hangs under parentID.
// ok is false when id is unknown or the move would make id's chain cyclic;
// the receiver is never modified.
func (t *Tree) WithParent(id ID, parentID *ID) (moved *Tree, ok bool) {
	node, known := t.nodes[id]
	if !known {
		return nil, false
	}
	cats := t.All()
	for i := range cats {
		if cats[i].id == id {
			cats[i] = node.WithParent(parentID)
		}
	}
	next := NewTree(cats)
	if !next.IsSafe(id) {
		return nil, false
	}
	return next, true
}
