package category

import (
	"fmt"
	"strings"
)

// MaxNameLength is the longest category name accepted on input.
const MaxNameLength = 32

// ID identifies a category.
type ID int64

// Category is a node in the category hierarchy (immutable value object).
// The parent is held by identifier; the node never points at another node.
type Category struct {
	id       ID
	name     string
	parentID *ID
}

// New validates and creates a Category. parentID may be nil for a root.
func New(id ID, name string, parentID *ID) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("category name is required")
	}
	if len([]rune(name)) > MaxNameLength {
		return Category{}, fmt.Errorf("category name too long (max %d)", MaxNameLength)
	}
	return Category{id: id, name: name, parentID: cloneID(parentID)}, nil
}

// Reconstruct creates a Category without validation (storage hydration).
func Reconstruct(id ID, name string, parentID *ID) Category {
	return Category{id: id, name: name, parentID: cloneID(parentID)}
}

// ID returns the category identifier.
func (c Category) ID() ID { return c.id }

// Name returns the category's own name.
func (c Category) Name() string { return c.name }

// Parent returns the parent identifier; ok is false for a root.
func (c Category) Parent() (parent ID, ok bool) {
	if c.parentID == nil {
		return 0, false
	}
	return *c.parentID, true
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool { return c.parentID == nil }

// WithParent returns a copy re-parented under parentID (nil makes it a root).
func (c Category) WithParent(parentID *ID) Category {
	return Category{id: c.id, name: c.name, parentID: cloneID(parentID)}
}

func (c Category) String() string { return c.name }

func cloneID(p *ID) *ID {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
