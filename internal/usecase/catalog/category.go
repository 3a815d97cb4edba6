package catalog

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/minigallery/internal/domain"
	"github.com/kailas-cloud/minigallery/internal/domain/category"
)

// CategoryView is a category with its position in the hierarchy resolved.
type CategoryView struct {
	ID            category.ID
	Name          string
	ParentID      *category.ID
	CascadingName string
	Safe          bool
	UnitCount     int
}

// Categories lists every category in ID order.
func (s *Service) Categories(ctx context.Context) ([]CategoryView, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	tree := snap.Tree()
	out := make([]CategoryView, 0, tree.Len())
	for _, c := range tree.All() {
		v := viewCategory(tree, c)
		v.UnitCount = snap.UnitCount(c.ID())
		out = append(out, v)
	}
	return out, nil
}

// SetCategoryParent moves a category under parentID, or makes it a root when
// parentID is nil. A move that would put the category on a cycle is rejected
// and nothing is stored.
func (s *Service) SetCategoryParent(ctx context.Context, id category.ID, parentID *category.ID) (CategoryView, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return CategoryView{}, err
	}
	tree := snap.Tree()
	if _, ok := tree.Get(id); !ok {
		return CategoryView{}, fmt.Errorf("category %d: %w", id, domain.ErrCategoryNotFound)
	}
	if parentID != nil {
		if _, ok := tree.Get(*parentID); !ok {
			return CategoryView{}, fmt.Errorf("parent %d: %w", *parentID, domain.ErrCategoryNotFound)
		}
	}

	moved, ok := tree.WithParent(id, parentID)
	if !ok {
		return CategoryView{}, domain.NewCategoryCycle(int64(id), int64(*parentID))
	}
	c, _ := moved.Get(id)
	if _, err := s.repo.SaveCategory(ctx, c); err != nil {
		return CategoryView{}, fmt.Errorf("save category: %w", err)
	}
	s.Invalidate()

	v := viewCategory(moved, c)
	v.UnitCount = snap.UnitCount(id)
	return v, nil
}

func viewCategory(tree *category.Tree, c category.Category) CategoryView {
	v := CategoryView{
		ID:            c.ID(),
		Name:          c.Name(),
		CascadingName: tree.CascadingName(c.ID()),
		Safe:          tree.IsSafe(c.ID()),
	}
	if p, ok := c.Parent(); ok {
		v.ParentID = &p
	}
	return v
}
