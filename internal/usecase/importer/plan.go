package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/minigallery/internal/domain"
	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
	"github.com/kailas-cloud/minigallery/internal/domain/category"
	"github.com/kailas-cloud/minigallery/internal/domain/imports"
	"github.com/kailas-cloud/minigallery/internal/domain/stage"
	"github.com/kailas-cloud/minigallery/internal/domain/unittype"
)

const dateLayout = "2006-01-02"

// plan accumulates the validated data of one import and the per-item results.
// References resolve against earlier kinds of the same file, then the stored catalog.
type plan struct {
	current *domcat.Catalog
	now     time.Time

	data    domcat.Data
	results []imports.Result

	categories map[category.ID]bool
	units      map[domcat.UnitID]bool
	kits       map[domcat.KitID]bool
	storage    map[string]bool
	batches    map[domcat.BatchID]bool
	tags       map[domcat.TagID]bool
}

func newPlan(current *domcat.Catalog, now time.Time) *plan {
	return &plan{
		current:    current,
		now:        now,
		categories: make(map[category.ID]bool),
		units:      make(map[domcat.UnitID]bool),
		kits:       make(map[domcat.KitID]bool),
		storage:    make(map[string]bool),
		batches:    make(map[domcat.BatchID]bool),
		tags:       make(map[domcat.TagID]bool),
	}
}

func (p *plan) ok(kind imports.Kind, id string) {
	p.results = append(p.results, imports.NewOK(kind, id))
}

func (p *plan) fail(kind imports.Kind, id string, err error) {
	p.results = append(p.results, imports.NewError(kind, id, err))
}

// addCategories accepts categories whose parent is known and which do not end
// up on a cycle once merged with the stored tree. Categories on a cycle are
// dropped until none is left, since dropping one can orphan another or revert
// it to a stored parent. Whatever is still unsafe afterwards hangs below a
// stored cycle and is dropped too.
func (p *plan) addCategories(items []CategoryItem) {
	results := make([]imports.Result, len(items))
	cands := make([]category.Category, len(items))
	accepted := make(map[category.ID]int, len(items))

	for i, it := range items {
		key := strconv.FormatInt(it.ID, 10)
		if it.ID <= 0 {
			results[i] = imports.NewError(imports.KindCategory, key, invalid("id must be positive"))
			continue
		}
		id := category.ID(it.ID)
		if _, dup := accepted[id]; dup {
			results[i] = imports.NewError(imports.KindCategory, key, invalid("duplicate id"))
			continue
		}
		var parent *category.ID
		if it.Parent != nil {
			pid := category.ID(*it.Parent)
			parent = &pid
		}
		c, err := category.New(id, it.Name, parent)
		if err != nil {
			results[i] = imports.NewError(imports.KindCategory, key, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput))
			continue
		}
		cands[i] = c
		accepted[id] = i
		results[i] = imports.NewOK(imports.KindCategory, key)
	}

	for {
		tree := p.mergedTree(cands, accepted)
		rejected := false
		for id, i := range accepted {
			pid, hasParent := cands[i].Parent()
			var err error
			switch {
			case hasParent && !tree.Has(pid):
				err = fmt.Errorf("parent %d: %w", pid, domain.ErrCategoryNotFound)
			case tree.OnCycle(id):
				err = domain.NewCategoryCycle(int64(id), int64(pid))
			default:
				continue
			}
			results[i] = imports.NewError(imports.KindCategory, strconv.FormatInt(int64(id), 10), err)
			delete(accepted, id)
			rejected = true
		}
		if rejected {
			continue
		}
		for id, i := range accepted {
			if tree.IsSafe(id) {
				continue
			}
			pid, _ := cands[i].Parent()
			results[i] = imports.NewError(imports.KindCategory, strconv.FormatInt(int64(id), 10),
				domain.NewCategoryCycle(int64(id), int64(pid)))
			delete(accepted, id)
		}
		break
	}

	for i, c := range cands {
		if idx, ok := accepted[c.ID()]; ok && idx == i {
			p.data.Categories = append(p.data.Categories, c)
			p.categories[c.ID()] = true
		}
	}
	p.results = append(p.results, results...)
}

func (p *plan) mergedTree(cands []category.Category, accepted map[category.ID]int) *category.Tree {
	stored := p.current.Tree().All()
	cats := make([]category.Category, 0, len(stored)+len(accepted))
	for _, c := range stored {
		if _, replaced := accepted[c.ID()]; !replaced {
			cats = append(cats, c)
		}
	}
	for _, i := range accepted {
		cats = append(cats, cands[i])
	}
	return category.NewTree(cats)
}

func (p *plan) addUnits(items []UnitItem) {
	for _, it := range items {
		key := strconv.FormatInt(it.ID, 10)
		id := domcat.UnitID(it.ID)
		name := strings.TrimSpace(it.Name)
		cat := category.ID(it.Category)

		var err error
		switch {
		case it.ID <= 0:
			err = invalid("id must be positive")
		case p.units[id]:
			err = invalid("duplicate id")
		case name == "":
			err = invalid("name is required")
		case it.Points < 0:
			err = invalid("points must not be negative")
		case !p.hasCategory(cat):
			err = fmt.Errorf("category %d: %w", cat, domain.ErrCategoryNotFound)
		}
		if err != nil {
			p.fail(imports.KindUnit, key, err)
			continue
		}

		typ := unittype.Default
		if strings.TrimSpace(it.Type) != "" {
			t, ok := unittype.Parse(it.Type)
			if !ok {
				p.fail(imports.KindUnit, key, invalid("unknown unit type %q", it.Type))
				continue
			}
			typ = t
		}

		p.units[id] = true
		p.data.Units = append(p.data.Units, domcat.Unit{
			ID: id, Name: name, CategoryID: cat, Points: it.Points, Type: typ,
		})
		p.ok(imports.KindUnit, key)
	}
}

func (p *plan) addKits(items []KitItem) {
	for _, it := range items {
		key := strconv.FormatInt(it.ID, 10)
		id := domcat.KitID(it.ID)
		name := strings.TrimSpace(it.Name)

		var err error
		switch {
		case it.ID <= 0:
			err = invalid("id must be positive")
		case p.kits[id]:
			err = invalid("duplicate id")
		case name == "":
			err = invalid("name is required")
		case it.Count < 0:
			err = invalid("count must not be negative")
		}
		if err != nil {
			p.fail(imports.KindKit, key, err)
			continue
		}
		acquired, err := parseDate(it.Acquired)
		if err != nil {
			p.fail(imports.KindKit, key, err)
			continue
		}

		count := it.Count
		if count == 0 {
			count = 1
		}
		p.kits[id] = true
		p.data.Kits = append(p.data.Kits, domcat.Kit{ID: id, Name: name, Count: count, Acquired: acquired})
		p.ok(imports.KindKit, key)
	}
}

func (p *plan) addStorage(items []StorageItem) {
	for _, it := range items {
		id := strings.TrimSpace(it.ID)

		var err error
		switch {
		case id == "":
			err = invalid("id is required")
		case p.storage[id]:
			err = invalid("duplicate id")
		}
		if err != nil {
			p.fail(imports.KindStorage, id, err)
			continue
		}

		capacity := domcat.CapacityEmpty
		if strings.TrimSpace(it.Capacity) != "" {
			c, ok := domcat.ParseCapacity(it.Capacity)
			if !ok {
				p.fail(imports.KindStorage, id, invalid("unknown capacity %q", it.Capacity))
				continue
			}
			capacity = c
		}
		moved, err := parseDate(it.LastMoved)
		if err != nil {
			p.fail(imports.KindStorage, id, err)
			continue
		}

		p.storage[id] = true
		p.data.Storage = append(p.data.Storage, domcat.Storage{
			ID: id, Location: strings.TrimSpace(it.Location), LastMoved: moved, Capacity: capacity,
		})
		p.ok(imports.KindStorage, id)
	}
}

func (p *plan) addBatches(items []BatchItem) {
	for _, it := range items {
		key := strconv.FormatUint(uint64(it.ID), 10)
		id := domcat.BatchID(it.ID)
		unit := domcat.UnitID(it.Unit)
		kit := domcat.KitID(it.Kit)
		storageID := strings.TrimSpace(it.Storage)

		var err error
		switch {
		case it.ID == 0:
			err = invalid("id must be positive")
		case p.batches[id]:
			err = invalid("duplicate id")
		case it.Count < 0:
			err = invalid("count must not be negative")
		case !p.hasUnit(unit):
			err = fmt.Errorf("unit %d: %w", unit, domain.ErrNotFound)
		case kit != 0 && !p.hasKit(kit):
			err = fmt.Errorf("kit %d: %w", kit, domain.ErrNotFound)
		case storageID != "" && !p.hasStorage(storageID):
			err = fmt.Errorf("storage %q: %w", storageID, domain.ErrStorageNotFound)
		}
		if err != nil {
			p.fail(imports.KindBatch, key, err)
			continue
		}

		st := stage.Unopened
		if strings.TrimSpace(it.Stage) != "" {
			s, ok := stage.Parse(it.Stage)
			if !ok {
				p.fail(imports.KindBatch, key, invalid("unknown stage %q", it.Stage))
				continue
			}
			st = s
		}
		edited, err := p.parseEdited(it.Edited)
		if err != nil {
			p.fail(imports.KindBatch, key, err)
			continue
		}

		count := it.Count
		if count == 0 {
			count = 1
		}
		p.batches[id] = true
		p.data.Batches = append(p.data.Batches, domcat.Batch{
			ID: id, UnitID: unit, KitID: kit, StorageID: storageID,
			Count: count, Stage: st, Note: strings.TrimSpace(it.Note), EditDate: edited,
		})
		p.ok(imports.KindBatch, key)
	}
}

// addTags records one result per tag and one per tag-batch assignment.
// Repeated batch IDs within a tag are collapsed.
func (p *plan) addTags(items []TagItem) {
	for _, it := range items {
		key := strconv.FormatInt(it.ID, 10)
		id := domcat.TagID(it.ID)
		name := strings.TrimSpace(it.Name)

		var err error
		switch {
		case it.ID <= 0:
			err = invalid("id must be positive")
		case p.tags[id]:
			err = invalid("duplicate id")
		case name == "":
			err = invalid("name is required")
		}
		if err != nil {
			p.fail(imports.KindTag, key, err)
			continue
		}
		p.tags[id] = true
		p.data.Tags = append(p.data.Tags, domcat.Tag{ID: id, Name: name})
		p.ok(imports.KindTag, key)

		seen := make(map[domcat.BatchID]bool, len(it.Batches))
		for _, raw := range it.Batches {
			bid := domcat.BatchID(raw)
			if seen[bid] {
				continue
			}
			seen[bid] = true
			akey := key + ":" + strconv.FormatUint(uint64(raw), 10)
			if !p.hasBatch(bid) {
				p.fail(imports.KindAssignment, akey, fmt.Errorf("batch %d: %w", bid, domain.ErrBatchNotFound))
				continue
			}
			p.data.Assignments = append(p.data.Assignments, domcat.Assignment{TagID: id, BatchID: bid})
			p.ok(imports.KindAssignment, akey)
		}
	}
}

func (p *plan) hasCategory(id category.ID) bool {
	return p.categories[id] || p.current.Tree().Has(id)
}

func (p *plan) hasUnit(id domcat.UnitID) bool {
	if p.units[id] {
		return true
	}
	_, ok := p.current.Unit(id)
	return ok
}

func (p *plan) hasKit(id domcat.KitID) bool {
	if p.kits[id] {
		return true
	}
	_, ok := p.current.Kit(id)
	return ok
}

func (p *plan) hasStorage(id string) bool {
	if p.storage[id] {
		return true
	}
	_, ok := p.current.Storage(id)
	return ok
}

func (p *plan) hasBatch(id domcat.BatchID) bool {
	if p.batches[id] {
		return true
	}
	_, ok := p.current.Batch(id)
	return ok
}

// parseEdited accepts RFC3339 or a bare date. Empty means now.
func (p *plan) parseEdited(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return p.now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, invalid("edited %q is neither RFC3339 nor %s", s, dateLayout)
	}
	return t, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, invalid("date %q must be %s", s, dateLayout)
	}
	return t, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, domain.ErrInvalidInput)...)
}
