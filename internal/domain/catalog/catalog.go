// Package catalog holds the immutable in-memory snapshot of a miniature
// collection and the indexes that answer search lookups.
package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/kailas-cloud/minigallery/internal/domain/category"
	"github.com/kailas-cloud/minigallery/internal/domain/fold"
	"github.com/kailas-cloud/minigallery/internal/domain/stage"
	"github.com/kailas-cloud/minigallery/internal/domain/unittype"
)

// Data is the raw content a Catalog is built from.
type Data struct {
	Categories  []category.Category
	Units       []Unit
	Kits        []Kit
	Storage     []Storage
	Batches     []Batch
	Tags        []Tag
	Assignments []Assignment
	Revision    int64
}

// Catalog is a read-only snapshot. Every bitmap it returns is a fresh copy the
// caller may modify.
type Catalog struct {
	revision int64
	tree     *category.Tree

	batches  map[BatchID]Batch
	units    map[UnitID]Unit
	kits     map[KitID]Kit
	storages map[string]Storage
	tags     map[TagID]Tag

	unitOrder    []UnitID
	kitOrder     []KitID
	tagOrder     []TagID
	storageOrder []string

	all        *roaring.Bitmap
	byCategory map[category.ID]*roaring.Bitmap
	byKit      map[KitID]*roaring.Bitmap
	byStage    map[stage.Stage]*roaring.Bitmap
	byType     map[unittype.Type]*roaring.Bitmap
	byUnit     map[UnitID]*roaring.Bitmap
	byStorage  map[string]*roaring.Bitmap
	byTag      map[TagID]*roaring.Bitmap
	batchTags  map[BatchID][]TagID

	unitsPerCategory map[category.ID]int
	displayNames     map[BatchID]string
}

// New indexes d into a Catalog. Duplicated IDs keep the last occurrence.
func New(d Data) *Catalog {
	c := &Catalog{
		revision:         d.Revision,
		tree:             category.NewTree(d.Categories),
		batches:          make(map[BatchID]Batch, len(d.Batches)),
		units:            make(map[UnitID]Unit, len(d.Units)),
		kits:             make(map[KitID]Kit, len(d.Kits)),
		storages:         make(map[string]Storage, len(d.Storage)),
		tags:             make(map[TagID]Tag, len(d.Tags)),
		all:              roaring.NewBitmap(),
		byCategory:       make(map[category.ID]*roaring.Bitmap),
		byKit:            make(map[KitID]*roaring.Bitmap),
		byStage:          make(map[stage.Stage]*roaring.Bitmap),
		byType:           make(map[unittype.Type]*roaring.Bitmap),
		byUnit:           make(map[UnitID]*roaring.Bitmap),
		byStorage:        make(map[string]*roaring.Bitmap),
		byTag:            make(map[TagID]*roaring.Bitmap),
		batchTags:        make(map[BatchID][]TagID),
		unitsPerCategory: make(map[category.ID]int),
		displayNames:     make(map[BatchID]string, len(d.Batches)),
	}

	for _, u := range d.Units {
		c.units[u.ID] = u
	}
	c.unitOrder = sortedKeys(c.units)
	for _, id := range c.unitOrder {
		c.unitsPerCategory[c.units[id].CategoryID]++
	}
	for _, k := range d.Kits {
		c.kits[k.ID] = k
	}
	c.kitOrder = sortedKeys(c.kits)
	for _, s := range d.Storage {
		c.storages[s.ID] = s
	}
	c.storageOrder = make([]string, 0, len(c.storages))
	for id := range c.storages {
		c.storageOrder = append(c.storageOrder, id)
	}
	sort.Strings(c.storageOrder)
	for _, t := range d.Tags {
		c.tags[t.ID] = t
	}
	c.tagOrder = sortedKeys(c.tags)

	for _, b := range d.Batches {
		c.batches[b.ID] = b
	}
	for id, b := range c.batches {
		c.indexBatch(id, b)
	}
	for _, a := range d.Assignments {
		if _, ok := c.batches[a.BatchID]; !ok {
			continue
		}
		if _, ok := c.tags[a.TagID]; !ok {
			continue
		}
		bm := bitmapFor(c.byTag, a.TagID)
		if bm.CheckedAdd(uint32(a.BatchID)) {
			c.batchTags[a.BatchID] = append(c.batchTags[a.BatchID], a.TagID)
		}
	}
	for id := range c.batchTags {
		tags := c.batchTags[id]
		sort.Slice(tags, func(i, j int) bool { return c.tags[tags[i]].Name < c.tags[tags[j]].Name })
	}
	c.numberBatches()
	return c
}

func (c *Catalog) indexBatch(id BatchID, b Batch) {
	v := uint32(id)
	c.all.Add(v)
	bitmapFor(c.byStage, b.Stage).Add(v)
	bitmapFor(c.byUnit, b.UnitID).Add(v)
	if b.KitID != 0 {
		bitmapFor(c.byKit, b.KitID).Add(v)
	}
	if b.StorageID != "" {
		bitmapFor(c.byStorage, b.StorageID).Add(v)
	}
	if u, ok := c.units[b.UnitID]; ok {
		bitmapFor(c.byCategory, u.CategoryID).Add(v)
		bitmapFor(c.byType, u.Type).Add(v)
	}
}

// numberBatches assigns display names. Batches of a unit with several batches
// are numbered from 1 by kit acquisition date, unknown dates first.
func (c *Catalog) numberBatches() {
	for unitID, bm := range c.byUnit {
		name := c.units[unitID].Name
		ids := toIDs(bm)
		if len(ids) == 1 {
			c.displayNames[ids[0]] = name
			continue
		}
		sort.SliceStable(ids, func(i, j int) bool {
			ai := c.kits[c.batches[ids[i]].KitID].Acquired
			aj := c.kits[c.batches[ids[j]].KitID].Acquired
			if !ai.Equal(aj) {
				return ai.Before(aj)
			}
			return ids[i] < ids[j]
		})
		for n, id := range ids {
			c.displayNames[id] = name + " " + strconv.Itoa(n+1)
		}
	}
}

// Revision returns the store revision the snapshot was loaded at.
func (c *Catalog) Revision() int64 { return c.revision }

// Tree returns the category hierarchy.
func (c *Catalog) Tree() *category.Tree { return c.tree }

// Len returns the number of batches.
func (c *Catalog) Len() int { return len(c.batches) }

// All returns every batch ID.
func (c *Catalog) All() *roaring.Bitmap { return c.all.Clone() }

// Batch returns the batch with the given ID.
func (c *Catalog) Batch(id BatchID) (Batch, bool) {
	b, ok := c.batches[id]
	return b, ok
}

// Unit returns the unit with the given ID.
func (c *Catalog) Unit(id UnitID) (Unit, bool) {
	u, ok := c.units[id]
	return u, ok
}

// Kit returns the kit with the given ID.
func (c *Catalog) Kit(id KitID) (Kit, bool) {
	k, ok := c.kits[id]
	return k, ok
}

// Storage returns the container with the given ID.
func (c *Catalog) Storage(id string) (Storage, bool) {
	s, ok := c.storages[id]
	return s, ok
}

// Storages returns every container ordered by ID.
func (c *Catalog) Storages() []Storage {
	out := make([]Storage, 0, len(c.storageOrder))
	for _, id := range c.storageOrder {
		out = append(out, c.storages[id])
	}
	return out
}

// UnitCount returns how many units sit directly in a category.
func (c *Catalog) UnitCount(id category.ID) int { return c.unitsPerCategory[id] }

// TotalPoints returns Count × unit points, or 0 when the unit is unknown.
func (c *Catalog) TotalPoints(b Batch) int {
	u, ok := c.units[b.UnitID]
	if !ok {
		return 0
	}
	return b.Count * u.Points
}

// DisplayName returns the numbered unit name of a batch.
func (c *Catalog) DisplayName(id BatchID) string {
	return c.displayNames[id]
}

// TagsOf returns the tags on a batch ordered by name.
func (c *Catalog) TagsOf(id BatchID) []Tag {
	ids := c.batchTags[id]
	out := make([]Tag, 0, len(ids))
	for _, t := range ids {
		out = append(out, c.tags[t])
	}
	return out
}

// TagByName returns the tag whose name equals name ignoring case.
func (c *Catalog) TagByName(name string) (Tag, bool) {
	for _, id := range c.tagOrder {
		if fold.Equal(c.tags[id].Name, name) {
			return c.tags[id], true
		}
	}
	return Tag{}, false
}

// TaggedBatches returns the batches assigned to a tag.
func (c *Catalog) TaggedBatches(id TagID) *roaring.Bitmap { return cloneOf(c.byTag, id) }

// BatchesInCategory returns batches whose unit sits directly in a category.
func (c *Catalog) BatchesInCategory(id category.ID) *roaring.Bitmap {
	return cloneOf(c.byCategory, id)
}

// KitsByName returns kits whose name contains fragment ignoring case, by ID.
func (c *Catalog) KitsByName(fragment string) []Kit {
	var out []Kit
	for _, id := range c.kitOrder {
		if fold.Contains(c.kits[id].Name, fragment) {
			out = append(out, c.kits[id])
		}
	}
	return out
}

// BatchesOfKit returns the batches built from a kit.
func (c *Catalog) BatchesOfKit(id KitID) *roaring.Bitmap { return cloneOf(c.byKit, id) }

// BatchesOfStage returns the batches at a build stage.
func (c *Catalog) BatchesOfStage(s stage.Stage) *roaring.Bitmap { return cloneOf(c.byStage, s) }

// BatchesOfUnitType returns the batches whose unit has the given type.
func (c *Catalog) BatchesOfUnitType(t unittype.Type) *roaring.Bitmap { return cloneOf(c.byType, t) }

// HasUnitNamed reports whether any unit name contains fragment ignoring case.
func (c *Catalog) HasUnitNamed(fragment string) bool {
	for _, id := range c.unitOrder {
		if fold.Contains(c.units[id].Name, fragment) {
			return true
		}
	}
	return false
}

// BatchesWithUnitName returns batches whose unit name contains fragment
// ignoring case.
func (c *Catalog) BatchesWithUnitName(fragment string) *roaring.Bitmap {
	out := roaring.NewBitmap()
	for _, id := range c.unitOrder {
		if fold.Contains(c.units[id].Name, fragment) {
			if bm, ok := c.byUnit[id]; ok {
				out.Or(bm)
			}
		}
	}
	return out
}

// BatchesInStorage returns a container's batches ordered by unit name, then
// display name.
func (c *Catalog) BatchesInStorage(id string) []Batch {
	bm, ok := c.byStorage[id]
	if !ok {
		return nil
	}
	out := c.batchesOf(bm)
	sort.Slice(out, func(i, j int) bool {
		ni, nj := c.units[out[i].UnitID].Name, c.units[out[j].UnitID].Name
		if ni != nj {
			return strings.ToLower(ni) < strings.ToLower(nj)
		}
		return c.displayNames[out[i].ID] < c.displayNames[out[j].ID]
	})
	return out
}

// StoredPoints sums the total points of the batches in a container.
func (c *Catalog) StoredPoints(id string) int {
	bm, ok := c.byStorage[id]
	if !ok {
		return 0
	}
	total := 0
	it := bm.Iterator()
	for it.HasNext() {
		total += c.TotalPoints(c.batches[BatchID(it.Next())])
	}
	return total
}

// Sorted resolves bm to batches ordered by edit date (newest first), then
// display name. IDs not in the catalog are skipped.
func (c *Catalog) Sorted(bm *roaring.Bitmap) []Batch {
	out := c.batchesOf(bm)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EditDate.Equal(out[j].EditDate) {
			return out[i].EditDate.After(out[j].EditDate)
		}
		di, dj := c.displayNames[out[i].ID], c.displayNames[out[j].ID]
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Totals sums batch count, model count and points over bm.
func (c *Catalog) Totals(bm *roaring.Bitmap) (batches, models, points int) {
	it := bm.Iterator()
	for it.HasNext() {
		b, ok := c.batches[BatchID(it.Next())]
		if !ok {
			continue
		}
		batches++
		models += b.Count
		points += c.TotalPoints(b)
	}
	return batches, models, points
}

func (c *Catalog) batchesOf(bm *roaring.Bitmap) []Batch {
	out := make([]Batch, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		if b, ok := c.batches[BatchID(it.Next())]; ok {
			out = append(out, b)
		}
	}
	return out
}

func bitmapFor[K comparable](m map[K]*roaring.Bitmap, k K) *roaring.Bitmap {
	bm, ok := m[k]
	if !ok {
		bm = roaring.NewBitmap()
		m[k] = bm
	}
	return bm
}

func cloneOf[K comparable](m map[K]*roaring.Bitmap, k K) *roaring.Bitmap {
	if bm, ok := m[k]; ok {
		return bm.Clone()
	}
	return roaring.NewBitmap()
}

func toIDs(bm *roaring.Bitmap) []BatchID {
	raw := bm.ToArray()
	out := make([]BatchID, len(raw))
	for i, v := range raw {
		out[i] = BatchID(v)
	}
	return out
}

func sortedKeys[K ~int64, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
