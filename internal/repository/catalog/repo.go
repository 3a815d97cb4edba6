package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/minigallery/internal/db"
	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
	"github.com/kailas-cloud/minigallery/internal/domain/category"
)

// DefaultKeyPrefix namespaces every key the repository writes.
const DefaultKeyPrefix = "minigallery:"

// Entity kinds, used as the middle segment of hash keys.
const (
	kindCategory   = "category"
	kindUnit       = "unit"
	kindKit        = "kit"
	kindStorage    = "storage"
	kindBatch      = "batch"
	kindTag        = "tag"
	kindAssignment = "assignment"
)

// store is the consumer interface for the catalog (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}

// Repo persists the catalog as one hash per entity and a revision counter
// that every write bumps.
type Repo struct {
	store  store
	prefix string
}

// New creates a catalog repository. An empty prefix selects DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Revision returns the current store revision; 0 when nothing was written yet.
func (r *Repo) Revision(ctx context.Context) (int64, error) {
	raw, err := r.store.Get(ctx, r.revisionKey())
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get revision: %w", err)
	}
	rev, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse revision %q: %w", raw, err)
	}
	return rev, nil
}

// Load reads every entity and builds a snapshot stamped with the revision
// observed before reading.
func (r *Repo) Load(ctx context.Context) (*domcat.Catalog, error) {
	rev, err := r.Revision(ctx)
	if err != nil {
		return nil, err
	}
	d := domcat.Data{Revision: rev}

	if d.Categories, err = loadKind(ctx, r, kindCategory, categoryFromHash); err != nil {
		return nil, err
	}
	if d.Units, err = loadKind(ctx, r, kindUnit, unitFromHash); err != nil {
		return nil, err
	}
	if d.Kits, err = loadKind(ctx, r, kindKit, kitFromHash); err != nil {
		return nil, err
	}
	if d.Storage, err = loadKind(ctx, r, kindStorage, storageFromHash); err != nil {
		return nil, err
	}
	if d.Batches, err = loadKind(ctx, r, kindBatch, batchFromHash); err != nil {
		return nil, err
	}
	if d.Tags, err = loadKind(ctx, r, kindTag, tagFromHash); err != nil {
		return nil, err
	}
	if d.Assignments, err = loadKind(ctx, r, kindAssignment, assignmentFromHash); err != nil {
		return nil, err
	}
	return domcat.New(d), nil
}

// Write stores every entity in d in one pipelined round-trip and bumps the
// revision. It returns the new revision. d.Revision is ignored.
func (r *Repo) Write(ctx context.Context, d domcat.Data) (int64, error) {
	items := make([]db.HashSetItem, 0,
		len(d.Categories)+len(d.Units)+len(d.Kits)+len(d.Storage)+len(d.Batches)+len(d.Tags)+len(d.Assignments))

	for _, c := range d.Categories {
		items = append(items, db.HashSetItem{Key: r.key(kindCategory, strconv.FormatInt(int64(c.ID()), 10)), Fields: categoryToHash(c)})
	}
	for _, u := range d.Units {
		items = append(items, db.HashSetItem{Key: r.key(kindUnit, strconv.FormatInt(int64(u.ID), 10)), Fields: unitToHash(u)})
	}
	for _, k := range d.Kits {
		items = append(items, db.HashSetItem{Key: r.key(kindKit, strconv.FormatInt(int64(k.ID), 10)), Fields: kitToHash(k)})
	}
	for _, s := range d.Storage {
		items = append(items, db.HashSetItem{Key: r.key(kindStorage, s.ID), Fields: storageToHash(s)})
	}
	for _, b := range d.Batches {
		items = append(items, db.HashSetItem{Key: r.key(kindBatch, strconv.FormatUint(uint64(b.ID), 10)), Fields: batchToHash(b)})
	}
	for _, t := range d.Tags {
		items = append(items, db.HashSetItem{Key: r.key(kindTag, strconv.FormatInt(int64(t.ID), 10)), Fields: tagToHash(t)})
	}
	for _, a := range d.Assignments {
		id := strconv.FormatInt(int64(a.TagID), 10) + ":" + strconv.FormatUint(uint64(a.BatchID), 10)
		items = append(items, db.HashSetItem{Key: r.key(kindAssignment, id), Fields: assignmentToHash(a)})
	}

	if len(items) == 0 {
		return r.Revision(ctx)
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return 0, fmt.Errorf("write %d catalog items: %w", len(items), err)
	}
	return r.bump(ctx)
}

// SaveCategory stores a single category.
func (r *Repo) SaveCategory(ctx context.Context, c category.Category) (int64, error) {
	return r.Write(ctx, domcat.Data{Categories: []category.Category{c}})
}

// SaveBatch stores a single batch.
func (r *Repo) SaveBatch(ctx context.Context, b domcat.Batch) (int64, error) {
	return r.Write(ctx, domcat.Data{Batches: []domcat.Batch{b}})
}

// SaveStorage stores a single storage container.
func (r *Repo) SaveStorage(ctx context.Context, s domcat.Storage) (int64, error) {
	return r.Write(ctx, domcat.Data{Storage: []domcat.Storage{s}})
}

// Clear deletes every catalog entity and bumps the revision.
func (r *Repo) Clear(ctx context.Context) error {
	for _, kind := range []string{kindCategory, kindUnit, kindKit, kindStorage, kindBatch, kindTag, kindAssignment} {
		keys, err := r.store.Scan(ctx, r.key(kind, "*"))
		if err != nil {
			return fmt.Errorf("scan %s: %w", kind, err)
		}
		if err := r.store.Del(ctx, keys...); err != nil {
			return fmt.Errorf("del %s: %w", kind, err)
		}
	}
	_, err := r.bump(ctx)
	return err
}

func (r *Repo) bump(ctx context.Context) (int64, error) {
	rev, err := r.store.IncrBy(ctx, r.revisionKey(), 1)
	if err != nil {
		return 0, fmt.Errorf("bump revision: %w", err)
	}
	return rev, nil
}

func loadKind[T any](ctx context.Context, r *Repo, kind string, parse func(map[string]string) (T, error)) ([]T, error) {
	keys, err := r.store.Scan(ctx, r.key(kind, "*"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", kind, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi %s: %w", kind, err)
	}
	out := make([]T, 0, len(hashes))
	for i, m := range hashes {
		// Deleted between SCAN and HGETALL.
		if len(m) == 0 {
			continue
		}
		v, err := parse(m)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", keys[i], err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Key patterns: {prefix}{kind}:{id}, {prefix}revision

func (r *Repo) key(kind, id string) string {
	return r.prefix + kind + ":" + id
}

func (r *Repo) revisionKey() string {
	return r.prefix + "revision"
}
