package catalog

import (
	"fmt"
	"strconv"
	"time"

	domcat "github.com/kailas-cloud/minigallery/internal/domain/catalog"
	"github.com/kailas-cloud/minigallery/internal/domain/category"
	"github.com/kailas-cloud/minigallery/internal/domain/stage"
	"github.com/kailas-cloud/minigallery/internal/domain/unittype"
)

const dateLayout = "2006-01-02"

func categoryToHash(c category.Category) map[string]string {
	m := map[string]string{
		"id":        strconv.FormatInt(int64(c.ID()), 10),
		"name":      c.Name(),
		"parent_id": "",
	}
	if p, ok := c.Parent(); ok {
		m["parent_id"] = strconv.FormatInt(int64(p), 10)
	}
	return m
}

func categoryFromHash(m map[string]string) (category.Category, error) {
	id, err := parseInt(m, "id")
	if err != nil {
		return category.Category{}, err
	}
	var parent *category.ID
	if m["parent_id"] != "" {
		p, err := parseInt(m, "parent_id")
		if err != nil {
			return category.Category{}, err
		}
		pid := category.ID(p)
		parent = &pid
	}
	return category.Reconstruct(category.ID(id), m["name"], parent), nil
}

func unitToHash(u domcat.Unit) map[string]string {
	return map[string]string{
		"id":          strconv.FormatInt(int64(u.ID), 10),
		"name":        u.Name,
		"category_id": strconv.FormatInt(int64(u.CategoryID), 10),
		"points":      strconv.Itoa(u.Points),
		"type":        string(u.Type),
	}
}

func unitFromHash(m map[string]string) (domcat.Unit, error) {
	id, err := parseInt(m, "id")
	if err != nil {
		return domcat.Unit{}, err
	}
	cat, err := parseInt(m, "category_id")
	if err != nil {
		return domcat.Unit{}, err
	}
	points, err := parseInt(m, "points")
	if err != nil {
		return domcat.Unit{}, err
	}
	return domcat.Unit{
		ID:         domcat.UnitID(id),
		Name:       m["name"],
		CategoryID: category.ID(cat),
		Points:     int(points),
		Type:       unittype.Type(m["type"]),
	}, nil
}

func kitToHash(k domcat.Kit) map[string]string {
	return map[string]string{
		"id":       strconv.FormatInt(int64(k.ID), 10),
		"name":     k.Name,
		"count":    strconv.Itoa(k.Count),
		"acquired": formatDate(k.Acquired),
	}
}

func kitFromHash(m map[string]string) (domcat.Kit, error) {
	id, err := parseInt(m, "id")
	if err != nil {
		return domcat.Kit{}, err
	}
	count, err := parseInt(m, "count")
	if err != nil {
		return domcat.Kit{}, err
	}
	acquired, err := parseDate(m, "acquired")
	if err != nil {
		return domcat.Kit{}, err
	}
	return domcat.Kit{ID: domcat.KitID(id), Name: m["name"], Count: int(count), Acquired: acquired}, nil
}

func storageToHash(s domcat.Storage) map[string]string {
	return map[string]string{
		"id":         s.ID,
		"location":   s.Location,
		"last_moved": formatDate(s.LastMoved),
		"capacity":   strconv.Itoa(int(s.Capacity)),
	}
}

func storageFromHash(m map[string]string) (domcat.Storage, error) {
	if m["id"] == "" {
		return domcat.Storage{}, fmt.Errorf("missing id")
	}
	moved, err := parseDate(m, "last_moved")
	if err != nil {
		return domcat.Storage{}, err
	}
	capacity, err := parseInt(m, "capacity")
	if err != nil {
		return domcat.Storage{}, err
	}
	return domcat.Storage{
		ID:        m["id"],
		Location:  m["location"],
		LastMoved: moved,
		Capacity:  domcat.Capacity(capacity),
	}, nil
}

func batchToHash(b domcat.Batch) map[string]string {
	return map[string]string{
		"id":         strconv.FormatUint(uint64(b.ID), 10),
		"unit_id":    strconv.FormatInt(int64(b.UnitID), 10),
		"kit_id":     strconv.FormatInt(int64(b.KitID), 10),
		"storage_id": b.StorageID,
		"count":      strconv.Itoa(b.Count),
		"stage":      strconv.Itoa(b.Stage.Ordinal()),
		"note":       b.Note,
		"edit_date":  b.EditDate.UTC().Format(time.RFC3339),
	}
}

// batchFromHash keeps out-of-range stages as is; they never match a stage lookup.
func batchFromHash(m map[string]string) (domcat.Batch, error) {
	id, err := strconv.ParseUint(m["id"], 10, 32)
	if err != nil {
		return domcat.Batch{}, fmt.Errorf("invalid id: %w", err)
	}
	unitID, err := parseInt(m, "unit_id")
	if err != nil {
		return domcat.Batch{}, err
	}
	kitID, err := parseInt(m, "kit_id")
	if err != nil {
		return domcat.Batch{}, err
	}
	count, err := parseInt(m, "count")
	if err != nil {
		return domcat.Batch{}, err
	}
	st, err := parseInt(m, "stage")
	if err != nil {
		return domcat.Batch{}, err
	}
	var edited time.Time
	if raw := m["edit_date"]; raw != "" {
		edited, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return domcat.Batch{}, fmt.Errorf("invalid edit_date: %w", err)
		}
	}
	return domcat.Batch{
		ID:        domcat.BatchID(id),
		UnitID:    domcat.UnitID(unitID),
		KitID:     domcat.KitID(kitID),
		StorageID: m["storage_id"],
		Count:     int(count),
		Stage:     stage.Stage(st),
		Note:      m["note"],
		EditDate:  edited,
	}, nil
}

func tagToHash(t domcat.Tag) map[string]string {
	return map[string]string{
		"id":   strconv.FormatInt(int64(t.ID), 10),
		"name": t.Name,
	}
}

func tagFromHash(m map[string]string) (domcat.Tag, error) {
	id, err := parseInt(m, "id")
	if err != nil {
		return domcat.Tag{}, err
	}
	return domcat.Tag{ID: domcat.TagID(id), Name: m["name"]}, nil
}

func assignmentToHash(a domcat.Assignment) map[string]string {
	return map[string]string{
		"tag_id":   strconv.FormatInt(int64(a.TagID), 10),
		"batch_id": strconv.FormatUint(uint64(a.BatchID), 10),
	}
}

func assignmentFromHash(m map[string]string) (domcat.Assignment, error) {
	tagID, err := parseInt(m, "tag_id")
	if err != nil {
		return domcat.Assignment{}, err
	}
	batchID, err := strconv.ParseUint(m["batch_id"], 10, 32)
	if err != nil {
		return domcat.Assignment{}, fmt.Errorf("invalid batch_id: %w", err)
	}
	return domcat.Assignment{TagID: domcat.TagID(tagID), BatchID: domcat.BatchID(batchID)}, nil
}

func parseInt(m map[string]string, field string) (int64, error) {
	v, err := strconv.ParseInt(m[field], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", field, err)
	}
	return v, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(m map[string]string, field string) (time.Time, error) {
	raw := m[field]
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	return t, nil
}
