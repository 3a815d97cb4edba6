package catalog

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/minigallery/internal/domain/category"
	"github.com/kailas-cloud/minigallery/internal/domain/stage"
	"github.com/kailas-cloud/minigallery/internal/domain/unittype"
)

// BatchID identifies a batch. Batch IDs are the members of every result set.
type BatchID uint32

// UnitID identifies a unit.
type UnitID int64

// KitID identifies a kit. Zero means "no kit".
type KitID int64

// TagID identifies a tag.
type TagID int64

// Batch is one group of identical models sharing a unit, kit, stage and storage.
type Batch struct {
	ID        BatchID
	UnitID    UnitID
	KitID     KitID
	StorageID string
	Count     int
	Stage     stage.Stage
	Note      string
	EditDate  time.Time
}

// Unit is a model profile.
type Unit struct {
	ID         UnitID
	Name       string
	CategoryID category.ID
	Points     int
	Type       unittype.Type
}

// Kit is a purchased box. Several kits may share a name.
type Kit struct {
	ID       KitID
	Name     string
	Count    int
	Acquired time.Time
}

// Display returns the kit name with the box count appended when more than one.
func (k Kit) Display() string {
	if k.Count > 1 {
		return fmt.Sprintf("%s (%d)", k.Name, k.Count)
	}
	return k.Name
}

// Tag is a free-form label attached to batches.
type Tag struct {
	ID   TagID
	Name string
}

// Assignment joins a tag to a batch.
type Assignment struct {
	TagID   TagID
	BatchID BatchID
}
