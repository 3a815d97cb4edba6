package importer

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/minigallery/internal/domain"
)

// File is the YAML collection document.
type File struct {
	Categories []CategoryItem `yaml:"categories"`
	Units      []UnitItem     `yaml:"units"`
	Kits       []KitItem      `yaml:"kits"`
	Storage    []StorageItem  `yaml:"storage"`
	Batches    []BatchItem    `yaml:"batches"`
	Tags       []TagItem      `yaml:"tags"`
}

// CategoryItem describes one category. Parent is omitted for roots.
type CategoryItem struct {
	ID     int64  `yaml:"id"`
	Name   string `yaml:"name"`
	Parent *int64 `yaml:"parent"`
}

// UnitItem describes one unit profile.
type UnitItem struct {
	ID       int64  `yaml:"id"`
	Name     string `yaml:"name"`
	Category int64  `yaml:"category"`
	Points   int    `yaml:"points"`
	Type     string `yaml:"type"` // empty: Infantry
}

// KitItem describes one purchased kit.
type KitItem struct {
	ID       int64  `yaml:"id"`
	Name     string `yaml:"name"`
	Count    int    `yaml:"count"`    // default 1
	Acquired string `yaml:"acquired"` // 2006-01-02
}

// StorageItem describes one storage container.
type StorageItem struct {
	ID        string `yaml:"id"`
	Location  string `yaml:"location"`
	Capacity  string `yaml:"capacity"`   // display name, default Empty
	LastMoved string `yaml:"last_moved"` // 2006-01-02
}

// BatchItem describes one batch of models.
type BatchItem struct {
	ID      uint32 `yaml:"id"`
	Unit    int64  `yaml:"unit"`
	Kit     int64  `yaml:"kit"`
	Storage string `yaml:"storage"`
	Count   int    `yaml:"count"` // default 1
	Stage   string `yaml:"stage"` // display name, default Unopened
	Note    string `yaml:"note"`
	Edited  string `yaml:"edited"` // RFC3339 or 2006-01-02, default now
}

// TagItem describes one tag and the batches it is attached to.
type TagItem struct {
	ID      int64    `yaml:"id"`
	Name    string   `yaml:"name"`
	Batches []uint32 `yaml:"batches"`
}

// Parse decodes a collection document. Unknown keys are rejected.
func Parse(r io.Reader) (File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("parse collection: %v: %w", err, domain.ErrInvalidInput)
	}
	return f, nil
}
