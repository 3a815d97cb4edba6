package imports

import "fmt"

// ItemStatus is the processing outcome of a single imported item.
type ItemStatus string

// Item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Kind names the entity an imported item describes.
type Kind string

// Importable kinds, in the order they are processed.
const (
	KindCategory   Kind = "category"
	KindUnit       Kind = "unit"
	KindKit        Kind = "kit"
	KindStorage    Kind = "storage"
	KindBatch      Kind = "batch"
	KindTag        Kind = "tag"
	KindAssignment Kind = "assignment"
)

// Result is the outcome of processing one item of an import.
type Result struct {
	kind   Kind
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a successful item result.
func NewOK(kind Kind, id string) Result { return Result{kind: kind, id: id, status: StatusOK} }

// NewError creates a failed item result.
func NewError(kind Kind, id string, err error) Result {
	return Result{kind: kind, id: id, status: StatusError, err: err}
}

// Kind returns the entity kind.
func (r Result) Kind() Kind { return r.kind }

// ID returns the item identifier within its kind.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

func (r Result) String() string {
	if r.err != nil {
		return fmt.Sprintf("%s %s: %s: %v", r.kind, r.id, r.status, r.err)
	}
	return fmt.Sprintf("%s %s: %s", r.kind, r.id, r.status)
}
