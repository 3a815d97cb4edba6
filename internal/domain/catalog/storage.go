package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/minigallery/internal/domain"
)

// Capacity is how full a storage container is.
type Capacity int

// Capacity levels, emptiest first.
const (
	CapacityEmpty Capacity = iota
	CapacityPartiallyFull
	CapacityHalfFull
	CapacityMostlyFull
	CapacityFull
)

var capacityNames = [...]string{"Empty", "Partially Full", "Half Full", "Mostly Full", "Full"}

// IsValid reports whether c is a known level.
func (c Capacity) IsValid() bool {
	return c >= CapacityEmpty && c <= CapacityFull
}

func (c Capacity) String() string {
	if !c.IsValid() {
		return fmt.Sprintf("Capacity(%d)", int(c))
	}
	return capacityNames[c]
}

// ParseCapacity maps a display string back to its level, ignoring case.
func ParseCapacity(s string) (Capacity, bool) {
	s = strings.TrimSpace(s)
	for i, name := range capacityNames {
		if strings.EqualFold(name, s) {
			return Capacity(i), true
		}
	}
	return 0, false
}

// Storage is a container that holds batches.
type Storage struct {
	ID        string
	Location  string
	LastMoved time.Time
	Capacity  Capacity
}

// CanIncrement reports whether the container can be marked fuller.
func (s Storage) CanIncrement() bool {
	return s.Capacity >= CapacityEmpty && s.Capacity < CapacityFull
}

// CanDecrement reports whether the container can be marked emptier.
func (s Storage) CanDecrement() bool {
	return s.Capacity > CapacityEmpty && s.Capacity <= CapacityFull
}

// IsFull reports whether the container is at the top level.
func (s Storage) IsFull() bool { return s.Capacity == CapacityFull }

// Increment returns s one level fuller. At Full it is returned unchanged.
func (s Storage) Increment() (Storage, error) {
	if !s.Capacity.IsValid() {
		return s, fmt.Errorf("storage %s: %w", s.ID, domain.ErrCapacityOutOfBounds)
	}
	if s.CanIncrement() {
		s.Capacity++
	}
	return s, nil
}

// Decrement returns s one level emptier. At Empty it is returned unchanged.
func (s Storage) Decrement() (Storage, error) {
	if !s.Capacity.IsValid() {
		return s, fmt.Errorf("storage %s: %w", s.ID, domain.ErrCapacityOutOfBounds)
	}
	if s.CanDecrement() {
		s.Capacity--
	}
	return s, nil
}

// Move relocates the container and stamps the move with the date of now.
func (s Storage) Move(location string, now time.Time) Storage {
	s.Location = strings.TrimSpace(location)
	y, m, d := now.Date()
	s.LastMoved = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return s
}
