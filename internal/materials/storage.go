package materials

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a material with the given ID is not found.
var ErrNotFound = errors.New("material not found")

// ErrEmptyID is returned when trying to store a material without an ID.
var ErrEmptyID = errors.New("empty material ID")

// Storage is the main interface for our materials storage layer.
type Storage interface {
	Prepend(m *Material) error
	Read(id int64) (*Material, error)
	Delete(id int64) error
	GetAll() ([]*Material, error)
}

// LocalStorage keeps materials in memory, newest first.
type LocalStorage struct {
	mu    sync.RWMutex
	items []*Material
}

// NewLocalStorage instantiates a LocalStorage holding the given materials in
// order.
func NewLocalStorage(initial ...*Material) *LocalStorage {
	return &LocalStorage{
		items: append([]*Material{}, initial...),
	}
}

// Prepend stores m ahead of every existing material.
// Returns ErrEmptyID if the material has no ID.
func (l *LocalStorage) Prepend(m *Material) error {
	if m.ID == 0 {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append([]*Material{m}, l.items...)
	return nil
}

// Read retrieves a material by ID.
// Returns ErrNotFound if the material is not found.
func (l *LocalStorage) Read(id int64) (*Material, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, m := range l.items {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes a material, keeping the others in their relative order.
func (l *LocalStorage) Delete(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := make([]*Material, 0, len(l.items))
	for _, m := range l.items {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(l.items) {
		return ErrNotFound
	}
	l.items = kept
	return nil
}

// GetAll returns every material, newest first.
func (l *LocalStorage) GetAll() ([]*Material, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]*Material{}, l.items...), nil
}
