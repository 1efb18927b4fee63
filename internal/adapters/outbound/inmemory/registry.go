package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sufield/mapgw/internal/domain"
	"github.com/sufield/mapgw/internal/ports"
)

// Registry is an in-memory ports.MapRegistry.
type Registry struct {
	mu      sync.RWMutex
	records map[string]domain.MapRecord
	now     func() time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]domain.MapRecord), now: time.Now}
}

// Put inserts or updates the record named rec.Name.
func (r *Registry) Put(_ context.Context, rec domain.MapRecord) (domain.MapRecord, error) {
	if err := domain.ValidateMapName(rec.Name); err != nil {
		return domain.MapRecord{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	if existing, ok := r.records[rec.Name]; ok {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	r.records[rec.Name] = rec
	return rec, nil
}

// Get returns the record registered under name.
func (r *Registry) Get(_ context.Context, name string) (domain.MapRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[name]
	if !ok {
		return domain.MapRecord{}, fmt.Errorf("%w: %s", domain.ErrMapNotFound, name)
	}
	return rec, nil
}

// List returns all records ordered by name.
func (r *Registry) List(context.Context) ([]domain.MapRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.MapRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes the record registered under name.
func (r *Registry) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[name]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrMapNotFound, name)
	}
	delete(r.records, name)
	return nil
}

var _ ports.MapRegistry = (*Registry)(nil)
