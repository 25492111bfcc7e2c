package service

import (
	"context"

	"github.com/windscape-energy/windscape-backend/internal/projects/cache"
	"github.com/windscape-energy/windscape-backend/internal/projects/domain"
	"github.com/windscape-energy/windscape-backend/internal/projects/store"
)

// ProjectService handles project-related business logic
type ProjectService struct {
	store *store.ProjectStore
}

// NewProjectService creates a new project service
func NewProjectService(st *store.ProjectStore) *ProjectService {
	return &ProjectService{
		store: st,
	}
}

// Save merges the given sections into the named project record
func (s *ProjectService) Save(ctx context.Context, name string, sections map[string]interface{}) (*domain.ProjectRecord, error) {
	return s.store.Save(ctx, name, sections)
}

// Load returns the named record, or nil if it does not exist
func (s *ProjectService) Load(ctx context.Context, name string) (*domain.ProjectRecord, error) {
	return s.store.Load(ctx, name)
}

// List returns every project record
func (s *ProjectService) List(ctx context.Context) ([]domain.ProjectRecord, error) {
	return s.store.List(ctx)
}

// FindByPartialName returns records whose name matches query
func (s *ProjectService) FindByPartialName(ctx context.Context, query string) ([]domain.ProjectRecord, error) {
	return s.store.FindByPartialName(ctx, query)
}

// Delete removes the named record
func (s *ProjectService) Delete(ctx context.Context, name string) error {
	return s.store.Delete(ctx, name)
}

// ClearCache empties the record cache
func (s *ProjectService) ClearCache() {
	s.store.ClearCache()
}

// CacheStats reports the record cache's shape
func (s *ProjectService) CacheStats() cache.Stats {
	return s.store.CacheStats()
}
