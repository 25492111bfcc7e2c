// Package store implements the project persistence façade: S3-style
// object storage behind a TTL cache, with classified retry and partial
// name lookup. Records live at
// <namespace>/projects/<projectName>/project.json, one JSON blob each.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/windscape-energy/windscape-backend/internal/projects/cache"
	"github.com/windscape-energy/windscape-backend/internal/projects/domain"
	"github.com/windscape-energy/windscape-backend/internal/projects/match"
	"github.com/windscape-energy/windscape-backend/internal/projects/retry"
	"github.com/windscape-energy/windscape-backend/internal/projects/storage"
)

const (
	defaultNamespace = "windscape"
	recordFileName   = "project.json"
)

// Notifier broadcasts cache invalidations to other replicas after a
// successful write or delete.
type Notifier interface {
	PublishInvalidation(ctx context.Context, name string) error
}

// Options tune a ProjectStore. Zero values fall back to defaults; a
// nil ListLimiter disables pacing and a nil Notifier disables
// cross-process invalidation.
type Options struct {
	Namespace   string
	RetryPolicy retry.Policy
	ListLimiter *rate.Limiter
	Notifier    Notifier
}

// ProjectStore orchestrates the object store, retry executor and
// record cache. It holds no cross-call locks: two concurrent saves for
// the same name race on read-merge-write and the last writer's merge
// wins.
type ProjectStore struct {
	backend   storage.ObjectStore
	cache     *cache.RecordCache
	policy    retry.Policy
	namespace string
	limiter   *rate.Limiter
	notifier  Notifier
}

// New creates a ProjectStore over the given backend and cache.
func New(backend storage.ObjectStore, recordCache *cache.RecordCache, opts Options) *ProjectStore {
	if opts.Namespace == "" {
		opts.Namespace = defaultNamespace
	}
	if opts.RetryPolicy.Multiplier == 0 {
		opts.RetryPolicy = retry.DefaultPolicy()
	}
	return &ProjectStore{
		backend:   backend,
		cache:     recordCache,
		policy:    opts.RetryPolicy,
		namespace: opts.Namespace,
		limiter:   opts.ListLimiter,
		notifier:  opts.Notifier,
	}
}

// Save merges the given sections into the record stored under name,
// creating the record on first write. Untouched top-level sections
// keep their previous value; sections present in the update replace
// the old section wholesale. A failed write never updates the cache.
func (s *ProjectStore) Save(ctx context.Context, name string, sections map[string]interface{}) (*domain.ProjectRecord, error) {
	existing, err := s.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("save %s: read existing record: %w", name, err)
	}

	now := time.Now().UTC()
	var rec *domain.ProjectRecord
	if existing != nil {
		rec = existing.Clone()
	} else {
		rec = &domain.ProjectRecord{
			ProjectID:   uuid.NewString(),
			ProjectName: name,
			CreatedAt:   now,
			Sections:    make(map[string]interface{}),
		}
	}
	for k, v := range sections {
		rec.Sections[k] = v
	}
	rec.UpdatedAt = now

	body, err := json.Marshal(rec)
	if err != nil {
		return nil, &domain.SerializationError{Key: s.key(name), Err: err}
	}

	err = retry.Do(ctx, "save "+name, s.policy, func(ctx context.Context) error {
		return s.backend.PutObject(ctx, s.key(name), body)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Put(name, rec)
	s.publishInvalidation(ctx, name)
	return rec, nil
}

// Load returns the record stored under name, or nil when the backend
// confirms it does not exist. A fresh cache entry short-circuits the
// backend call; any backend failure other than not-found falls back to
// a stale cache entry when one exists.
func (s *ProjectStore) Load(ctx context.Context, name string) (*domain.ProjectRecord, error) {
	if rec, ok := s.cache.Get(name); ok {
		return rec, nil
	}

	key := s.key(name)
	var body []byte
	err := retry.Do(ctx, "load "+name, s.policy, func(ctx context.Context) error {
		b, err := s.backend.GetObject(ctx, key)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		if stale, ok := s.cache.GetStale(name); ok {
			log.Printf("projects: load %s: backend failed, serving stale cache entry: %v", name, err)
			return stale, nil
		}
		return nil, err
	}

	var rec domain.ProjectRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		if stale, ok := s.cache.GetStale(name); ok {
			log.Printf("projects: load %s: malformed record body, serving stale cache entry: %v", name, err)
			return stale, nil
		}
		return nil, &domain.SerializationError{Key: key, Err: err}
	}
	if rec.Sections == nil {
		rec.Sections = make(map[string]interface{})
	}

	s.cache.Put(name, &rec)
	return &rec, nil
}

// List returns every record in the catalog. Pagination is drained
// fully before anything is returned; a partial page never reaches the
// caller. Enumeration failure falls back to a stale list snapshot when
// one exists.
func (s *ProjectStore) List(ctx context.Context) ([]domain.ProjectRecord, error) {
	if list, ok := s.cache.GetList(); ok {
		return list, nil
	}

	records, err := s.listFromBackend(ctx)
	if err != nil {
		if stale, ok := s.cache.GetStaleList(); ok {
			log.Printf("projects: list: backend failed, serving stale snapshot: %v", err)
			return stale, nil
		}
		return nil, err
	}

	s.cache.PutList(records)
	return records, nil
}

// FindByPartialName returns catalog records matching query via the
// tiered matcher. No matches is an empty slice, not an error.
func (s *ProjectStore) FindByPartialName(ctx context.Context, query string) ([]domain.ProjectRecord, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return match.Match(query, records), nil
}

// Delete removes the record under name. The cache entry and list
// snapshot are invalidated regardless of the backend outcome, so a
// deleted record can never resurface through the fallback path.
// Deleting a name that does not exist is not an error.
func (s *ProjectStore) Delete(ctx context.Context, name string) error {
	err := retry.Do(ctx, "delete "+name, s.policy, func(ctx context.Context) error {
		if err := s.backend.DeleteObject(ctx, s.key(name)); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}
		return nil
	})

	s.cache.Invalidate(name)

	if err != nil {
		return err
	}
	s.publishInvalidation(ctx, name)
	return nil
}

// ClearCache empties both cache regions.
func (s *ProjectStore) ClearCache() {
	s.cache.Clear()
}

// CacheStats reports the cache's current shape.
func (s *ProjectStore) CacheStats() cache.Stats {
	return s.cache.Stats()
}

func (s *ProjectStore) listFromBackend(ctx context.Context) ([]domain.ProjectRecord, error) {
	prefix := s.keyPrefix()

	var keys []string
	var token *string
	for {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("list projects: rate limiter: %w", err)
			}
		}

		var page *storage.ListPage
		err := retry.Do(ctx, "list projects", s.policy, func(ctx context.Context) error {
			p, err := s.backend.ListObjects(ctx, prefix, token)
			if err != nil {
				return err
			}
			page = p
			return nil
		})
		if err != nil {
			return nil, err
		}

		keys = append(keys, page.Keys...)
		if page.NextContinuationToken == nil {
			break
		}
		token = page.NextContinuationToken
	}

	records := make([]domain.ProjectRecord, 0, len(keys))
	for _, key := range keys {
		name, ok := s.nameFromKey(key)
		if !ok {
			continue
		}
		rec, err := s.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			// Deleted between enumeration and read.
			continue
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (s *ProjectStore) key(name string) string {
	return fmt.Sprintf("%s/projects/%s/%s", s.namespace, name, recordFileName)
}

func (s *ProjectStore) keyPrefix() string {
	return s.namespace + "/projects/"
}

func (s *ProjectStore) nameFromKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, s.keyPrefix())
	if !ok {
		return "", false
	}
	name, ok := strings.CutSuffix(rest, "/"+recordFileName)
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

func (s *ProjectStore) publishInvalidation(ctx context.Context, name string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishInvalidation(ctx, name); err != nil {
		log.Printf("projects: publish invalidation for %s: %v", name, err)
	}
}
