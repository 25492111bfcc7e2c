package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/windscape-energy/windscape-backend/internal/projects/domain"
)

const defaultPageSize = 1000

// MemoryObjectStore is an in-process ObjectStore used for local
// development and tests. Pagination mirrors S3: keys come back in
// lexical order, pageSize keys per page.
type MemoryObjectStore struct {
	mu       sync.RWMutex
	objects  map[string][]byte
	pageSize int
}

// NewMemoryObjectStore creates an empty in-memory object store.
func NewMemoryObjectStore() *MemoryObjectStore {
	return &MemoryObjectStore{
		objects:  make(map[string][]byte),
		pageSize: defaultPageSize,
	}
}

// SetPageSize overrides the list page size (tests exercise pagination
// with small pages).
func (m *MemoryObjectStore) SetPageSize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageSize = n
}

func (m *MemoryObjectStore) GetObject(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	body, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", key, domain.ErrNotFound)
	}
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

func (m *MemoryObjectStore) PutObject(_ context.Context, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(body))
	copy(stored, body)
	m.objects[key] = stored
	return nil
}

func (m *MemoryObjectStore) ListObjects(_ context.Context, prefix string, continuationToken *string) (*ListPage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if continuationToken != nil {
		n, err := strconv.Atoi(*continuationToken)
		if err != nil {
			return nil, fmt.Errorf("list %s: bad continuation token %q", prefix, *continuationToken)
		}
		start = n
	}
	if start > len(keys) {
		start = len(keys)
	}

	end := start + m.pageSize
	if end > len(keys) {
		end = len(keys)
	}

	page := &ListPage{Keys: keys[start:end]}
	if end < len(keys) {
		token := strconv.Itoa(end)
		page.NextContinuationToken = &token
	}
	return page, nil
}

func (m *MemoryObjectStore) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)
	return nil
}

// Len reports the number of stored objects.
func (m *MemoryObjectStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
