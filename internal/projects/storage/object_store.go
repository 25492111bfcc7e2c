package storage

import "context"

// ListPage is one page of a key enumeration. NextContinuationToken is
// nil on the final page.
type ListPage struct {
	Keys                  []string
	NextContinuationToken *string
}

// ObjectStore is the narrow adapter over a remote blob store. The
// production implementation is S3; tests use an in-memory store.
// Implementations normalize backend failures into the domain taxonomy:
// domain.ErrNotFound for missing keys, domain.Transient for failures
// worth retrying, everything else terminal.
type ObjectStore interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key string, body []byte) error
	ListObjects(ctx context.Context, prefix string, continuationToken *string) (*ListPage, error)
	DeleteObject(ctx context.Context, key string) error
}
