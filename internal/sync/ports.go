package sync

import (
	"context"

	"github.com/hikoapp/doc-sync/internal/adapter/docapi"
	"github.com/hikoapp/doc-sync/internal/domain"
)

// Fetcher retrieves raw records from the DOC API.
type Fetcher interface {
	// FetchAll drains a paginated list endpoint.
	FetchAll(ctx context.Context, path string, opts ...docapi.Option) ([]domain.Raw, error)

	// FetchSingle retrieves one record, returning nil without error when the
	// endpoint yields nothing usable.
	FetchSingle(ctx context.Context, path string, opts ...docapi.Option) (domain.Raw, error)
}

// DocumentStore is the persistence port: named collections of JSON documents
// addressed by the entity's canonical identifier.
type DocumentStore interface {
	// Get reads a document; found is false when it does not exist.
	Get(ctx context.Context, collection, key string) (doc map[string]any, found bool, err error)

	// Merge creates the document or updates only the given top-level fields,
	// leaving unspecified fields untouched.
	Merge(ctx context.Context, collection, key string, fields map[string]any) error
}

// BlobStore is the object-storage port for side-channel binary payloads.
type BlobStore interface {
	Put(ctx context.Context, path string, payload []byte, contentType, cacheControl string) error
}
