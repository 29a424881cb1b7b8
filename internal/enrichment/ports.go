package enrichment

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"council/internal/proposal"
)

// BillSource fetches bill metadata from an upstream registry. Implementations
// return an error on any upstream failure; degradation policy lives in the
// service, not the source.
type BillSource interface {
	Fetch(ctx context.Context, ref proposal.BillRef) (BillMetadata, error)
}

// Cache stores fetched metadata with a TTL. A miss is (zero, false, nil);
// errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (BillMetadata, bool, error)
	Set(ctx context.Context, key string, metadata BillMetadata, ttl time.Duration) error
}
