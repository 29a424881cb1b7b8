package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"council/internal/proposal"
	"council/pkg/domain"
)

const (
	defaultCacheTTL  = 15 * time.Minute
	maxParallelFetch = 4
)

// Service decorates proposals with bill metadata. Lookups never block a
// caller on upstream failure: any error degrades to placeholder metadata,
// logged but not propagated. Governance data stays authoritative either way.
type Service struct {
	source BillSource
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(s *Service)

func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(source BillSource, opts ...Option) *Service {
	s := &Service{
		source: source,
		ttl:    defaultCacheTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cacheKey(ref proposal.BillRef) string {
	return fmt.Sprintf("bill:%d:%s:%d", ref.Congress, strings.ToLower(ref.Type), ref.Number)
}

// BillFor resolves metadata for one bill reference. Cache errors and source
// errors both degrade to placeholders.
func (s *Service) BillFor(ctx context.Context, ref proposal.BillRef) BillMetadata {
	key := cacheKey(ref)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "bill cache read failed", "key", key, "error", err)
		} else if ok {
			return cached
		}
	}

	metadata, err := s.source.Fetch(ctx, ref)
	if err != nil {
		s.logger.WarnContext(ctx, "bill lookup degraded to placeholders",
			"congress", ref.Congress,
			"bill_type", ref.Type,
			"bill_number", ref.Number,
			"error", err,
		)
		return Placeholder()
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, metadata, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "bill cache write failed", "key", key, "error", err)
		}
	}
	return metadata
}

// ForProposals resolves metadata for every proposal carrying a bill
// reference, fetching in parallel with a bounded group. Proposals without a
// reference are absent from the result.
func (s *Service) ForProposals(ctx context.Context, proposals []*proposal.Proposal) map[domain.ProposalID]BillMetadata {
	out := make(map[domain.ProposalID]BillMetadata)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetch)
	for _, p := range proposals {
		if p.Bill == nil {
			continue
		}
		g.Go(func() error {
			metadata := s.BillFor(gctx, *p.Bill)
			mu.Lock()
			out[p.ID] = metadata
			mu.Unlock()
			return nil
		})
	}
	// BillFor never returns an error, so Wait cannot fail.
	_ = g.Wait()
	return out
}
