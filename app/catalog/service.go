package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hryucha/protein-catalog/app/sheet"
	"github.com/hryucha/protein-catalog/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const maxRetryDelay = 30 * time.Second

// ProductSource loads the full product list, e.g. *sheet.Client.
type ProductSource interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
}

// Options tune caching and retries.
type Options struct {
	// TTL is how long a loaded snapshot is served before reloading.
	TTL time.Duration
	// Retries is the number of extra attempts after a failed fetch.
	Retries int
	// RetryDelay is the first backoff; it doubles per attempt up to 30s.
	RetryDelay time.Duration
}

// Service caches the product list loaded from a ProductSource. A reload
// replaces the snapshot wholesale.
type Service struct {
	source ProductSource
	opts   Options
	logger *zap.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	group singleflight.Group

	mu       sync.RWMutex
	products []models.Product
	loadedAt time.Time
}

func NewService(source ProductSource, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source: source,
		opts:   opts,
		logger: logger,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// Products returns the cached snapshot while it is fresh and reloads it
// otherwise. If a reload fails but an older snapshot exists, the older
// snapshot is returned and the failure only logged.
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	products, loadedAt := s.products, s.loadedAt
	s.mu.RUnlock()

	if products != nil && s.now().Sub(loadedAt) < s.opts.TTL {
		return cloneProducts(products), nil
	}

	fresh, err := s.load(ctx)
	if err != nil {
		if products != nil {
			s.logger.Warn("serving stale products after failed reload",
				zap.Error(err),
				zap.Time("loaded_at", loadedAt),
			)
			return cloneProducts(products), nil
		}
		return nil, err
	}
	return fresh, nil
}

// Refresh reloads the snapshot regardless of its age.
func (s *Service) Refresh(ctx context.Context) ([]models.Product, error) {
	return s.load(ctx)
}

// Product returns the product with the given id.
func (s *Service) Product(ctx context.Context, id string) (models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, models.ErrProductNotFound
}

// LoadedAt is the time of the last successful load, zero before the first.
func (s *Service) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func (s *Service) load(ctx context.Context) ([]models.Product, error) {
	v, err, _ := s.group.Do("products", func() (any, error) {
		products, err := s.fetchWithRetry(ctx)
		if err != nil {
			return nil, err
		}
		if products == nil {
			products = []models.Product{}
		}

		s.mu.Lock()
		s.products = products
		s.loadedAt = s.now()
		s.mu.Unlock()

		s.logger.Info("products loaded", zap.Int("count", len(products)))
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneProducts(v.([]models.Product)), nil
}

func (s *Service) fetchWithRetry(ctx context.Context) ([]models.Product, error) {
	delay := s.opts.RetryDelay
	for attempt := 0; ; attempt++ {
		products, err := s.source.FetchProducts(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, sheet.ErrFetch) || attempt >= s.opts.Retries || ctx.Err() != nil {
			return nil, err
		}

		s.logger.Warn("product fetch failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := s.sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

// cloneProducts copies a snapshot deeply so callers cannot reach the cache.
func cloneProducts(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
