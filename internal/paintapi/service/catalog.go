package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paint-backend/internal/paintapi/data"
	"paint-backend/pkg/pgxstorage"
	"paint-backend/pkg/threadsafe"
	"paint-backend/pkg/timeutils"
)

type CatalogRepository interface {
	GetProducts(ctx context.Context, filter data.ProductFilter) ([]data.Product, error)
	CountProducts(ctx context.Context, filter data.ProductFilter) (int, error)
	GetPopularProducts(ctx context.Context, skip, limit int) ([]data.PopularProduct, error)
	GetNewArrivals(ctx context.Context, skip, limit int) ([]data.NewArrival, error)
	GetNewsEvents(ctx context.Context, filter data.NewsEventFilter) ([]data.NewsEvent, error)
	CountNewsEvents(ctx context.Context, filter data.NewsEventFilter) (int, error)
	GetContactInfo(ctx context.Context) (data.ContactInfo, error)
}

type ProductPage struct {
	Items []data.Product
	Total int
}

type NewsEventPage struct {
	Items []data.NewsEvent
	Total int
}

type CatalogConfig struct {
	CacheTTL      time.Duration
	RetryBackoff  time.Duration
	RetryAttempts int
}

// Catalog serves the unauthenticated read endpoints. These are the only
// operations wrapped in the transient-error retry: they are pure reads, so
// re-running them cannot duplicate a side effect. Product pages are also
// held in a small TTL cache.
type Catalog struct {
	repository   CatalogRepository
	productCache *threadsafe.ExpiringMap[string, ProductPage]
	retryDelays  []time.Duration
}

func NewCatalog(repository CatalogRepository, cfg CatalogConfig) *Catalog {
	return &Catalog{
		repository:   repository,
		productCache: threadsafe.NewExpiringMap[string, ProductPage](cfg.CacheTTL),
		retryDelays:  timeutils.LinearBackoff(cfg.RetryBackoff, cfg.RetryAttempts),
	}
}

// CacheCleanup exposes the cache sweep for the process-owned cleanup loop.
func (s *Catalog) CacheCleanup() int {
	return s.productCache.Cleanup()
}

func retryRead[T any](ctx context.Context, delays []time.Duration, read func(ctx context.Context) (T, error)) (T, error) {
	return timeutils.Retry(ctx, delays, read, func(_ T, err error) bool {
		return pgxstorage.IsTransientError(err)
	})
}

func (s *Catalog) Products(ctx context.Context, filter data.ProductFilter) (ProductPage, error) {
	key := fmt.Sprintf("products:%d:%d:%s:%s", filter.Skip, filter.Limit, filter.Category, filter.Search)
	if page, ok := s.productCache.Get(key); ok {
		return page, nil
	}

	page, err := retryRead(ctx, s.retryDelays, func(ctx context.Context) (ProductPage, error) {
		items, err := s.repository.GetProducts(ctx, filter)
		if err != nil {
			return ProductPage{}, fmt.Errorf("error listing products: %w", err)
		}
		total, err := s.repository.CountProducts(ctx, filter)
		if err != nil {
			return ProductPage{}, fmt.Errorf("error counting products: %w", err)
		}
		return ProductPage{Items: items, Total: total}, nil
	})
	if err != nil {
		return ProductPage{}, err
	}

	s.productCache.Set(key, page)
	return page, nil
}

func (s *Catalog) PopularProducts(ctx context.Context, skip, limit int) ([]data.PopularProduct, error) {
	return retryRead(ctx, s.retryDelays, func(ctx context.Context) ([]data.PopularProduct, error) {
		return s.repository.GetPopularProducts(ctx, skip, limit)
	})
}

func (s *Catalog) NewArrivals(ctx context.Context, skip, limit int) ([]data.NewArrival, error) {
	return retryRead(ctx, s.retryDelays, func(ctx context.Context) ([]data.NewArrival, error) {
		return s.repository.GetNewArrivals(ctx, skip, limit)
	})
}

func (s *Catalog) NewsEvents(ctx context.Context, filter data.NewsEventFilter) (NewsEventPage, error) {
	return retryRead(ctx, s.retryDelays, func(ctx context.Context) (NewsEventPage, error) {
		items, err := s.repository.GetNewsEvents(ctx, filter)
		if err != nil {
			return NewsEventPage{}, fmt.Errorf("error listing news events: %w", err)
		}
		total, err := s.repository.CountNewsEvents(ctx, filter)
		if err != nil {
			return NewsEventPage{}, fmt.Errorf("error counting news events: %w", err)
		}
		return NewsEventPage{Items: items, Total: total}, nil
	})
}

// ContactInfo falls back to placeholder details when the singleton row was
// never provisioned, so the public site always has something to render.
func (s *Catalog) ContactInfo(ctx context.Context) (data.ContactInfo, error) {
	info, err := retryRead(ctx, s.retryDelays, func(ctx context.Context) (data.ContactInfo, error) {
		return s.repository.GetContactInfo(ctx)
	})
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return data.ContactInfo{
				ID:      1,
				Email:   "contact@paintwebsite.com",
				Phone:   "+1 (555) 123-4567",
				Address: "123 Paint Street, Colorful City, CP 12345",
			}, nil
		}
		return data.ContactInfo{}, err
	}
	return info, nil
}
