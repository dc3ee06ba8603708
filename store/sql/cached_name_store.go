package sqlstore

import (
	"context"
	"fmt"

	"github.com/goliatone/go-apps/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const appNameListCacheKey = "go-apps::app_names::v1::list"

// CachedAppNameStore fronts an app name store with a read-through cache for
// ListNames. Writes go straight to the base store and drop the cached list.
type CachedAppNameStore struct {
	base  core.NameStore
	cache repositorycache.CacheService
}

func NewCachedAppNameStore(base core.NameStore, cacheService repositorycache.CacheService) (*CachedAppNameStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base app name store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: app name cache service is required")
	}
	return &CachedAppNameStore{base: base, cache: cacheService}, nil
}

func (s *CachedAppNameStore) Persist(ctx context.Context, name string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached app name store is not configured")
	}
	if err := s.base.Persist(ctx, name); err != nil {
		return err
	}
	return s.cache.Delete(ctx, appNameListCacheKey)
}

func (s *CachedAppNameStore) Remove(ctx context.Context, name string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached app name store is not configured")
	}
	if err := s.base.Remove(ctx, name); err != nil {
		return err
	}
	return s.cache.Delete(ctx, appNameListCacheKey)
}

func (s *CachedAppNameStore) ListNames(ctx context.Context) ([]string, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, fmt.Errorf("sqlstore: cached app name store is not configured")
	}
	names, err := repositorycache.GetOrFetch(ctx, s.cache, appNameListCacheKey, func(ctx context.Context) ([]string, error) {
		fetched, fetchErr := s.base.ListNames(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}
		return append([]string(nil), fetched...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), names...), nil
}
