package provider

import (
	"context"
	"errors"
	"time"

	"github.com/petraflow/wellscope/pkg/cache"
	"github.com/petraflow/wellscope/pkg/logger"
	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

// CachedProvider wraps another provider with a Redis read-through cache.
// Only provider fetches are cached; engine results never are, every
// analysis recomputes from the stored series.
type CachedProvider struct {
	inner DataProvider
	cache *cache.RedisCache
	ttl   time.Duration
	log   logger.Logger
}

func NewCachedProvider(inner DataProvider, redis *cache.RedisCache, ttl time.Duration, log logger.Logger) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: redis,
		ttl:   ttl,
		log:   log,
	}
}

func (p *CachedProvider) Name() string {
	return p.inner.Name()
}

func (p *CachedProvider) ListWells(ctx context.Context) ([]models.WellSummary, error) {
	key := "provider:" + p.inner.Name() + ":wells"

	var wells []models.WellSummary
	if err := p.cache.GetJSON(ctx, key, &wells); err == nil {
		return wells, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		p.log.WithError(err).Warn("Well list cache read failed")
	}

	wells, err := p.inner.ListWells(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, wells, p.ttl); err != nil {
		p.log.WithError(err).Warn("Well list cache write failed")
	}
	return wells, nil
}

func (p *CachedProvider) GetProductionSeries(ctx context.Context, wellID string) (*models.ProductionSeries, error) {
	key := "provider:" + p.inner.Name() + ":series:" + wellID

	var series models.ProductionSeries
	if err := p.cache.GetJSON(ctx, key, &series); err == nil {
		return &series, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		p.log.WithError(err).Warn("Series cache read failed")
	}

	fetched, err := p.inner.GetProductionSeries(ctx, wellID)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, fetched, p.ttl); err != nil {
		p.log.WithError(err).Warn("Series cache write failed")
	}
	return fetched, nil
}

func (p *CachedProvider) GetWellProperties(ctx context.Context, wellID string) (*models.WellStaticProperties, error) {
	key := "provider:" + p.inner.Name() + ":props:" + wellID

	var props models.WellStaticProperties
	if err := p.cache.GetJSON(ctx, key, &props); err == nil {
		return &props, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		p.log.WithError(err).Warn("Properties cache read failed")
	}

	fetched, err := p.inner.GetWellProperties(ctx, wellID)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, fetched, p.ttl); err != nil {
		p.log.WithError(err).Warn("Properties cache write failed")
	}
	return fetched, nil
}
