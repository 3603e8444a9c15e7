package price

import (
	"context"
	"encoding/json"
	"time"

	"kpcoilprice/data"
	"kpcoilprice/storage"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Cache stores the serialized prices under a single key.
type Cache interface {
	Key() string
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, val []byte, ttl time.Duration) error
}

// Scraper produces a fresh set of prices.
type Scraper interface {
	Scrape(ctx context.Context) data.OilPrices
}

// Recorder archives successfully scraped prices.
type Recorder interface {
	RecordPrices(ctx context.Context, prices data.OilPrices) error
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordPrices(context.Context, data.OilPrices) error { return nil }

// Fetcher serves prices from the cache, scraping the page on a miss.
type Fetcher struct {
	cache    Cache
	scraper  Scraper
	recorder Recorder
	ttl      time.Duration
	key      string

	group singleflight.Group
}

func NewFetcher(cache Cache, scraper Scraper, recorder Recorder, ttl time.Duration) *Fetcher {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Fetcher{
		cache:    cache,
		scraper:  scraper,
		recorder: recorder,
		ttl:      ttl,
		key:      cache.Key(),
	}
}

// GetPrices never fails: cache errors are logged and treated as a miss, and
// scrape errors are returned in the Error field.
func (f *Fetcher) GetPrices(ctx context.Context) data.OilPrices {
	log.WithField("expiration", f.ttl).Info("price: get prices started")

	val, err := f.cache.Get(ctx)
	switch {
	case err == nil:
		var prices data.OilPrices
		if err := json.Unmarshal(val, &prices); err != nil {
			log.WithError(err).Error("price: decode cached prices error")
			break
		}
		log.WithField("json", string(val)).Info("price: prices retrieved from cache")
		return prices
	case err == storage.ErrDoesNotExists:
		log.Info("price: prices not available in cache, getting updated values")
	default:
		log.WithError(err).Error("price: get price cache error")
	}

	return f.Refresh(ctx)
}

// Refresh scrapes the page and, on full success, replaces the cached value.
// Concurrent calls share one scrape. The shared scrape is detached from the
// cancellation of any single caller; a caller whose ctx ends stops waiting
// and gets its ctx error in the Error field.
func (f *Fetcher) Refresh(ctx context.Context) data.OilPrices {
	ch := f.group.DoChan(f.key, func() (interface{}, error) {
		return f.refresh(context.WithoutCancel(ctx)), nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			log.Debug("price: joined in-flight refresh")
		}
		return res.Val.(data.OilPrices)
	case <-ctx.Done():
		log.WithError(ctx.Err()).Warning("price: refresh abandoned by caller")
		return data.OilPrices{Error: data.Some(ctx.Err().Error())}
	}
}

func (f *Fetcher) refresh(ctx context.Context) data.OilPrices {
	prices := f.scraper.Scrape(ctx)
	if prices.Error.IsPresent() || !prices.Complete() {
		return prices
	}

	b, err := json.Marshal(prices)
	if err != nil {
		log.WithError(err).Error("price: encode prices error")
		return prices
	}

	if err := f.cache.Set(ctx, b, f.ttl); err != nil {
		log.WithError(err).Error("price: create price cache error")
	} else {
		log.WithFields(log.Fields{
			"json":       string(b),
			"expiration": f.ttl,
		}).Info("price: prices stored in cache")
	}

	if err := f.recorder.RecordPrices(ctx, prices); err != nil {
		log.WithError(err).Error("price: record price history error")
	}

	return prices
}
