package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/codec"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/itemset"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/store"
)

// cacheKeyType labels layout entries in cache hooks.
const cacheKeyType = "layout"

// Runner encapsulates layout execution with caching and history.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless apart from its backends. Multiple goroutines can
// safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store // optional
	TTL    time.Duration
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache, keyer and store.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// A nil store disables history; Options.Save is then ignored.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		TTL:    cache.DefaultTTL,
		Logger: logger,
	}
}

// Layout validates doc and opts, then returns the layout from the cache or
// the engine. opts should already include the document's own options (see
// [Options.ApplyDocument]).
func (r *Runner) Layout(ctx context.Context, doc *itemset.Document, opts Options) (*Result, error) {
	res, err := r.layout(ctx, doc, opts)
	ev := observability.LayoutEvent{Items: len(doc.Items)}
	if res != nil {
		ev.Utilization = res.Layout.Utilization
		ev.OrderFidelity = res.Layout.OrderFidelity
		ev.CacheHit = res.CacheHit
		ev.Duration = res.Stats.LayoutTime
	}
	observability.Pipeline().OnLayoutComplete(ctx, ev, err)
	return res, err
}

func (r *Runner) layout(ctx context.Context, doc *itemset.Document, opts Options) (*Result, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	if err := opts.ValidateGrid(len(doc.Items)); err != nil {
		return nil, err
	}
	observability.Pipeline().OnLayoutStart(ctx, len(doc.Items))

	start := time.Now()
	result := &Result{
		ItemsHash: HashItems(doc.Items),
		Stats:     Stats{Items: len(doc.Items)},
	}
	key := r.Keyer.LayoutKey(result.ItemsHash, opts.LayoutKeyOpts())

	if cached, ok := r.lookup(ctx, key, opts); ok {
		result.Layout = cached
		result.CacheHit = true
	} else {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Layout = masonry.Layout(doc.EngineItems(), opts.Width, opts.Height, opts.EngineOptions()...)
		r.remember(ctx, key, result.Layout)
	}
	result.Stats.LayoutTime = time.Since(start)

	opts.Logger.Debug("computed layout",
		"items", len(doc.Items),
		"columns", result.Layout.Stats.Columns,
		"rows", result.Layout.Stats.Rows,
		"cached", result.CacheHit,
		"duration", result.Stats.LayoutTime)

	if opts.Save && r.Store != nil {
		id, err := r.save(ctx, result, opts)
		if err != nil {
			return nil, fmt.Errorf("save layout: %w", err)
		}
		result.ID = id
	}
	return result, nil
}

// lookup returns a cached layout. Undecodable entries count as misses.
func (r *Runner) lookup(ctx context.Context, key string, opts Options) (masonry.Result[itemset.Ref], bool) {
	var cached masonry.Result[itemset.Ref]
	if opts.Refresh {
		return cached, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return cached, false
	}
	if err := codec.Unmarshal(data, &cached); err != nil {
		opts.Logger.Debug("discarding cache entry", "error", fmt.Errorf("%w: %v", cache.ErrCorrupt, err))
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return cached, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return cached, true
}

func (r *Runner) remember(ctx context.Context, key string, res masonry.Result[itemset.Ref]) {
	data, err := codec.Marshal(res)
	if err != nil {
		r.Logger.Warn("encode layout for cache", "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

func (r *Runner) save(ctx context.Context, result *Result, opts Options) (string, error) {
	rec := store.NewRecord(result.ItemsHash, opts.Params(), result.Layout)
	start := time.Now()
	err := r.Store.Save(ctx, rec)
	observability.Pipeline().OnStoreSave(ctx, rec.ID, time.Since(start), err)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Record returns a saved layout by ID.
func (r *Runner) Record(ctx context.Context, id string) (*store.Record, error) {
	if r.Store == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "layout history is disabled")
	}
	if !store.ValidID(id) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid layout id %q", id)
	}
	rec, err := r.Store.Get(ctx, id)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.New(errors.ErrCodeNotFound, "layout %s not found", id)
	}
	return rec, err
}

// History lists saved layouts, newest first. A non-positive limit selects
// [store.DefaultListLimit].
func (r *Runner) History(ctx context.Context, limit int) ([]store.Summary, error) {
	if r.Store == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "layout history is disabled")
	}
	return r.Store.List(ctx, limit)
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var cacheErr, storeErr error
	if r.Cache != nil {
		cacheErr = r.Cache.Close()
	}
	if r.Store != nil {
		storeErr = r.Store.Close()
	}
	if cacheErr != nil {
		return cacheErr
	}
	return storeErr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
