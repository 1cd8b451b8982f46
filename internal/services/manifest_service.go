// internal/services/manifest_service.go
package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/solidwrite/pseo/internal/config"
	"github.com/solidwrite/pseo/internal/manifest"
	"github.com/solidwrite/pseo/internal/models"
	"github.com/solidwrite/pseo/internal/playbooks"
	"github.com/solidwrite/pseo/internal/storage"
	"github.com/solidwrite/pseo/internal/utils"
)

// Catalog is an immutable manifest together with everything derived from
// it once: the slug index, the link builder and the generation engine.
type Catalog struct {
	Fingerprint string
	Dimensions  *models.DimensionConfig
	Routes      []models.Route
	Engine      *playbooks.Engine
	BuiltAt     time.Time

	index map[string]int
	// bare generates without link sampling, for checks that only need content
	bare *playbooks.Engine

	keywordsOnce  sync.Once
	keywordOwners map[string]string
}

func newCatalog(dims *models.DimensionConfig, fingerprint string, seed int64, now time.Time) *Catalog {
	routes := manifest.Build(dims)
	links := playbooks.NewLinkBuilder(routes, playbooks.NewRand(seed))
	return &Catalog{
		Fingerprint: fingerprint,
		Dimensions:  dims,
		Routes:      routes,
		Engine:      playbooks.NewEngine(dims, links),
		BuiltAt:     now,
		index:       manifest.Index(routes),
		bare:        playbooks.NewEngine(dims, nil),
	}
}

// Find looks a route up by slug.
func (c *Catalog) Find(slug string) (models.Route, bool) {
	i, ok := c.index[slug]
	if !ok {
		return models.Route{}, false
	}
	return c.Routes[i], true
}

// KeywordOwner returns the slug that owns a primary keyword: the first
// admissible route in manifest order producing it. The index is built on
// first use with a single pass over the whole manifest.
func (c *Catalog) KeywordOwner(keyword string) (string, bool) {
	c.keywordsOnce.Do(c.buildKeywordIndex)
	slug, ok := c.keywordOwners[keyword]
	return slug, ok
}

// Check generates and validates route without sampling links and reports
// the outcome. It leaves the link builder's random sequence untouched.
func (c *Catalog) Check(route models.Route) (*models.Page, error) {
	return c.bare.GeneratePage(route)
}

func (c *Catalog) buildKeywordIndex() {
	owners := make(map[string]string, len(c.Routes))
	for _, r := range c.Routes {
		page, err := c.Check(r)
		if err != nil {
			continue
		}
		if _, taken := owners[page.SEO.PrimaryKeyword]; !taken {
			owners[page.SEO.PrimaryKeyword] = r.Slug
		}
	}
	c.keywordOwners = owners
}

// ManifestOptions configures the manifest cache.
type ManifestOptions struct {
	// DimensionsFile is re-read whenever its mtime or size changes. Empty
	// means Dimensions (or the embedded default) is used.
	DimensionsFile string
	Dimensions     *models.DimensionConfig
	LinkSeed       int64
	CacheSize      int
	CacheTTL       time.Duration
}

type catalogEntry struct {
	catalog  *Catalog
	lastUsed time.Time
}

// ManifestService caches catalogs keyed by the fingerprint of the dimension
// config they were built from. A changed config yields a new fingerprint and
// so a fresh catalog; unchanged configs reuse the cached one.
type ManifestService struct {
	opts     ManifestOptions
	defaults *models.DimensionConfig
	files    *storage.FileCacheService
	locks    *LockManager

	mu       sync.Mutex
	catalogs map[string]*catalogEntry

	now     func() time.Time
	metrics *utils.MetricsCollector
	logger  *utils.Logger
}

// NewManifestService creates the cache. Without a dimensions file or an
// explicit config the embedded default config is served.
func NewManifestService(opts ManifestOptions) (*ManifestService, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 8
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}

	defaults := opts.Dimensions
	if defaults == nil && opts.DimensionsFile == "" {
		var err error
		if defaults, err = config.DefaultDimensions(); err != nil {
			return nil, fmt.Errorf("load embedded dimensions: %w", err)
		}
	}

	return &ManifestService{
		opts:     opts,
		defaults: defaults,
		files:    storage.NewFileCacheService(4, opts.CacheTTL),
		locks:    NewLockManager(opts.CacheTTL),
		catalogs: make(map[string]*catalogEntry),
		now:      time.Now,
		metrics:  utils.GetMetricsCollector(),
		logger:   utils.GetLogger(),
	}, nil
}

// Close stops background work.
func (s *ManifestService) Close() {
	s.locks.Stop()
}

// Dimensions returns the current dimension config.
func (s *ManifestService) Dimensions() (*models.DimensionConfig, error) {
	if s.opts.DimensionsFile == "" {
		return s.defaults, nil
	}

	data, fresh, err := s.files.ReadFile(s.opts.DimensionsFile, func(raw []byte) (interface{}, error) {
		return config.ParseDimensions(raw)
	})
	if err != nil {
		return nil, err
	}
	if fresh {
		s.logger.Debug("dimensions file read", map[string]interface{}{"path": s.opts.DimensionsFile})
	}
	return data.(*models.DimensionConfig), nil
}

// Current returns the catalog for the current dimension config.
func (s *ManifestService) Current() (*Catalog, error) {
	dims, err := s.Dimensions()
	if err != nil {
		return nil, err
	}
	return s.CatalogFor(dims), nil
}

// CatalogFor returns the cached catalog for dims, building it on a miss.
func (s *ManifestService) CatalogFor(dims *models.DimensionConfig) *Catalog {
	fingerprint := dims.Fingerprint()

	if c := s.lookup(fingerprint); c != nil {
		s.metrics.IncrementCounter(utils.MetricManifestCacheHit)
		return c
	}

	var built *Catalog
	_ = s.locks.ExecuteWithLock(fingerprint, func() error {
		// another caller may have built it while we waited
		if built = s.lookup(fingerprint); built != nil {
			s.metrics.IncrementCounter(utils.MetricManifestCacheHit)
			return nil
		}

		s.metrics.IncrementCounter(utils.MetricManifestCacheMiss)
		start := s.now()
		built = newCatalog(dims, fingerprint, s.opts.LinkSeed, start)
		s.store(fingerprint, built)

		fields := map[string]interface{}{
			"fingerprint": fingerprint,
			"routes":      len(built.Routes),
			"duration_ms": s.now().Sub(start).Milliseconds(),
		}
		if dups := manifest.DuplicateSlugs(built.Routes); len(dups) > 0 {
			fields["duplicate_slugs"] = len(dups)
			s.logger.Warn("manifest contains duplicate slugs", fields)
		} else {
			s.logger.Info("manifest built", fields)
		}
		s.metrics.SetGauge(utils.MetricManifestRoutes, int64(len(built.Routes)))
		return nil
	})

	return built
}

func (s *ManifestService) lookup(fingerprint string) *Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.catalogs[fingerprint]
	if !ok {
		return nil
	}
	now := s.now()
	if now.Sub(entry.catalog.BuiltAt) > s.opts.CacheTTL {
		delete(s.catalogs, fingerprint)
		return nil
	}
	entry.lastUsed = now
	return entry.catalog
}

func (s *ManifestService) store(fingerprint string, c *Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalogs[fingerprint] = &catalogEntry{catalog: c, lastUsed: s.now()}
	if len(s.catalogs) > s.opts.CacheSize {
		s.evictLRU(len(s.catalogs) - s.opts.CacheSize)
	}
}

// evictLRU drops the n least recently used catalogs. Caller holds mu.
func (s *ManifestService) evictLRU(n int) {
	type aged struct {
		key string
		at  time.Time
	}
	entries := make([]aged, 0, len(s.catalogs))
	for k, e := range s.catalogs {
		entries = append(entries, aged{k, e.lastUsed})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].at.Before(entries[j].at) })

	for i := 0; i < n && i < len(entries); i++ {
		delete(s.catalogs, entries[i].key)
	}
}

// Invalidate drops every cached catalog and parsed dimensions file.
func (s *ManifestService) Invalidate() {
	s.mu.Lock()
	s.catalogs = make(map[string]*catalogEntry)
	s.mu.Unlock()
	s.files.ClearCache()
}

// CachedFingerprints lists the fingerprints currently cached, sorted.
func (s *ManifestService) CachedFingerprints() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.catalogs))
	for k := range s.catalogs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
