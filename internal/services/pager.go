package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"travelFront/internal/models"
	"travelFront/internal/search"
)

type PagerConfig struct {
	// Threshold is the backend page size.
	Threshold int
	// LegacyHasMore guesses further pages from a full page when the
	// backend does not say so explicitly.
	LegacyHasMore bool
	// CityFallback tries a train search first when the type was only
	// inferred and neither location names an exact airport or station.
	CityFallback bool
}

// ResultPager holds one search session's results list. Page 1 replaces
// the list, further pages are appended in order. Only one fetch runs at a
// time; a new search supersedes a running load-more.
type ResultPager struct {
	backend SearchBackend
	log     Logger
	cfg     PagerConfig
	now     func() time.Time

	mu         sync.Mutex
	criteria   models.SearchCriteria
	results    []models.SearchResult
	page       int
	hasMore    bool
	loading    bool
	failedPage int
	lastErr    error
	generation uint64
}

func NewResultPager(backend SearchBackend, logger Logger, cfg PagerConfig) *ResultPager {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultPageThreshold
	}
	return &ResultPager{
		backend: backend,
		log:     loggerOrNop(logger),
		cfg:     cfg,
		now:     time.Now,
		results: []models.SearchResult{},
	}
}

// Load starts a new search from page 1. Incomplete criteria are rejected
// with a *models.ValidationError before any request is made.
func (p *ResultPager) Load(ctx context.Context, c models.SearchCriteria) (models.ResultPage, error) {
	if err := search.Validate(c); err != nil {
		return p.Snapshot(), err
	}

	p.mu.Lock()
	p.criteria = c
	p.loading = true
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	return p.fetch(ctx, gen, 1)
}

// LoadMore appends the next page. It makes no request when the previous
// page said there is nothing more.
func (p *ResultPager) LoadMore(ctx context.Context) (models.ResultPage, error) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return p.Snapshot(), models.ErrFetchInFlight
	}
	if p.page == 0 || !p.hasMore {
		p.mu.Unlock()
		return p.Snapshot(), models.ErrNoMorePages
	}
	p.loading = true
	gen := p.generation
	next := p.page + 1
	p.mu.Unlock()

	return p.fetch(ctx, gen, next)
}

// Retry repeats the failed fetch: the failed later page, or the first
// page otherwise.
func (p *ResultPager) Retry(ctx context.Context) (models.ResultPage, error) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return p.Snapshot(), models.ErrFetchInFlight
	}
	if p.failedPage > 1 {
		p.loading = true
		gen := p.generation
		page := p.failedPage
		p.mu.Unlock()
		return p.fetch(ctx, gen, page)
	}
	c := p.criteria
	p.mu.Unlock()

	return p.Load(ctx, c)
}

// Criteria returns the criteria of the current search.
func (p *ResultPager) Criteria() models.SearchCriteria {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.criteria
}

// Snapshot returns a copy of the current list state.
func (p *ResultPager) Snapshot() models.ResultPage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *ResultPager) snapshotLocked() models.ResultPage {
	out := models.ResultPage{
		Criteria: p.criteria,
		Results:  append([]models.SearchResult{}, p.results...),
		Page:     p.page,
		HasMore:  p.hasMore,
		Loading:  p.loading,
	}
	if p.criteria.Type.Valid() {
		out.Location = search.Location(p.criteria)
	}
	if p.lastErr != nil {
		out.Error = p.lastErr.Error()
	}
	return out
}

func (p *ResultPager) fetch(ctx context.Context, gen uint64, page int) (models.ResultPage, error) {
	p.mu.Lock()
	c := p.criteria
	p.mu.Unlock()

	resolved, raw, err := p.fetchPage(ctx, c, page)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		return p.snapshotLocked(), models.ErrSuperseded
	}
	p.loading = false

	if err != nil {
		p.lastErr = err
		p.failedPage = page
		if page == 1 {
			p.results = []models.SearchResult{}
			p.page = 0
			p.hasMore = false
		}
		p.log.Errorf("search %s page %d: %v", c.Type, page, err)
		return p.snapshotLocked(), err
	}

	items := p.normalize(resolved.Type, raw.Items)
	if page == 1 {
		p.criteria = resolved
		p.results = items
	} else {
		p.results = append(p.results, items...)
	}
	p.page = page
	p.hasMore = raw.HasMore
	p.lastErr = nil
	p.failedPage = 0
	return p.snapshotLocked(), nil
}

// fetchPage requests one page and applies the train-first fallback for
// inferred city-only searches on page 1.
func (p *ResultPager) fetchPage(ctx context.Context, c models.SearchCriteria, page int) (models.SearchCriteria, rawPage, error) {
	if page == 1 && p.cityFallback(c) {
		train := c
		train.Type = models.SearchTrain
		raw, err := p.request(ctx, train, page)
		if err == nil && len(raw.Items) > 0 {
			return train, raw, nil
		}
		if err != nil {
			p.log.Infof("search: train lookup for %q -> %q failed, trying air: %v", c.From, c.To, err)
		}
	}
	raw, err := p.request(ctx, c, page)
	return c, raw, err
}

func (p *ResultPager) cityFallback(c models.SearchCriteria) bool {
	return p.cfg.CityFallback &&
		c.TypeInferred &&
		c.Type == models.SearchAir &&
		c.Nights == 0 &&
		!search.HasLocationCode(c.From) &&
		!search.HasLocationCode(c.To)
}

func (p *ResultPager) request(ctx context.Context, c models.SearchCriteria, page int) (rawPage, error) {
	body, err := p.backend.Search(ctx, c.Type, search.BackendQuery(c, page))
	if err != nil {
		return rawPage{}, err
	}
	raw, err := decodePage(body, p.cfg.Threshold, p.cfg.LegacyHasMore)
	if err != nil {
		return rawPage{}, fmt.Errorf("search response: %w", err)
	}
	return raw, nil
}

func (p *ResultPager) normalize(t models.SearchType, items []map[string]any) []models.SearchResult {
	today := p.now().Format("2006-01-02")
	out := make([]models.SearchResult, 0, len(items))
	for _, item := range items {
		res, err := normalizeItem(t, item, today)
		if err != nil {
			p.log.Errorf("search: skip malformed %s item: %v", t, err)
			continue
		}
		out = append(out, res)
	}
	return out
}

// IsValidation reports whether err blocked a search before it was sent.
func IsValidation(err error) bool {
	var verr *models.ValidationError
	return errors.As(err, &verr)
}
