package content

import (
	"context"
	"sync"
	"time"

	"github.com/RMahshie/medvis/internal/repository"
	"github.com/RMahshie/medvis/pkg/models"
)

type cachedPage struct {
	content   models.PageContent
	fetchedAt time.Time
}

// CachedRepository keeps decoded pages for a fixed TTL so remote backends
// are not hit on every page view. Errors are not cached.
type CachedRepository struct {
	next  repository.ContentRepository
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	pages map[string]cachedPage
}

// NewCachedRepository wraps next with a TTL cache. A non-positive ttl
// disables caching.
func NewCachedRepository(next repository.ContentRepository, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		next:  next,
		ttl:   ttl,
		now:   time.Now,
		pages: make(map[string]cachedPage),
	}
}

// GetPage returns the cached page or loads it from the wrapped repository
func (c *CachedRepository) GetPage(ctx context.Context, page string) (models.PageContent, error) {
	if c.ttl <= 0 {
		return c.next.GetPage(ctx, page)
	}

	c.mu.RLock()
	cp, ok := c.pages[page]
	c.mu.RUnlock()
	if ok && c.now().Sub(cp.fetchedAt) < c.ttl {
		return cp.content, nil
	}

	content, err := c.next.GetPage(ctx, page)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.pages[page] = cachedPage{content: content, fetchedAt: c.now()}
	c.mu.Unlock()
	return content, nil
}

// Invalidate drops every cached page
func (c *CachedRepository) Invalidate() {
	c.mu.Lock()
	c.pages = make(map[string]cachedPage)
	c.mu.Unlock()
}
