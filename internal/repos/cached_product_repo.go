package repos

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"storefront/internal/domain"
)

type ProductSource interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

// CachedProductRepo keeps found products in memory for ttl. Misses are not
// cached so a product added later becomes visible right away.
type CachedProductRepo struct {
	next  ProductSource
	store *gocache.Cache
}

func NewCachedProductRepo(next ProductSource, ttl time.Duration) *CachedProductRepo {
	return &CachedProductRepo{next: next, store: gocache.New(ttl, 2*ttl)}
}

func (r *CachedProductRepo) Get(ctx context.Context, id int64) (*domain.Product, error) {
	key := strconv.FormatInt(id, 10)
	if v, ok := r.store.Get(key); ok {
		p := v.(domain.Product)
		return &p, nil
	}
	p, err := r.next.Get(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	r.store.SetDefault(key, *p)
	return p, nil
}
