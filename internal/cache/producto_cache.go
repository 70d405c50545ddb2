// Package cache keeps a read-through copy of product responses in Redis.
// Concurrent misses for the same product collapse into one database load.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"interfaz/internal/dto"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const prefijo = "producto:"

type ProductoCache struct {
	rdb   *redis.Client
	ttl   time.Duration
	grupo singleflight.Group

	// gen counts invalidations per key. A load only writes back when no
	// invalidation happened since it started; mu orders that check and the
	// SET against Invalidar.
	mu  sync.Mutex
	gen map[string]uint64
}

// NewProductoCache works without Redis (rdb == nil): every read then goes to
// the loader, still deduplicated by singleflight.
func NewProductoCache(rdb *redis.Client, ttl time.Duration) *ProductoCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProductoCache{rdb: rdb, ttl: ttl, gen: make(map[string]uint64)}
}

func clave(id uuid.UUID) string { return prefijo + id.String() }

// Obtener returns the cached product or calls cargar and caches its result.
// Redis failures are logged and degrade to a direct load.
func (c *ProductoCache) Obtener(ctx context.Context, id uuid.UUID, cargar func(context.Context) (*dto.ProductoResponse, error)) (*dto.ProductoResponse, error) {
	if c == nil {
		return cargar(ctx)
	}
	key := clave(id)

	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var p dto.ProductoResponse
			if jsonErr := json.Unmarshal(raw, &p); jsonErr == nil {
				return &p, nil
			}
		case !errors.Is(err, redis.Nil):
			log.Warn().Err(err).Str("key", key).Msg("cache: lectura fallida")
		}
	}

	v, err, _ := c.grupo.Do(key, func() (interface{}, error) {
		gen := c.generacion(key)
		p, err := cargar(ctx)
		if err != nil {
			return nil, err
		}
		c.guardar(ctx, key, gen, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.ProductoResponse), nil
}

func (c *ProductoCache) generacion(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[key]
}

// guardar writes p unless key was invalidated after the load began; that
// snapshot may predate a commit.
func (c *ProductoCache) guardar(ctx context.Context, key string, gen uint64, p *dto.ProductoResponse) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen[key] != gen {
		log.Debug().Str("key", key).Msg("cache: carga descartada por invalidacion")
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: escritura fallida")
	}
}

// Invalidar drops the cached copies of ids. Call it after commit. Loads
// already in flight for those ids are detached: later readers start a fresh
// load and the old one does not write back.
func (c *ProductoCache) Invalidar(ctx context.Context, ids ...uuid.UUID) {
	if c == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	c.mu.Lock()
	for i, id := range ids {
		keys[i] = clave(id)
		c.gen[keys[i]]++
		c.grupo.Forget(keys[i])
	}
	c.mu.Unlock()

	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache: invalidacion fallida")
	}
}
