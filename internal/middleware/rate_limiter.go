package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"interfaz/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Limite configures one fixed-window limiter.
type Limite struct {
	Nombre  string // key prefix, e.g. "login"
	Max     int
	Ventana time.Duration
	Mensaje string
}

// LoginLimite allows 20 login attempts per minute per IP.
var LoginLimite = Limite{
	Nombre:  "login",
	Max:     20,
	Ventana: time.Minute,
	Mensaje: "Demasiados intentos de login. Intente en 1 minuto.",
}

// APILimite is the general limit for authenticated routes.
var APILimite = Limite{
	Nombre:  "api",
	Max:     300,
	Ventana: time.Minute,
	Mensaje: "Demasiadas solicitudes. Intente nuevamente en un momento.",
}

// contador counts hits of key inside the current window and returns the
// count and the time left in the window.
type contador interface {
	incrementar(ctx context.Context, key string, ventana time.Duration) (int64, time.Duration, error)
}

// RateLimiter counts per client IP. With a Redis client the counters are
// shared by every instance (INCR + PEXPIRE); with nil it falls back to an
// in-process map. A Redis failure lets the request through.
func RateLimiter(rdb *redis.Client, l Limite) gin.HandlerFunc {
	var cnt contador
	if rdb != nil {
		cnt = &contadorRedis{rdb: rdb}
	} else {
		cnt = newContadorMemoria()
	}
	return limitar(cnt, l)
}

func limitar(cnt contador, l Limite) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + l.Nombre + ":" + c.ClientIP()
		n, resta, err := cnt.incrementar(c.Request.Context(), key, l.Ventana)
		if err != nil {
			log.Warn().Err(err).Str("limiter", l.Nombre).Msg("rate limiter no disponible")
			c.Next()
			return
		}
		if n > int64(l.Max) {
			segundos := int(resta.Round(time.Second) / time.Second)
			if segundos < 1 {
				segundos = 1
			}
			c.Header("Retry-After", strconv.Itoa(segundos))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.Mensaje))
			return
		}
		c.Next()
	}
}

// ── Redis ────────────────────────────────────────────────────────────────────

type contadorRedis struct{ rdb *redis.Client }

func (r *contadorRedis) incrementar(ctx context.Context, key string, ventana time.Duration) (int64, time.Duration, error) {
	n, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if n == 1 {
		if err := r.rdb.PExpire(ctx, key, ventana).Err(); err != nil {
			return 0, 0, err
		}
		return n, ventana, nil
	}
	ttl, err := r.rdb.PTTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl < 0 {
		// Key lost its expiry; start a new window.
		_ = r.rdb.PExpire(ctx, key, ventana).Err()
		ttl = ventana
	}
	return n, ttl, nil
}

// ── Memoria ──────────────────────────────────────────────────────────────────

type ventanaIP struct {
	count int64
	fin   time.Time
}

type contadorMemoria struct {
	mu      sync.Mutex
	ventana map[string]*ventanaIP
	now     func() time.Time
	ultima  time.Time
}

func newContadorMemoria() *contadorMemoria {
	return &contadorMemoria{ventana: make(map[string]*ventanaIP), now: time.Now}
}

const purgeInterval = 5 * time.Minute

func (m *contadorMemoria) incrementar(_ context.Context, key string, ventana time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.ultima) > purgeInterval {
		m.purgar(now)
	}

	e, ok := m.ventana[key]
	if !ok || now.After(e.fin) {
		e = &ventanaIP{fin: now.Add(ventana)}
		m.ventana[key] = e
	}
	e.count++
	return e.count, e.fin.Sub(now), nil
}

// purgar drops expired windows so IPs that never return do not accumulate.
func (m *contadorMemoria) purgar(now time.Time) {
	m.ultima = now
	for k, e := range m.ventana {
		if now.After(e.fin) {
			delete(m.ventana, k)
		}
	}
}
