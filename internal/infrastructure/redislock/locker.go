// Package redislock implementa el bloqueo de ítems entre instancias con Redis (SET NX PX).
package redislock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/affluo-inventario/internal/application/inventory"
	"github.com/jhoicas/affluo-inventario/internal/domain"
	"github.com/jhoicas/affluo-inventario/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var _ inventory.ItemLocker = (*Locker)(nil)

// Borra la clave solo si sigue siendo nuestra: un lock expirado y retomado por otro no se toca.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const (
	defaultTTL        = 10 * time.Second
	defaultRetryDelay = 50 * time.Millisecond
	defaultAttempts   = 100
)

// Locker bloqueo distribuido por clave.
type Locker struct {
	client     redis.UniversalClient
	ttl        time.Duration
	retryDelay time.Duration
	attempts   int
	log        *logger.Logger
}

// Option configura el Locker.
type Option func(*Locker)

// WithRetry intentos de adquisición y espera entre ellos.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(l *Locker) {
		if attempts > 0 {
			l.attempts = attempts
		}
		if delay > 0 {
			l.retryDelay = delay
		}
	}
}

// New construye el locker. ttl acota cuánto sobrevive un lock si su dueño muere sin liberarlo.
func New(client redis.UniversalClient, ttl time.Duration, log *logger.Logger, opts ...Option) *Locker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	l := &Locker{
		client:     client,
		ttl:        ttl,
		retryDelay: defaultRetryDelay,
		attempts:   defaultAttempts,
		log:        log.Component("redis_lock"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock reintenta SET NX hasta obtener la clave, agotar los intentos o cancelarse ctx.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	var lastErr error
	for attempt := 0; attempt < l.attempts; attempt++ {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			lastErr = err
			l.log.Warn().Err(err).Str("key", key).Int("attempt", attempt+1).Msg("error de redis al tomar lock")
		}
		if ok {
			return l.releaser(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("tomar lock %s: %w", key, lastErr)
	}
	return nil, fmt.Errorf("%w: lock %s ocupado", domain.ErrConflict, key)
}

func (l *Locker) releaser(key, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, token) })
	}
}

func (l *Locker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.log.Error().Err(err).Str("key", key).Msg("no se pudo liberar lock")
	}
}
