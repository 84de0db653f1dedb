package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var _ Limiter = (*Local)(nil)

// Local token bucket por clave en memoria del proceso. Se usa cuando no hay Redis configurado.
// El bucket de cada clave se dimensiona con el primer (limit, window) recibido.
type Local struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	ttl     time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewLocal crea el limitador y arranca la limpieza de claves inactivas.
func NewLocal() *Local {
	return newLocal(time.Now)
}

func newLocal(now func() time.Time) *Local {
	l := &Local{
		buckets: make(map[string]*bucket),
		ttl:     10 * time.Minute,
		now:     now,
		stop:    make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

func (l *Local) Allow(_ context.Context, key string, limit int, window time.Duration) Decision {
	if limit <= 0 {
		return Decision{Allowed: true}
	}
	if window <= 0 {
		window = time.Minute
	}
	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		every := rate.Every(window / time.Duration(limit))
		b = &bucket{lim: rate.NewLimiter(every, limit)}
		l.buckets[key] = b
	}
	b.seen = now
	allowed := b.lim.AllowN(now, 1)
	tokens := int(b.lim.TokensAt(now))
	l.mu.Unlock()

	if tokens < 0 {
		tokens = 0
	}
	d := Decision{Allowed: allowed, Count: limit - tokens, Remaining: tokens}
	if !allowed {
		d.ResetAt = now.Add(window / time.Duration(limit))
	}
	return d
}

func (l *Local) sweepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup(l.now())
		case <-l.stop:
			return
		}
	}
}

func (l *Local) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, b := range l.buckets {
		if now.Sub(b.seen) > l.ttl {
			delete(l.buckets, k)
		}
	}
}

func (l *Local) Close() error {
	l.once.Do(func() { close(l.stop) })
	return nil
}
