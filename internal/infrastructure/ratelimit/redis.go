package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Coins-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var _ Limiter = (*Redis)(nil)

// Redis contador de ventana fija compartido entre réplicas (INCR + EXPIRE). Si Redis falla
// la petición se admite: el límite nunca bloquea la API.
type Redis struct {
	client  redis.Cmdable
	closer  func() error
	log     *logger.Logger
	prefix  string
	timeout time.Duration
}

// RedisConfig conexión al servidor Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis conecta y verifica con PING.
func NewRedis(ctx context.Context, cfg RedisConfig, log *logger.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	r := NewRedisWithClient(client, log)
	r.closer = client.Close
	return r, nil
}

// NewRedisWithClient usa un cliente ya construido (tests con redismock).
func NewRedisWithClient(client redis.Cmdable, log *logger.Logger) *Redis {
	return &Redis{
		client:  client,
		log:     logger.OrNop(log).Named("ratelimit"),
		prefix:  "coins:ratelimit:",
		timeout: 250 * time.Millisecond,
	}
}

func (r *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) Decision {
	if limit <= 0 {
		return Decision{Allowed: true}
	}
	if window <= 0 {
		window = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	redisKey := r.prefix + key
	counter, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		r.log.Error().Err(err).Str("op", "incr").Msg("rate limiter redis")
		return Decision{Allowed: true, Remaining: limit}
	}
	if counter == 1 {
		if err := r.client.Expire(ctx, redisKey, window).Err(); err != nil {
			r.log.Error().Err(err).Str("op", "expire").Msg("rate limiter redis")
		}
	}
	ttl, err := r.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	count := int(counter)
	return Decision{
		Allowed:   count <= limit,
		Count:     count,
		Remaining: remaining(limit, count),
		ResetAt:   time.Now().Add(ttl),
	}
}

func (r *Redis) Close() error {
	if r.closer != nil {
		return r.closer()
	}
	return nil
}
