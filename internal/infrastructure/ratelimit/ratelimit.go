// Package ratelimit limita peticiones por clave (ID de usuario o IP) en ventanas de tiempo.
package ratelimit

import (
	"context"
	"time"
)

// Decision resultado de Allow.
type Decision struct {
	Allowed   bool
	Count     int       // peticiones consumidas en la ventana
	Remaining int       // peticiones restantes (>= 0)
	ResetAt   time.Time // fin de la ventana; cero si se desconoce
}

// Limiter política de admisión por clave. limit <= 0 desactiva el límite.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) Decision
	Close() error
}

func remaining(limit, count int) int {
	if r := limit - count; r > 0 {
		return r
	}
	return 0
}
