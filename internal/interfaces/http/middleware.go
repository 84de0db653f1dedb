package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/Coins-api/internal/application/dto"
	"github.com/jhoicas/Coins-api/internal/infrastructure/ratelimit"
	"github.com/jhoicas/Coins-api/pkg/logger"
)

// RequestRecorder recibe cada petición atendida. metrics.Metrics lo implementa.
type RequestRecorder interface {
	RecordRequest(method, route string, status int, d time.Duration)
}

// RateLimitRecorder cuenta las peticiones rechazadas por el limitador.
type RateLimitRecorder interface {
	RecordRateLimitHit(route string)
}

// AccessLog registra método, ruta, status y latencia. recorder puede ser nil.
func AccessLog(log *logger.Logger, recorder RequestRecorder) fiber.Handler {
	log = logger.OrNop(log).Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		// prometheus conserva los labels; no pueden apuntar al buffer de la petición.
		method, route := utils.CopyString(c.Method()), utils.CopyString(c.Route().Path)
		if recorder != nil {
			recorder.RecordRequest(method, route, status, elapsed)
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", method).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("request")
		return err
	}
}

// RateLimit limita las peticiones por llamante (UserID si ya pasó por AuthMiddleware, IP si no).
// perMinute 0 desactiva el límite.
func RateLimit(limiter ratelimit.Limiter, perMinute int, recorder RateLimitRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil || perMinute <= 0 {
			return c.Next()
		}
		key := GetUserID(c)
		if key == "" {
			key = "ip:" + c.IP()
		}
		d := limiter.Allow(c.UserContext(), key, perMinute, time.Minute)
		c.Set("X-RateLimit-Limit", strconv.Itoa(perMinute))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.ResetAt.IsZero() {
			c.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
		}
		if !d.Allowed {
			if recorder != nil {
				recorder.RecordRateLimitHit(utils.CopyString(c.Route().Path))
			}
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones, intente más tarde"})
		}
		return c.Next()
	}
}
