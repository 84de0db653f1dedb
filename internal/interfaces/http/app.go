package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// NewApp crea la app fiber de la API. Con Immutable los valores de params y headers son
// copias: los ids de ruta se guardan en el store y los métodos como labels de métricas.
func NewApp(appName string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      appName,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
}
