package domain

import "errors"

// Errores de dominio (sin dependencias externas). Las capas superiores los envuelven con
// fmt.Errorf("%w: detalle", ...) y los comparan con errors.Is.
var (
	// ErrUnauthenticated credencial ausente o inválida. Siempre fatal para la petición.
	ErrUnauthenticated = errors.New("no autenticado")
	// ErrForbidden el llamante está autenticado pero su rol o alcance no lo permite.
	ErrForbidden = errors.New("acceso denegado")
	// ErrInvalidInput entrada mal formada: campo requerido ausente, monto no entero, campo desconocido.
	ErrInvalidInput = errors.New("entrada inválida")
	// ErrNotFound usuario, equipo, empresa o categoría referenciada inexistente.
	ErrNotFound = errors.New("recurso no encontrado")
	// ErrConflict violación de unicidad (email duplicado, miembro ya existente...).
	ErrConflict = errors.New("conflicto con el estado actual")
)
