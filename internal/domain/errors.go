package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Errores internos del árbol de categorías: nunca deberían ocurrir si las
	// mutaciones pasaron por CategoryUseCase. Se reportan como 500.
	ErrTreeCorrupted = errors.New("árbol de categorías corrupto: ciclo detectado")
	ErrTreeTooLarge  = errors.New("árbol de categorías excede el máximo de nodos")
)
