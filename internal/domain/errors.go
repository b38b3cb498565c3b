package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidQuantity        = errors.New("cantidad inválida")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrInvalidRequest         = errors.New("solicitud inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")

	// ErrVersionConflict indica que otra transacción modificó la fila entre la lectura y la escritura.
	// Stock Operations reintenta la transacción completa; solo llega al caller si se agotan los intentos.
	ErrVersionConflict = errors.New("conflicto de versión")
)
