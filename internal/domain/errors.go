package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrNotMappable el pedido no puede convertirse en documento fiscal.
	// No es fatal: el llamador registra el motivo y descarta el pedido.
	ErrNotMappable = errors.New("pedido no convertible en documento fiscal")
	// ErrAlreadyTransmitted existe una transmisión exitosa con el mismo uid.
	ErrAlreadyTransmitted = errors.New("documento ya transmitido")
)
