package service

import "errors"

// Validation failures of the topic/style dispatch.
var (
	ErrUnknownTopic = errors.New("el tema no pertenece al catálogo")
	ErrUnknownStyle = errors.New("estilo de aprendizaje desconocido")
)
