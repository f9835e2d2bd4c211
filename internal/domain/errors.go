package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrEmptyScan        = errors.New("lectura vacía")
	ErrNoScans          = errors.New("no hay escaneos para guardar")
	ErrNoUploadTarget   = errors.New("no hay destino de subida configurado para el origen")
	ErrUploadFailed     = errors.New("error al guardar el archivo en el servidor remoto")
	ErrNoReferenceFiles = errors.New("no hay archivos de equivalencia configurados")
	ErrFileTooLarge     = errors.New("archivo demasiado grande")
)
