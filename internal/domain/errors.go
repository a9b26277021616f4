package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrUnknownSite        = errors.New("sitio no registrado en la red")
	ErrMalformedDose      = errors.New("dosis con formato inválido")
	ErrUnknownDrug        = errors.New("medicamento fuera del catálogo")
	ErrLookupUnavailable  = errors.New("servicio externo no disponible")
	ErrEmptySnapshot      = errors.New("la red no tiene sitios para planear")
	ErrSurplusExhausted   = errors.New("excedente insuficiente en el origen")
)
