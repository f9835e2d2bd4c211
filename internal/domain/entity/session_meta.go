package entity

import (
	"strings"
	"time"
)

// SessionMeta datos de contexto elegidos por el operario para la salida.
type SessionMeta struct {
	Station     string // puesto o dispositivo al que pertenecen los datos guardados
	Responsable string
	Origen      string
	Destino     string
	Bultos      string // solo dígitos
	Remito      string // solo dígitos
	UpdatedAt   time.Time
}

// DigitsOnly elimina todo lo que no sea dígito (mismo criterio que los campos bultos y remito).
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// Sanitize normaliza los campos libres: selecciones en mayúsculas y numéricos solo con dígitos.
func (m SessionMeta) Sanitize() SessionMeta {
	m.Responsable = strings.ToUpper(strings.TrimSpace(m.Responsable))
	m.Origen = strings.ToUpper(strings.TrimSpace(m.Origen))
	m.Destino = strings.ToUpper(strings.TrimSpace(m.Destino))
	m.Bultos = DigitsOnly(m.Bultos)
	m.Remito = DigitsOnly(m.Remito)
	return m
}
