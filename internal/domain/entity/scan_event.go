package entity

import "time"

// ScanEvent representa una lectura registrada durante una sesión de pickeo.
// Matched se fija al momento de la lectura y no se reevalúa si cambia el índice.
type ScanEvent struct {
	ID      int64
	RawCode string // lectura tal cual se escaneó (sin espacios en los extremos)
	Matched bool
	At      time.Time
}
