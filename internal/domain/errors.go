package domain

import "errors"

// Taxonomía de errores del core. Los adapters y servicios los envuelven con
// contexto (%w) para que los callers puedan decidir con errors.Is.
var (
	// ErrVenueUnavailable indica fallo de transporte o HTTP del venue.
	// Un set vacío tras este error NO significa "cero instrumentos".
	ErrVenueUnavailable = errors.New("venue unavailable")

	// ErrNotFound es ausencia válida de datos (par deslistado o sin liquidez).
	// No es un fallo: debe distinguirse de ErrVenueUnavailable.
	ErrNotFound = errors.New("not found")

	// ErrNoQuotes indica que ningún venue devolvió precio para un símbolo.
	// Es un resultado de primera clase de la agregación, no una excepción.
	ErrNoQuotes = errors.New("no quotes for symbol")

	// ErrNoValidEntry bloquea el cálculo de estrategia cuando no hay
	// precio de entrada válido. Nunca se emiten targets en cero.
	ErrNoValidEntry = errors.New("no valid entry price")
)
