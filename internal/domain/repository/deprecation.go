package repository

import (
	"context"
	"time"
)

// DeprecationRecord es un uso registrado de una API deprecada.
type DeprecationRecord struct {
	Key         string    `json:"key"`
	Message     string    `json:"message"`
	Origin      string    `json:"origin,omitempty"`
	LastSeen    time.Time `json:"lastSeen"`
	Occurrences int64     `json:"occurrences"`
}

// DeprecationRepository persiste usos de APIs deprecadas.
type DeprecationRepository interface {
	// Upsert registra (o incrementa) el uso de la clave.
	Upsert(ctx context.Context, rec DeprecationRecord) error

	// List devuelve los usos registrados, más recientes primero.
	List(ctx context.Context, limit int) ([]DeprecationRecord, error)
}
