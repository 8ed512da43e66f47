package repository

import (
	"context"

	"github.com/dropDatabas3/hellocms/internal/element"
)

// RelationRepository lee la tabla de relaciones de fields relacionales.
type RelationRepository interface {
	// Pairs devuelve las relaciones del field para las fuentes dadas,
	// ordenadas por fuente y sort order.
	Pairs(ctx context.Context, fieldID int64, sourceIDs []int64) ([]element.Pair, error)
}
