package repository

import (
	"context"

	"github.com/dropDatabas3/hellocms/internal/element"
)

// ElementRepository resuelve elementos genéricos (owners, destinos de relaciones).
type ElementRepository interface {
	// ByID busca un elemento por id en el locale indicado.
	// locale vacío usa el locale por defecto del elemento.
	ByID(ctx context.Context, id int64, locale string) (*element.Record, error)

	// ByIDs busca varios elementos; los inexistentes se omiten.
	ByIDs(ctx context.Context, ids []int64, locale string) ([]*element.Record, error)
}
