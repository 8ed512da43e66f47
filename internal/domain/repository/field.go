package repository

import (
	"context"

	"github.com/dropDatabas3/hellocms/internal/field"
)

// FieldRepository resuelve definiciones de fields.
type FieldRepository interface {
	// ByID busca un field por id.
	ByID(ctx context.Context, id int64) (*field.Field, error)

	// ByHandle busca un field por handle dentro de un contexto explícito.
	ByHandle(ctx context.Context, handle string, fc field.Context) (*field.Field, error)

	// ByContexts devuelve todos los fields de los contextos dados, ordenados por
	// contexto (en el orden pedido) y luego por sort order.
	ByContexts(ctx context.Context, contexts []field.Context) ([]*field.Field, error)
}
