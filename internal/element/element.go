// Package element define el modelo de elementos de contenido como records planos
// más un conjunto chico de capacidades (localizable, con contenido, eager-loadable).
//
// No hay clase base: cada tipo de elemento implementa las interfaces que necesita
// y los servicios trabajan contra esas interfaces.
package element

import (
	"context"

	"github.com/dropDatabas3/hellocms/internal/field"
)

// Ref es la identidad mínima de un elemento.
type Ref interface {
	ElementID() int64
	ElementType() string
}

// Localizable expone el conjunto de locales para los que el contenido es válido.
type Localizable interface {
	SupportedLocales(ctx context.Context) (LocaleSet, error)
}

// ContentBearer es un elemento con contenido en fields.
type ContentBearer interface {
	FieldLayout(ctx context.Context) (*field.Layout, error)
	ContentTable(ctx context.Context) (string, error)
	FieldColumnPrefix(ctx context.Context) (string, error)
	FieldContext() field.Context
	HasFreshContent(ctx context.Context) (bool, error)
}

// EagerLoadable guarda colecciones de elementos relacionados precargadas por handle.
type EagerLoadable interface {
	HasEagerLoaded(handle string) bool
	EagerLoaded(handle string) ([]Ref, bool)
	SetEagerLoaded(handle string, elements []Ref)
}

// Owner es lo que un elemento anidado (p.ej. un bloque Matrix) necesita de su dueño.
type Owner interface {
	Ref
	Localizable
	HasFreshContent(ctx context.Context) (bool, error)
}
