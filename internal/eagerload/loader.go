// Package eagerload resuelve mapas de eager-loading genéricos: dado un lote de
// elementos fuente y un handle de field, produce los pares fuente -> destino.
package eagerload

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/element"
	"github.com/dropDatabas3/hellocms/internal/field"
	"github.com/dropDatabas3/hellocms/internal/observability/logger"
)

// Loader arma mapas de eager-loading a partir de fields relacionales.
type Loader struct {
	Fields    repository.FieldRepository
	Relations repository.RelationRepository
}

// NewLoader crea un Loader.
func NewLoader(fields repository.FieldRepository, relations repository.RelationRepository) *Loader {
	return &Loader{Fields: fields, Relations: relations}
}

// Map resuelve el handle dentro del contexto de fields fc.
//
// Devuelve ok=false (sin error) cuando el handle no corresponde a un field del
// contexto o cuando el field no es relacional. Los errores solo reflejan fallas
// de storage.
func (l *Loader) Map(ctx context.Context, sources []element.Ref, handle string, fc field.Context) (element.EagerLoadingMap, bool, error) {
	if len(sources) == 0 || handle == "" {
		return element.EagerLoadingMap{}, false, nil
	}

	f, err := l.Fields.ByHandle(ctx, handle, fc)
	if err != nil {
		if repository.IsNotFound(err) {
			return element.EagerLoadingMap{}, false, nil
		}
		return element.EagerLoadingMap{}, false, fmt.Errorf("eagerload: field %q in %s: %w", handle, fc, err)
	}
	if !f.Relational() {
		logger.From(ctx).Debug("eager-load handle is not relational",
			logger.Handle(handle), logger.FieldContext(fc.String()))
		return element.EagerLoadingMap{}, false, nil
	}

	ids := make([]int64, 0, len(sources))
	for _, s := range sources {
		ids = append(ids, s.ElementID())
	}
	pairs, err := l.Relations.Pairs(ctx, f.ID, ids)
	if err != nil {
		return element.EagerLoadingMap{}, false, fmt.Errorf("eagerload: relations for field %d: %w", f.ID, err)
	}

	return element.EagerLoadingMap{
		ElementType: f.TargetElementType(),
		Pairs:       pairs,
	}, true, nil
}
