package matrix

import (
	"context"

	"github.com/dropDatabas3/hellocms/internal/element"
	"github.com/dropDatabas3/hellocms/internal/field"
)

// Bound es un bloque atado a su Service. Expone las capacidades de elemento
// (contenido, locales, eager-loading) para consumidores que trabajan contra
// las interfaces de element, p.ej. un bloque que es owner de bloques anidados.
type Bound struct {
	*Block
	svc *Service
}

// Bind ata el bloque al servicio.
func (s *Service) Bind(b *Block) Bound {
	return Bound{Block: b, svc: s}
}

func (v Bound) SupportedLocales(ctx context.Context) (element.LocaleSet, error) {
	return element.LocalesFromIDs(v.svc.Locales(ctx, v.Block)...), nil
}

func (v Bound) FieldLayout(ctx context.Context) (*field.Layout, error) {
	return v.svc.FieldLayout(ctx, v.Block)
}

func (v Bound) ContentTable(ctx context.Context) (string, error) {
	return v.svc.ContentTable(ctx, v.Block)
}

func (v Bound) FieldColumnPrefix(ctx context.Context) (string, error) {
	return v.svc.FieldColumnPrefix(ctx, v.Block)
}

func (v Bound) HasFreshContent(ctx context.Context) (bool, error) {
	return v.svc.HasFreshContent(ctx, v.Block)
}

var (
	_ element.ContentBearer = Bound{}
	_ element.Owner         = Bound{}
	_ element.EagerLoadable = Bound{}
)
