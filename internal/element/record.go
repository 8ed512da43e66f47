package element

import (
	"context"
	"time"
)

// Record es un elemento genérico cargado desde storage (entries, categories, users...).
// Implementa Owner y EagerLoadable.
type Record struct {
	ID          int64
	UID         string
	Type        string
	Locale      string
	Enabled     bool
	Locales     LocaleSet
	DateUpdated time.Time

	// FreshContent indica que el contenido todavía no fue guardado por primera vez.
	FreshContent bool

	EagerLoadStore
}

func (r *Record) ElementID() int64    { return r.ID }
func (r *Record) ElementType() string { return r.Type }

// SupportedLocales devuelve los locales configurados del record.
func (r *Record) SupportedLocales(context.Context) (LocaleSet, error) {
	return r.Locales, nil
}

func (r *Record) HasFreshContent(context.Context) (bool, error) {
	return r.FreshContent, nil
}

var (
	_ Owner         = (*Record)(nil)
	_ EagerLoadable = (*Record)(nil)
)
