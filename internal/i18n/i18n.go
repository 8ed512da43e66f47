// Package i18n resuelve los locales configurados del sitio.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale se usa cuando no hay locales configurados.
const DefaultLocale = "en-US"

// Provider expone el locale primario y los locales del sitio.
type Provider struct {
	primary string
	site    []string
}

// New crea un Provider. El primario se agrega al frente de site si falta.
func New(primary string, site []string) (*Provider, error) {
	if strings.TrimSpace(primary) == "" {
		if len(site) > 0 {
			primary = site[0]
		} else {
			primary = DefaultLocale
		}
	}
	p, err := Normalize(primary)
	if err != nil {
		return nil, fmt.Errorf("i18n: primary locale: %w", err)
	}

	out := []string{p}
	seen := map[string]struct{}{p: {}}
	for _, s := range site {
		n, err := Normalize(s)
		if err != nil {
			return nil, fmt.Errorf("i18n: site locale %q: %w", s, err)
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return &Provider{primary: p, site: out}, nil
}

// PrimarySiteLocale devuelve el locale primario del sitio.
func (p *Provider) PrimarySiteLocale() string { return p.primary }

// SiteLocales devuelve todos los locales del sitio, el primario primero.
func (p *Provider) SiteLocales() []string {
	return append([]string(nil), p.site...)
}

// Normalize canonicaliza un id de locale: "en_us" -> "en-US".
func Normalize(id string) (string, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(id), "_", "-"))
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}
