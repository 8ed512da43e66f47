// Package validation agrupa las reglas de validación de atributos de elementos.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Errors acumula mensajes de validación por atributo.
// El orden de atributos en Error() es estable (alfabético).
type Errors struct {
	fields map[string][]string
}

// Add registra un mensaje para el atributo.
func (e *Errors) Add(attr, msg string) {
	if e.fields == nil {
		e.fields = make(map[string][]string)
	}
	e.fields[attr] = append(e.fields[attr], msg)
}

// Has indica si el atributo tiene errores.
func (e *Errors) Has(attr string) bool {
	return e != nil && len(e.fields[attr]) > 0
}

// Fields devuelve una copia del mapa atributo -> mensajes.
func (e *Errors) Fields() map[string][]string {
	out := make(map[string][]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Empty es true si no se registró ningún error.
func (e *Errors) Empty() bool {
	return e == nil || len(e.fields) == 0
}

// Err devuelve nil si no hay errores, o el propio *Errors.
func (e *Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Int32Range valida que v entre en un entero de 32 bits con signo.
func Int32Range(errs *Errors, attr string, v int64) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		errs.Add(attr, fmt.Sprintf("%s must be between %d and %d", attr, math.MinInt32, math.MaxInt32))
	}
}

// Locale valida la sintaxis de un identificador de locale ("en", "en-US", "fr_ca").
// Un valor vacío se considera ausente y no se valida.
func Locale(errs *Errors, attr, v string) {
	if v == "" {
		return
	}
	if !ValidLocale(v) {
		errs.Add(attr, fmt.Sprintf("%q is not a valid locale", v))
	}
}

// ValidLocale reporta si v es un identificador de locale sintácticamente válido.
// Se aceptan guiones bajos como separador ("en_us").
func ValidLocale(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, " \t") {
		return false
	}
	_, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
	return err == nil
}

// Handle rules: empieza con letra, luego letras, dígitos o "_"; máximo 64 chars.
var handleRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{0,63}$`)

// ValidHandle reporta si s es un handle válido de field o block type.
func ValidHandle(s string) bool {
	return handleRe.MatchString(s)
}
