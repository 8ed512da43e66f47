// Package field define las definiciones de fields de contenido y sus contextos.
package field

import (
	"strconv"
	"strings"
)

// Context es la clave de scoping que desambigua fields con el mismo handle
// definidos en distintos block types ("global", "matrixBlockType:12").
type Context string

// Global es el contexto de los fields definidos a nivel sitio.
const Global Context = "global"

const blockTypePrefix = "matrixBlockType:"

// ForBlockType devuelve el contexto de los fields de un block type Matrix.
func ForBlockType(blockTypeID int64) Context {
	return Context(blockTypePrefix + strconv.FormatInt(blockTypeID, 10))
}

// BlockTypeID extrae el id de block type de un contexto "matrixBlockType:<id>".
func (c Context) BlockTypeID() (int64, bool) {
	s, ok := strings.CutPrefix(string(c), blockTypePrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (c Context) String() string { return string(c) }

// Tipos de field conocidos.
const (
	TypeMatrix     = "Matrix"
	TypePlainText  = "PlainText"
	TypeRichText   = "RichText"
	TypeEntries    = "Entries"
	TypeAssets     = "Assets"
	TypeCategories = "Categories"
	TypeUsers      = "Users"
	TypeTags       = "Tags"
)

// relationalTargets mapea tipos de field relacionales al tipo de elemento destino.
var relationalTargets = map[string]string{
	TypeEntries:    "Entry",
	TypeAssets:     "Asset",
	TypeCategories: "Category",
	TypeUsers:      "User",
	TypeTags:       "Tag",
}

// Field es una definición de field.
type Field struct {
	ID           int64
	Handle       string
	Name         string
	Type         string
	Context      Context
	Translatable bool
	SortOrder    int

	// ColumnPrefix se asigna al armar queries de contenido ("field_body_").
	ColumnPrefix string
}

// Relational reporta si el field relaciona elementos (y por ende soporta eager-loading).
func (f *Field) Relational() bool {
	_, ok := relationalTargets[f.Type]
	return ok
}

// TargetElementType devuelve el tipo de elemento al que apunta un field relacional.
func (f *Field) TargetElementType() string {
	return relationalTargets[f.Type]
}

// Column devuelve el nombre de columna de contenido para el field.
func (f *Field) Column() string {
	prefix := f.ColumnPrefix
	if prefix == "" {
		prefix = "field_"
	}
	return prefix + f.Handle
}

// Layout es el conjunto ordenado de fields de un block type (o de cualquier elemento).
type Layout struct {
	ID     int64
	Fields []*Field
}

// FieldByHandle busca un field del layout por handle.
func (l *Layout) FieldByHandle(handle string) *Field {
	if l == nil {
		return nil
	}
	for _, f := range l.Fields {
		if f.Handle == handle {
			return f
		}
	}
	return nil
}
