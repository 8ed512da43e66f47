// Package matrix implementa los bloques Matrix: elementos de contenido
// estructurado que pertenecen a un field Matrix de otro elemento (su owner),
// tipados por un block type y con un locale.
package matrix

import (
	"strings"
	"sync"

	"github.com/dropDatabas3/hellocms/internal/element"
	"github.com/dropDatabas3/hellocms/internal/field"
	"github.com/dropDatabas3/hellocms/internal/validation"
)

// ElementType es el tipo de elemento de los bloques Matrix.
const ElementType = "MatrixBlock"

// DisplayName es el nombre visible del tipo de elemento.
const DisplayName = "Matrix Block"

// HasContent: los bloques guardan contenido en su propia tabla.
func HasContent() bool { return true }

// IsLocalized: los bloques tienen una fila de contenido por locale.
func IsLocalized() bool { return true }

// BlockType es el esquema de un bloque: qué fields puede contener.
type BlockType struct {
	ID        int64
	FieldID   int64
	Name      string
	Handle    string
	SortOrder int
	Layout    *field.Layout
}

// FieldContext devuelve el contexto de los fields del block type.
func (bt *BlockType) FieldContext() field.Context {
	return field.ForBlockType(bt.ID)
}

// ColumnPrefix devuelve el prefijo de columnas de contenido ("field_<handle>_").
func (bt *BlockType) ColumnPrefix() string {
	return "field_" + bt.Handle + "_"
}

type ownerState uint8

const (
	ownerUnresolved ownerState = iota
	ownerResolved
	ownerAbsent
)

// Block es un bloque Matrix.
type Block struct {
	ID     int64
	UID    string
	Locale string

	// FieldID identifica el field Matrix dueño del bloque.
	FieldID int64
	// OwnerID identifica el elemento que contiene el bloque.
	OwnerID int64
	// OwnerLocale, si no está vacío, ata el bloque a un único locale.
	OwnerLocale string
	// TypeID identifica el block type.
	TypeID    int64
	SortOrder int64
	Collapsed bool

	// Content son los valores de fields del bloque, por handle.
	Content map[string]any

	element.EagerLoadStore

	mu         sync.Mutex
	ownerState ownerState
	owner      element.Owner
	blockType  *BlockType
	typeEager  map[string][]element.Ref
}

func (b *Block) ElementID() int64    { return b.ID }
func (b *Block) ElementType() string { return ElementType }

// FieldContext devuelve el contexto de fields usado por el contenido del bloque.
func (b *Block) FieldContext() field.Context {
	return field.ForBlockType(b.TypeID)
}

// Validate verifica rangos de 32 bits y la sintaxis de OwnerLocale.
func (b *Block) Validate() error {
	var errs validation.Errors
	validation.Int32Range(&errs, "fieldId", b.FieldID)
	validation.Int32Range(&errs, "ownerId", b.OwnerID)
	validation.Int32Range(&errs, "typeId", b.TypeID)
	validation.Int32Range(&errs, "sortOrder", b.SortOrder)
	validation.Locale(&errs, "ownerLocale", b.OwnerLocale)
	return errs.Err()
}

// cachedOwner devuelve el owner memoizado y si ya fue resuelto.
func (b *Block) cachedOwner() (element.Owner, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.ownerState {
	case ownerResolved:
		return b.owner, true
	case ownerAbsent:
		return nil, true
	default:
		return nil, false
	}
}

// SetOwner fija el owner, evitando la búsqueda lazy.
func (b *Block) SetOwner(owner element.Owner) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if owner == nil {
		b.owner, b.ownerState = nil, ownerAbsent
		return
	}
	b.owner, b.ownerState = owner, ownerResolved
}

// SetType fija el block type resuelto.
func (b *Block) SetType(bt *BlockType) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blockType = bt
}

// ResolvedType devuelve el block type ya resuelto, o nil.
func (b *Block) ResolvedType() *BlockType { return b.cachedType() }

func (b *Block) cachedType() *BlockType {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.blockType
}

// typedKey devuelve la clave del cache por block type. Un handle con ":" ya es
// compuesto; uno simple se prefija con el handle del tipo, si está resuelto.
func (b *Block) typedKey(handle string) (string, bool) {
	if strings.Contains(handle, ":") {
		return handle, true
	}
	bt := b.cachedType()
	if bt == nil {
		return "", false
	}
	return bt.Handle + ":" + handle, true
}

func (b *Block) typed(key string) ([]element.Ref, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.typeEager[key]
	return v, ok
}

// HasEagerLoaded busca primero la variante con prefijo de block type y luego el cache genérico.
func (b *Block) HasEagerLoaded(handle string) bool {
	_, ok := b.EagerLoaded(handle)
	return ok
}

// EagerLoaded devuelve los elementos precargados para el handle.
func (b *Block) EagerLoaded(handle string) ([]element.Ref, bool) {
	if key, ok := b.typedKey(handle); ok {
		if v, found := b.typed(key); found {
			return v, true
		}
	}
	return b.EagerLoadStore.EagerLoaded(handle)
}

// SetEagerLoaded guarda los handles "<blockTypeHandle>:<fieldHandle>" aparte del
// cache genérico, esté o no resuelto el block type.
func (b *Block) SetEagerLoaded(handle string, elements []element.Ref) {
	if !strings.Contains(handle, ":") {
		b.EagerLoadStore.SetEagerLoaded(handle, elements)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.typeEager == nil {
		b.typeEager = make(map[string][]element.Ref)
	}
	b.typeEager[handle] = elements
}

var (
	_ element.Ref           = (*Block)(nil)
	_ element.EagerLoadable = (*Block)(nil)
)
