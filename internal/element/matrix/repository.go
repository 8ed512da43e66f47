package matrix

import "context"

// BlockTypeRepository resuelve block types.
type BlockTypeRepository interface {
	// ByFieldID devuelve los block types de un field Matrix, por sort order.
	ByFieldID(ctx context.Context, fieldID int64) ([]*BlockType, error)

	// ByID busca un block type. Retorna repository.ErrNotFound si no existe.
	ByID(ctx context.Context, id int64) (*BlockType, error)
}

// BlockRepository persiste bloques Matrix.
type BlockRepository interface {
	ByID(ctx context.Context, id int64, locale string) (*Block, error)

	// ByOwner devuelve los bloques de un owner para un field, por sort order.
	ByOwner(ctx context.Context, ownerID, fieldID int64, locale string) ([]*Block, error)

	// Save inserta o actualiza el bloque; asigna ID si es nuevo.
	Save(ctx context.Context, b *Block) error
}
