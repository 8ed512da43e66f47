// Package memory implementa los repositorios en memoria. Se usa con
// storage.driver=memory (desarrollo) y como fake en tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/element"
	"github.com/dropDatabas3/hellocms/internal/element/matrix"
	"github.com/dropDatabas3/hellocms/internal/field"
)

type relation struct {
	fieldID, sourceID, targetID int64
	sortOrder                   int
}

// Store guarda todo en maps protegidos por un RWMutex.
type Store struct {
	mu sync.RWMutex

	elements     map[int64]*element.Record
	fields       map[int64]*field.Field
	blockTypes   map[int64]*matrix.BlockType
	blocks       map[int64]*matrix.Block
	relations    []relation
	deprecations map[string]repository.DeprecationRecord

	nextBlockID int64
	now         func() time.Time
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		elements:     make(map[int64]*element.Record),
		fields:       make(map[int64]*field.Field),
		blockTypes:   make(map[int64]*matrix.BlockType),
		blocks:       make(map[int64]*matrix.Block),
		deprecations: make(map[string]repository.DeprecationRecord),
		now:          time.Now,
	}
}

// Ping siempre responde (para health checks).
func (s *Store) Ping(context.Context) error { return nil }

// =================================================================================
// SEEDING
// =================================================================================

// PutElement agrega o reemplaza un elemento genérico.
func (s *Store) PutElement(r *element.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements[r.ID] = cloneRecord(r)
}

// PutField agrega o reemplaza un field.
func (s *Store) PutField(f *field.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *f
	if cp.Context == "" {
		cp.Context = field.Global
	}
	s.fields[cp.ID] = &cp
}

// PutBlockType agrega o reemplaza un block type.
func (s *Store) PutBlockType(bt *matrix.BlockType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *bt
	s.blockTypes[cp.ID] = &cp
}

// Relate agrega una relación de un field relacional.
func (s *Store) Relate(fieldID, sourceID, targetID int64, sortOrder int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relations = append(s.relations, relation{fieldID, sourceID, targetID, sortOrder})
}

func cloneRecord(r *element.Record) *element.Record {
	return &element.Record{
		ID:           r.ID,
		UID:          r.UID,
		Type:         r.Type,
		Locale:       r.Locale,
		Enabled:      r.Enabled,
		Locales:      append(element.LocaleSet(nil), r.Locales...),
		DateUpdated:  r.DateUpdated,
		FreshContent: r.FreshContent,
	}
}

func cloneBlock(b *matrix.Block) *matrix.Block {
	content := make(map[string]any, len(b.Content))
	for k, v := range b.Content {
		content[k] = v
	}
	return &matrix.Block{
		ID:          b.ID,
		UID:         b.UID,
		Locale:      b.Locale,
		FieldID:     b.FieldID,
		OwnerID:     b.OwnerID,
		OwnerLocale: b.OwnerLocale,
		TypeID:      b.TypeID,
		SortOrder:   b.SortOrder,
		Collapsed:   b.Collapsed,
		Content:     content,
	}
}

// =================================================================================
// repository.ElementRepository
// =================================================================================

// Elements expone el repositorio de elementos.
func (s *Store) Elements() repository.ElementRepository { return elementRepo{s} }

// Fields expone el repositorio de fields.
func (s *Store) Fields() repository.FieldRepository { return fieldRepo{s} }

// Relations expone el repositorio de relaciones.
func (s *Store) Relations() repository.RelationRepository { return relationRepo{s} }

// BlockTypes expone el repositorio de block types.
func (s *Store) BlockTypes() matrix.BlockTypeRepository { return blockTypeRepo{s} }

// Blocks expone el repositorio de bloques.
func (s *Store) Blocks() matrix.BlockRepository { return blockRepo{s} }

// Deprecations expone el repositorio de deprecaciones.
func (s *Store) Deprecations() repository.DeprecationRepository { return deprecationRepo{s} }

type elementRepo struct{ s *Store }

func (r elementRepo) ByID(_ context.Context, id int64, locale string) (*element.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.elements[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneRecord(rec)
	if locale != "" {
		out.Locale = locale
	}
	return out, nil
}

func (r elementRepo) ByIDs(ctx context.Context, ids []int64, locale string) ([]*element.Record, error) {
	out := make([]*element.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := r.ByID(ctx, id, locale)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// =================================================================================
// repository.FieldRepository
// =================================================================================

type fieldRepo struct{ s *Store }

func (r fieldRepo) ByID(_ context.Context, id int64) (*field.Field, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.fields[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r fieldRepo) ByHandle(_ context.Context, handle string, fc field.Context) (*field.Field, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, f := range r.s.fields {
		if f.Handle == handle && f.Context == fc {
			cp := *f
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fieldRepo) ByContexts(_ context.Context, contexts []field.Context) ([]*field.Field, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*field.Field
	for _, c := range contexts {
		var group []*field.Field
		for _, f := range r.s.fields {
			if f.Context == c {
				cp := *f
				group = append(group, &cp)
			}
		}
		sort.Slice(group, func(i, j int) bool {
			if group[i].SortOrder != group[j].SortOrder {
				return group[i].SortOrder < group[j].SortOrder
			}
			return group[i].ID < group[j].ID
		})
		out = append(out, group...)
	}
	return out, nil
}

// =================================================================================
// repository.RelationRepository
// =================================================================================

type relationRepo struct{ s *Store }

func (r relationRepo) Pairs(_ context.Context, fieldID int64, sourceIDs []int64) ([]element.Pair, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	order := make(map[int64]int, len(sourceIDs))
	for i, id := range sourceIDs {
		if _, ok := order[id]; !ok {
			order[id] = i
		}
	}
	var rels []relation
	for _, rel := range r.s.relations {
		if rel.fieldID != fieldID {
			continue
		}
		if _, ok := order[rel.sourceID]; ok {
			rels = append(rels, rel)
		}
	}
	sort.SliceStable(rels, func(i, j int) bool {
		if order[rels[i].sourceID] != order[rels[j].sourceID] {
			return order[rels[i].sourceID] < order[rels[j].sourceID]
		}
		return rels[i].sortOrder < rels[j].sortOrder
	})
	out := make([]element.Pair, 0, len(rels))
	for _, rel := range rels {
		out = append(out, element.Pair{Source: rel.sourceID, Target: rel.targetID})
	}
	return out, nil
}

// =================================================================================
// matrix.BlockTypeRepository
// =================================================================================

type blockTypeRepo struct{ s *Store }

func (r blockTypeRepo) ByFieldID(_ context.Context, fieldID int64) ([]*matrix.BlockType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*matrix.BlockType
	for _, bt := range r.s.blockTypes {
		if bt.FieldID == fieldID {
			cp := *bt
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r blockTypeRepo) ByID(_ context.Context, id int64) (*matrix.BlockType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	bt, ok := r.s.blockTypes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *bt
	return &cp, nil
}

// =================================================================================
// matrix.BlockRepository
// =================================================================================

type blockRepo struct{ s *Store }

func (r blockRepo) ByID(_ context.Context, id int64, locale string) (*matrix.Block, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.blocks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneBlock(b)
	if locale != "" {
		out.Locale = locale
	}
	return out, nil
}

func (r blockRepo) ByOwner(_ context.Context, ownerID, fieldID int64, locale string) ([]*matrix.Block, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*matrix.Block
	for _, b := range r.s.blocks {
		if b.OwnerID != ownerID || b.FieldID != fieldID {
			continue
		}
		if b.OwnerLocale != "" && locale != "" && b.OwnerLocale != locale {
			continue
		}
		cp := cloneBlock(b)
		if locale != "" {
			cp.Locale = locale
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r blockRepo) Save(_ context.Context, b *matrix.Block) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.ID == 0 {
		r.s.nextBlockID++
		for {
			if _, taken := r.s.blocks[r.s.nextBlockID]; !taken {
				break
			}
			r.s.nextBlockID++
		}
		b.ID = r.s.nextBlockID
	}
	r.s.blocks[b.ID] = cloneBlock(b)
	return nil
}

// =================================================================================
// repository.DeprecationRepository
// =================================================================================

type deprecationRepo struct{ s *Store }

func (r deprecationRepo) Upsert(_ context.Context, rec repository.DeprecationRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur := r.s.deprecations[rec.Key]
	cur.Key = rec.Key
	cur.Message = rec.Message
	if rec.Origin != "" {
		cur.Origin = rec.Origin
	}
	cur.LastSeen = rec.LastSeen
	if cur.LastSeen.IsZero() {
		cur.LastSeen = r.s.now()
	}
	cur.Occurrences++
	r.s.deprecations[rec.Key] = cur
	return nil
}

func (r deprecationRepo) List(_ context.Context, limit int) ([]repository.DeprecationRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]repository.DeprecationRecord, 0, len(r.s.deprecations))
	for _, d := range r.s.deprecations {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastSeen.Equal(out[j].LastSeen) {
			return out[i].LastSeen.After(out[j].LastSeen)
		}
		return out[i].Key < out[j].Key
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
