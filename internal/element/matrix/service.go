package matrix

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/element"
	"github.com/dropDatabas3/hellocms/internal/field"
	"github.com/dropDatabas3/hellocms/internal/metrics"
	"github.com/dropDatabas3/hellocms/internal/observability/logger"
	"github.com/google/uuid"
)

// PrimaryLocaler provee el locale primario del sitio.
type PrimaryLocaler interface {
	PrimarySiteLocale() string
}

// MapResolver resuelve mapas de eager-loading genéricos dentro de un contexto de fields.
type MapResolver interface {
	Map(ctx context.Context, sources []element.Ref, handle string, fc field.Context) (element.EagerLoadingMap, bool, error)
}

// Deps agrupa las dependencias del Service.
type Deps struct {
	BlockTypes BlockTypeRepository
	Blocks     BlockRepository
	Fields     repository.FieldRepository
	Elements   repository.ElementRepository
	Maps       MapResolver
	Locales    PrimaryLocaler
}

// Service resuelve relaciones lazy de los bloques (owner, block type, field),
// locales y eager-loading.
type Service struct {
	blockTypes BlockTypeRepository
	blocks     BlockRepository
	fields     repository.FieldRepository
	elements   repository.ElementRepository
	maps       MapResolver
	locales    PrimaryLocaler
}

// NewService crea el servicio de bloques Matrix.
func NewService(d Deps) (*Service, error) {
	switch {
	case d.BlockTypes == nil:
		return nil, fmt.Errorf("matrix: BlockTypes repository is required")
	case d.Fields == nil:
		return nil, fmt.Errorf("matrix: Fields repository is required")
	case d.Elements == nil:
		return nil, fmt.Errorf("matrix: Elements repository is required")
	case d.Maps == nil:
		return nil, fmt.Errorf("matrix: Maps resolver is required")
	case d.Locales == nil:
		return nil, fmt.Errorf("matrix: Locales provider is required")
	}
	return &Service{
		blockTypes: d.BlockTypes,
		blocks:     d.Blocks,
		fields:     d.Fields,
		elements:   d.Elements,
		maps:       d.Maps,
		locales:    d.Locales,
	}, nil
}

// =================================================================================
// RELACIONES LAZY
// =================================================================================

// Owner devuelve el owner del bloque, buscándolo la primera vez.
// Un owner inexistente se memoiza como ausente y retorna (nil, nil).
// Errores de storage no se memoizan.
func (s *Service) Owner(ctx context.Context, b *Block) (element.Owner, error) {
	if owner, ok := b.cachedOwner(); ok {
		return owner, nil
	}
	if b.OwnerID == 0 {
		return nil, nil
	}

	rec, err := s.elements.ByID(ctx, b.OwnerID, b.Locale)
	if err != nil {
		if repository.IsNotFound(err) {
			b.SetOwner(nil)
			return nil, nil
		}
		return nil, fmt.Errorf("matrix: owner %d: %w", b.OwnerID, err)
	}
	b.SetOwner(rec)
	return rec, nil
}

// Type devuelve el block type del bloque, o nil si no tiene o no existe.
func (s *Service) Type(ctx context.Context, b *Block) (*BlockType, error) {
	if bt := b.cachedType(); bt != nil {
		return bt, nil
	}
	if b.TypeID == 0 {
		return nil, nil
	}
	bt, err := s.blockTypes.ByID(ctx, b.TypeID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("matrix: block type %d: %w", b.TypeID, err)
	}
	b.SetType(bt)
	return bt, nil
}

// Field devuelve el field Matrix dueño del bloque.
func (s *Service) Field(ctx context.Context, b *Block) (*field.Field, error) {
	f, err := s.fields.ByID(ctx, b.FieldID)
	if err != nil {
		return nil, fmt.Errorf("matrix: field %d: %w", b.FieldID, err)
	}
	return f, nil
}

// =================================================================================
// LOCALES
// =================================================================================

// Locales devuelve los locales para los que el contenido del bloque es válido.
//
//   - Con OwnerLocale: exactamente ese locale (el field Matrix es traducible, así
//     que cada bloque pertenece a un solo locale).
//   - Con owner: los locales del owner, aplanados a ids (vacío si el owner no tiene).
//   - Sin owner: el locale primario del sitio.
func (s *Service) Locales(ctx context.Context, b *Block) []string {
	if b.OwnerLocale != "" {
		return []string{b.OwnerLocale}
	}

	log := logger.From(ctx)
	owner, err := s.Owner(ctx, b)
	if err != nil {
		log.Warn("owner lookup failed, using primary locale",
			logger.ElementID(b.ID), logger.Err(err))
	}
	if owner != nil {
		set, err := owner.SupportedLocales(ctx)
		if err == nil {
			return set.IDs()
		}
		log.Warn("owner locales failed, using primary locale",
			logger.ElementID(owner.ElementID()), logger.Err(err))
	}

	return []string{s.locales.PrimarySiteLocale()}
}

// =================================================================================
// CONTENIDO
// =================================================================================

// FieldLayout devuelve el layout del block type, o nil si no hay tipo.
func (s *Service) FieldLayout(ctx context.Context, b *Block) (*field.Layout, error) {
	bt, err := s.Type(ctx, b)
	if err != nil || bt == nil {
		return nil, err
	}
	if bt.Layout != nil {
		return bt.Layout, nil
	}
	fields, err := s.fields.ByContexts(ctx, []field.Context{bt.FieldContext()})
	if err != nil {
		return nil, fmt.Errorf("matrix: layout for block type %d: %w", bt.ID, err)
	}
	return &field.Layout{Fields: fields}, nil
}

// ContentTable devuelve la tabla de contenido del field Matrix del bloque.
func (s *Service) ContentTable(ctx context.Context, b *Block) (string, error) {
	f, err := s.Field(ctx, b)
	if err != nil {
		return "", err
	}
	return ContentTableName(f), nil
}

// ContentTableName devuelve "matrixcontent_<handle>" (con el contexto padre si el
// field está anidado en otro block type).
func ContentTableName(f *field.Field) string {
	name := "matrixcontent_" + strings.ToLower(f.Handle)
	if id, ok := f.Context.BlockTypeID(); ok {
		name = fmt.Sprintf("matrixcontent_bt%d_%s", id, strings.ToLower(f.Handle))
	}
	return name
}

// FieldColumnPrefix devuelve el prefijo de columnas ("field_<blockTypeHandle>_").
func (s *Service) FieldColumnPrefix(ctx context.Context, b *Block) (string, error) {
	bt, err := s.Type(ctx, b)
	if err != nil {
		return "", err
	}
	if bt == nil {
		return "", fmt.Errorf("matrix: block %d has no block type: %w", b.ID, repository.ErrNotFound)
	}
	return bt.ColumnPrefix(), nil
}

// HasFreshContent delega en el owner; sin owner es false.
func (s *Service) HasFreshContent(ctx context.Context, b *Block) (bool, error) {
	owner, err := s.Owner(ctx, b)
	if err != nil || owner == nil {
		return false, err
	}
	return owner.HasFreshContent(ctx)
}

// FieldsForQuery devuelve los fields de todos los block types del field Matrix,
// con el prefijo de columna de su block type asignado. Los fields de todos los
// contextos se cargan en una sola llamada.
func (s *Service) FieldsForQuery(ctx context.Context, fieldID int64) ([]*field.Field, error) {
	types, err := s.blockTypes.ByFieldID(ctx, fieldID)
	if err != nil {
		return nil, fmt.Errorf("matrix: block types for field %d: %w", fieldID, err)
	}
	if len(types) == 0 {
		return nil, nil
	}

	contexts := make([]field.Context, 0, len(types))
	for _, bt := range types {
		contexts = append(contexts, bt.FieldContext())
	}
	all, err := s.fields.ByContexts(ctx, contexts)
	if err != nil {
		return nil, fmt.Errorf("matrix: preload fields: %w", err)
	}
	byContext := make(map[field.Context][]*field.Field, len(contexts))
	for _, f := range all {
		byContext[f.Context] = append(byContext[f.Context], f)
	}

	var out []*field.Field
	for _, bt := range types {
		prefix := bt.ColumnPrefix()
		for _, f := range byContext[bt.FieldContext()] {
			cp := *f
			cp.ColumnPrefix = prefix
			out = append(out, &cp)
		}
	}
	return out, nil
}

// =================================================================================
// EAGER LOADING
// =================================================================================

// SplitHandle separa "<blockTypeHandle>:<fieldHandle>". Falla si no hay
// exactamente un separador.
func SplitHandle(handle string) (blockTypeHandle, fieldHandle string, ok bool) {
	parts := strings.Split(handle, ":")
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// EagerLoadingMap resuelve un handle "<blockTypeHandle>:<fieldHandle>" para un
// lote de bloques. Se asume que todos los bloques pertenecen al mismo field
// Matrix que el primero.
//
// Devuelve ok=false (sin error) si el handle está mal formado o el block type no
// existe. El field se resuelve dentro del contexto del block type, pasado
// explícitamente al resolver genérico.
func (s *Service) EagerLoadingMap(ctx context.Context, sources []*Block, handle string) (element.EagerLoadingMap, bool, error) {
	result := "not_applicable"
	defer func() { metrics.ObserveEagerLoad(ElementType, result) }()

	typeHandle, fieldHandle, ok := SplitHandle(handle)
	if !ok || len(sources) == 0 {
		return element.EagerLoadingMap{}, false, nil
	}

	types, err := s.blockTypes.ByFieldID(ctx, sources[0].FieldID)
	if err != nil {
		result = "error"
		return element.EagerLoadingMap{}, false, fmt.Errorf("matrix: block types for field %d: %w", sources[0].FieldID, err)
	}
	var bt *BlockType
	for _, t := range types {
		if t.Handle == typeHandle {
			bt = t
			break
		}
	}
	if bt == nil {
		logger.From(ctx).Debug("unknown block type in eager-load handle",
			logger.Handle(handle), logger.FieldID(sources[0].FieldID))
		return element.EagerLoadingMap{}, false, nil
	}

	refs := make([]element.Ref, 0, len(sources))
	for _, b := range sources {
		refs = append(refs, b)
	}
	m, ok, err := s.maps.Map(ctx, refs, fieldHandle, bt.FieldContext())
	switch {
	case err != nil:
		result = "error"
	case ok:
		result = "applied"
	}
	return m, ok, err
}

// EagerLoad resuelve el handle, carga los elementos destino y los guarda en cada
// bloque bajo el handle. Devuelve el mapa usado, o false si el handle no aplica.
func (s *Service) EagerLoad(ctx context.Context, blocks []*Block, handle string) (element.EagerLoadingMap, bool, error) {
	m, ok, err := s.EagerLoadingMap(ctx, blocks, handle)
	if err != nil || !ok {
		return m, false, err
	}

	locale := blocks[0].Locale
	targets, err := s.elements.ByIDs(ctx, m.TargetIDs(), locale)
	if err != nil {
		return m, false, fmt.Errorf("matrix: load eager targets: %w", err)
	}
	byID := make(map[int64]*element.Record, len(targets))
	for _, t := range targets {
		byID[t.ID] = t
	}

	for _, b := range blocks {
		if _, err := s.Type(ctx, b); err != nil {
			return m, false, err
		}
		refs := make([]element.Ref, 0)
		for _, id := range m.TargetsFor(b.ID) {
			if t, ok := byID[id]; ok {
				refs = append(refs, t)
			}
		}
		b.SetEagerLoaded(handle, refs)
	}

	logger.From(ctx).Debug("eager-loaded block relations",
		logger.Handle(handle), logger.Count(len(targets)))
	return m, true, nil
}

// =================================================================================
// PERSISTENCIA
// =================================================================================

// Block busca un bloque por id, con su block type resuelto.
func (s *Service) Block(ctx context.Context, id int64, locale string) (*Block, error) {
	if s.blocks == nil {
		return nil, repository.ErrNoDatabase
	}
	b, err := s.blocks.ByID(ctx, id, locale)
	if err != nil {
		return nil, err
	}
	if _, err := s.Type(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// BlocksByOwner devuelve los bloques de un owner para un field, con tipos resueltos.
func (s *Service) BlocksByOwner(ctx context.Context, ownerID, fieldID int64, locale string) ([]*Block, error) {
	if s.blocks == nil {
		return nil, repository.ErrNoDatabase
	}
	blocks, err := s.blocks.ByOwner(ctx, ownerID, fieldID, locale)
	if err != nil {
		return nil, err
	}
	for _, b := range blocks {
		if _, err := s.Type(ctx, b); err != nil {
			return nil, err
		}
	}
	return blocks, nil
}

// Save valida y persiste el bloque, asignando UID si falta.
func (s *Service) Save(ctx context.Context, b *Block) error {
	if s.blocks == nil {
		return repository.ErrNoDatabase
	}
	if err := b.Validate(); err != nil {
		return err
	}
	if b.UID == "" {
		b.UID = uuid.NewString()
	}
	return s.blocks.Save(ctx, b)
}
