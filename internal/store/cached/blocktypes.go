// Package cached decora repositorios con un cache.Client. Las lecturas
// concurrentes de la misma key se coalescen con singleflight.
package cached

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/hellocms/internal/cache"
	"github.com/dropDatabas3/hellocms/internal/element/matrix"
	"github.com/dropDatabas3/hellocms/internal/observability/logger"
)

// BlockTypes cachea las lecturas de block types, que cambian poco y se piden
// en cada resolución de eager-loading.
type BlockTypes struct {
	next  matrix.BlockTypeRepository
	cache cache.Client
	ttl   time.Duration
	sf    singleflight.Group
}

// NewBlockTypes crea el decorador. ttl 0 usa el TTL por defecto del cliente.
func NewBlockTypes(next matrix.BlockTypeRepository, c cache.Client, ttl time.Duration) *BlockTypes {
	return &BlockTypes{next: next, cache: c, ttl: ttl}
}

func fieldKey(fieldID int64) string { return "blocktypes:field:" + strconv.FormatInt(fieldID, 10) }
func idKey(id int64) string         { return "blocktypes:id:" + strconv.FormatInt(id, 10) }

// ByFieldID implementa matrix.BlockTypeRepository.
func (r *BlockTypes) ByFieldID(ctx context.Context, fieldID int64) ([]*matrix.BlockType, error) {
	var out []*matrix.BlockType
	err := r.load(ctx, fieldKey(fieldID), &out, func() (any, error) {
		return r.next.ByFieldID(ctx, fieldID)
	})
	return out, err
}

// ByID implementa matrix.BlockTypeRepository. Los NotFound no se cachean.
func (r *BlockTypes) ByID(ctx context.Context, id int64) (*matrix.BlockType, error) {
	var out *matrix.BlockType
	err := r.load(ctx, idKey(id), &out, func() (any, error) {
		return r.next.ByID(ctx, id)
	})
	return out, err
}

// Invalidate borra las entradas de un field y sus block types.
func (r *BlockTypes) Invalidate(ctx context.Context, fieldID int64, typeIDs ...int64) error {
	if err := r.cache.Delete(ctx, fieldKey(fieldID)); err != nil {
		return err
	}
	for _, id := range typeIDs {
		if err := r.cache.Delete(ctx, idKey(id)); err != nil {
			return err
		}
	}
	return nil
}

// load lee key del cache y la decodifica en dst; en miss llama a fetch (una vez
// por key aunque haya lecturas concurrentes) y guarda el resultado.
func (r *BlockTypes) load(ctx context.Context, key string, dst any, fetch func() (any, error)) error {
	log := logger.From(ctx)

	if raw, err := r.cache.Get(ctx, key); err == nil {
		if err := json.Unmarshal([]byte(raw), dst); err == nil {
			return nil
		}
		log.Warn("discarding corrupt cache entry", logger.Op("cached.BlockTypes"), logger.Any("key", key))
	} else if !cache.IsNotFound(err) {
		log.Warn("cache read failed", logger.Op("cached.BlockTypes"), logger.Err(err))
	}

	v, err, _ := r.sf.Do(key, func() (any, error) {
		val, err := fetch()
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("cached: encode %s: %w", key, err)
		}
		if err := r.cache.Set(ctx, key, string(b), r.ttl); err != nil {
			log.Warn("cache write failed", logger.Op("cached.BlockTypes"), logger.Err(err))
		}
		return b, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.([]byte), dst)
}

var _ matrix.BlockTypeRepository = (*BlockTypes)(nil)
