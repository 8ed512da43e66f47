package cached

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellocms/internal/cache"
	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/element/matrix"
	"github.com/dropDatabas3/hellocms/internal/store/memory"
)

type countingTypes struct {
	matrix.BlockTypeRepository
	byField atomic.Int32
	byID    atomic.Int32
}

func (c *countingTypes) ByFieldID(ctx context.Context, fieldID int64) ([]*matrix.BlockType, error) {
	c.byField.Add(1)
	return c.BlockTypeRepository.ByFieldID(ctx, fieldID)
}

func (c *countingTypes) ByID(ctx context.Context, id int64) (*matrix.BlockType, error) {
	c.byID.Add(1)
	return c.BlockTypeRepository.ByID(ctx, id)
}

func setup(t *testing.T) (*BlockTypes, *countingTypes) {
	t.Helper()
	st := memory.New()
	st.PutBlockType(&matrix.BlockType{ID: 1, FieldID: 7, Handle: "text", SortOrder: 1})
	st.PutBlockType(&matrix.BlockType{ID: 2, FieldID: 7, Handle: "quote", SortOrder: 2})
	inner := &countingTypes{BlockTypeRepository: st.BlockTypes()}
	return NewBlockTypes(inner, cache.NewMemory("test", 0), 0), inner
}

func TestByFieldID_CachesResult(t *testing.T) {
	repo, inner := setup(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		types, err := repo.ByFieldID(ctx, 7)
		require.NoError(t, err)
		require.Len(t, types, 2)
		assert.Equal(t, "text", types[0].Handle)
		assert.Equal(t, "matrixBlockType:2", types[1].FieldContext().String())
	}
	assert.Equal(t, int32(1), inner.byField.Load())

	require.NoError(t, repo.Invalidate(ctx, 7))
	_, err := repo.ByFieldID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.byField.Load())
}

func TestByID_NotFoundIsNotCached(t *testing.T) {
	repo, inner := setup(t)
	ctx := context.Background()

	_, err := repo.ByID(ctx, 99)
	assert.True(t, repository.IsNotFound(err))
	_, err = repo.ByID(ctx, 99)
	assert.True(t, repository.IsNotFound(err))
	assert.Equal(t, int32(2), inner.byID.Load())

	bt, err := repo.ByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "text", bt.Handle)
}

func TestByFieldID_ConcurrentReaders(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			types, err := repo.ByFieldID(ctx, 7)
			assert.NoError(t, err)
			assert.Len(t, types, 2)
		}()
	}
	wg.Wait()
}
