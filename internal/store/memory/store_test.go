package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/element"
	"github.com/dropDatabas3/hellocms/internal/element/matrix"
	"github.com/dropDatabas3/hellocms/internal/field"
)

func TestElements_CloneAndLocale(t *testing.T) {
	s := New()
	s.PutElement(&element.Record{ID: 1, Type: "Entry", Locales: element.LocalesFromIDs("en")})
	ctx := context.Background()

	got, err := s.Elements().ByID(ctx, 1, "fr")
	require.NoError(t, err)
	assert.Equal(t, "fr", got.Locale)

	got.Locales[0] = element.Bare("xx")
	again, err := s.Elements().ByID(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, again.Locales.IDs())

	_, err = s.Elements().ByID(ctx, 2, "")
	assert.True(t, repository.IsNotFound(err))

	many, err := s.Elements().ByIDs(ctx, []int64{2, 1}, "")
	require.NoError(t, err)
	require.Len(t, many, 1)
	assert.Equal(t, int64(1), many[0].ID)
}

func TestFields_ByHandleIsContextScoped(t *testing.T) {
	s := New()
	s.PutField(&field.Field{ID: 1, Handle: "body"})
	s.PutField(&field.Field{ID: 2, Handle: "body", Context: field.ForBlockType(3)})
	ctx := context.Background()

	f, err := s.Fields().ByHandle(ctx, "body", field.Global)
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.ID)

	f, err = s.Fields().ByHandle(ctx, "body", field.ForBlockType(3))
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.ID)

	_, err = s.Fields().ByHandle(ctx, "body", field.ForBlockType(4))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBlockTypes_SortedByOrder(t *testing.T) {
	s := New()
	s.PutBlockType(&matrix.BlockType{ID: 2, FieldID: 1, Handle: "b", SortOrder: 2})
	s.PutBlockType(&matrix.BlockType{ID: 3, FieldID: 1, Handle: "a", SortOrder: 1})
	s.PutBlockType(&matrix.BlockType{ID: 4, FieldID: 9, Handle: "c", SortOrder: 0})

	types, err := s.BlockTypes().ByFieldID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "a", types[0].Handle)
	assert.Equal(t, "b", types[1].Handle)
}

func TestBlocks_OwnerLocaleFilter(t *testing.T) {
	s := New()
	ctx := context.Background()
	repo := s.Blocks()

	require.NoError(t, repo.Save(ctx, &matrix.Block{FieldID: 1, OwnerID: 5, SortOrder: 1}))
	require.NoError(t, repo.Save(ctx, &matrix.Block{FieldID: 1, OwnerID: 5, SortOrder: 2, OwnerLocale: "fr"}))

	all, err := repo.ByOwner(ctx, 5, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	en, err := repo.ByOwner(ctx, 5, 1, "en")
	require.NoError(t, err)
	require.Len(t, en, 1)
	assert.Empty(t, en[0].OwnerLocale)
}

func TestDeprecations_UpsertCounts(t *testing.T) {
	s := New()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	repo := s.Deprecations()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Upsert(ctx, repository.DeprecationRecord{Key: "k", Message: "m"}))
	}
	require.NoError(t, repo.Upsert(ctx, repository.DeprecationRecord{Key: "other", Message: "m", LastSeen: fixed.Add(time.Hour)}))

	list, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "other", list[0].Key)
	assert.Equal(t, int64(3), list[1].Occurrences)
	assert.Equal(t, fixed, list[1].LastSeen)

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
