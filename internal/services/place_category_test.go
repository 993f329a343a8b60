package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ourdays/internal/domain"
)

func newPlaceCategoryFixture(t *testing.T) (*placeCategoryService, *memStore, string) {
	t.Helper()
	store, coupleID := pairedStore(t)
	svc := NewPlaceCategoryService(store.repos(), time.Second).(*placeCategoryService)
	svc.now = newTestClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)).Now
	return svc, store, coupleID
}

func systemCategory(t *testing.T, svc *placeCategoryService) *domain.PlaceCategory {
	t.Helper()
	list, err := svc.List(context.Background(), "alice")
	require.NoError(t, err)
	require.NotEmpty(t, list)
	require.True(t, list[0].IsSystem)
	return list[0]
}

func TestPlaceCategoryService_List(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPlaceCategoryFixture(t)

	for _, name := range []string{"카페", "맛집", "공원"} {
		_, err := svc.Create(ctx, "bob", domain.PlaceCategoryInput{Name: ptr(name), Color: ptr("#112233")})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	names := make([]string, len(list))
	for i, pc := range list {
		names[i] = pc.Name
	}
	assert.Equal(t, []string{"기본", "공원", "맛집", "카페"}, names)
	assert.Equal(t, domain.DefaultPlaceCategoryKey, list[0].SystemKey)

	_, err = svc.List(ctx, "carol")
	require.ErrorIs(t, err, domain.ErrNotInCouple)
}

func TestPlaceCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		in      domain.PlaceCategoryInput
		wantErr error
	}{
		{"name and color", domain.PlaceCategoryInput{Name: ptr("  카페 "), Color: ptr("#AABBCC"), Icon: ptr("coffee")}, nil},
		{"missing color", domain.PlaceCategoryInput{Name: ptr("카페")}, domain.ErrInvalidInput},
		{"missing name", domain.PlaceCategoryInput{Color: ptr("#AABBCC")}, domain.ErrInvalidInput},
		{"blank name", domain.PlaceCategoryInput{Name: ptr("   "), Color: ptr("#AABBCC")}, domain.ErrInvalidInput},
		{"bad color", domain.PlaceCategoryInput{Name: ptr("카페"), Color: ptr("red")}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, coupleID := newPlaceCategoryFixture(t)
			pc, err := svc.Create(ctx, "alice", tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, store.state.categories, 1)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "카페", pc.Name)
			assert.Equal(t, coupleID, pc.CoupleID)
			assert.False(t, pc.IsSystem)
			assert.Equal(t, "coffee", *pc.Icon)
		})
	}
}

func TestPlaceCategoryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("system category keeps its name", func(t *testing.T) {
		svc, _, _ := newPlaceCategoryFixture(t)
		sys := systemCategory(t, svc)

		_, err := svc.Update(ctx, "alice", sys.ID, domain.PlaceCategoryInput{Name: ptr("우리 장소")})
		require.ErrorIs(t, err, domain.ErrSystemCategoryLocked)
		require.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.Update(ctx, "alice", sys.ID, domain.PlaceCategoryInput{Name: ptr(sys.Name), Color: ptr("#000000")})
		require.ErrorIs(t, err, domain.ErrSystemCategoryLocked)

		pc, err := svc.Update(ctx, "alice", sys.ID, domain.PlaceCategoryInput{Color: ptr("#000000"), Icon: ptr("heart")})
		require.NoError(t, err)
		assert.Equal(t, "heart", *pc.Icon)
		assert.Equal(t, "기본", pc.Name)
		assert.Equal(t, "#000000", pc.Color)
	})

	t.Run("custom category renames and clears icon", func(t *testing.T) {
		svc, _, _ := newPlaceCategoryFixture(t)
		created, err := svc.Create(ctx, "alice", domain.PlaceCategoryInput{Name: ptr("카페"), Color: ptr("#112233"), Icon: ptr("coffee")})
		require.NoError(t, err)

		pc, err := svc.Update(ctx, "bob", created.ID, domain.PlaceCategoryInput{Name: ptr("브런치"), Icon: ptr("")})
		require.NoError(t, err)
		assert.Equal(t, "브런치", pc.Name)
		assert.Equal(t, "#112233", pc.Color)
		assert.Nil(t, pc.Icon)
		assert.True(t, pc.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("other couple's category", func(t *testing.T) {
		svc, store, _ := newPlaceCategoryFixture(t)
		store.state.categories["foreign"] = &domain.PlaceCategory{ID: "foreign", CoupleID: "elsewhere", Name: "x", Color: "#000000"}
		_, err := svc.Update(ctx, "alice", "foreign", domain.PlaceCategoryInput{Color: ptr("#111111")})
		require.ErrorIs(t, err, domain.ErrPlaceCategoryNotFound)
	})
}

func TestPlaceCategoryService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newPlaceCategoryFixture(t)

	sys := systemCategory(t, svc)
	require.ErrorIs(t, svc.Delete(ctx, "alice", sys.ID), domain.ErrSystemCategoryLocked)
	assert.Nil(t, store.state.categories[sys.ID].DeletedAt)

	created, err := svc.Create(ctx, "alice", domain.PlaceCategoryInput{Name: ptr("카페"), Color: ptr("#112233")})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "bob", created.ID))
	assert.NotNil(t, store.state.categories[created.ID].DeletedAt, "row is kept with deleted_at set")

	list, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.ErrorIs(t, svc.Delete(ctx, "alice", created.ID), domain.ErrPlaceCategoryNotFound)
}
