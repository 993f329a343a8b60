package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"ourdays/internal/domain"
)

var placeCategoryCols = []string{"id", "couple_id", "name", "color", "icon", "is_system", "system_key", "created_at", "updated_at"}

func TestPlaceCategoryRepository_ListByCoupleID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM place_categories WHERE couple_id = \$1 AND deleted_at IS NULL ORDER BY is_system DESC, name ASC`).
		WithArgs("couple-1").
		WillReturnRows(sqlmock.NewRows(placeCategoryCols).
			AddRow("pc-1", "couple-1", "기본", "#F6A5C0", nil, true, "default", at, at).
			AddRow("pc-2", "couple-1", "카페", "#112233", "coffee", false, nil, at, at))

	categories, err := NewPlaceCategoryRepository(db).ListByCoupleID(context.Background(), "couple-1")
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.True(t, categories[0].IsSystem)
	require.Equal(t, domain.DefaultPlaceCategoryKey, categories[0].SystemKey)
	require.Nil(t, categories[0].Icon)
	require.Equal(t, "coffee", *categories[1].Icon)
	require.Empty(t, categories[1].SystemKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceCategoryRepository_SoftDelete(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("skips system rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE place_categories SET deleted_at = \$1, updated_at = \$1 WHERE id = \$2 AND is_system = FALSE`).
			WithArgs(at, "pc-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		require.ErrorIs(t, NewPlaceCategoryRepository(db).SoftDelete(ctx, "pc-1", at), domain.ErrPlaceCategoryNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes custom row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE place_categories SET deleted_at`).
			WithArgs(at, "pc-2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, NewPlaceCategoryRepository(db).SoftDelete(ctx, "pc-2", at))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPlaceCategoryRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM place_categories WHERE id = \$1 AND couple_id = \$2`).
		WithArgs("pc-9", "couple-1").
		WillReturnRows(sqlmock.NewRows(placeCategoryCols))
	_, err = NewPlaceCategoryRepository(db).GetByID(context.Background(), "couple-1", "pc-9")
	require.ErrorIs(t, err, domain.ErrPlaceCategoryNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
