package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/itemsvc/internal/item"
	"github.com/vyrodovalexey/itemsvc/internal/storage/postgres"
)

var itemCols = []string{"id", "name", "description"}

func TestItemRepo_Create(t *testing.T) {
	t.Run("Should create item and return assigned id", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := postgres.NewItemRepo(mockPool, nil, nil)

		mockPool.ExpectBegin()
		mockPool.ExpectQuery("INSERT INTO items").
			WithArgs("hammer", "a small hammer").
			WillReturnRows(pgxmock.NewRows(itemCols).AddRow(int64(1), "hammer", "a small hammer"))
		mockPool.ExpectCommit()

		created, err := repo.Create(context.Background(), item.CreateInput{
			Name:        "hammer",
			Description: "a small hammer",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, "hammer", created.Name)
		assert.Equal(t, "a small hammer", created.Description)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should roll back when insert fails", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := postgres.NewItemRepo(mockPool, nil, nil)

		mockPool.ExpectBegin()
		mockPool.ExpectQuery("INSERT INTO items").
			WithArgs("hammer", "a small hammer").
			WillReturnError(errors.New("connection reset"))
		mockPool.ExpectRollback()

		created, err := repo.Create(context.Background(), item.CreateInput{
			Name:        "hammer",
			Description: "a small hammer",
		})

		require.Error(t, err)
		assert.Nil(t, created)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should roll back when commit fails", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := postgres.NewItemRepo(mockPool, nil, nil)

		mockPool.ExpectBegin()
		mockPool.ExpectQuery("INSERT INTO items").
			WithArgs("hammer", "a small hammer").
			WillReturnRows(pgxmock.NewRows(itemCols).AddRow(int64(1), "hammer", "a small hammer"))
		mockPool.ExpectCommit().WillReturnError(errors.New("commit failed"))
		mockPool.ExpectRollback()

		created, err := repo.Create(context.Background(), item.CreateInput{
			Name:        "hammer",
			Description: "a small hammer",
		})

		require.Error(t, err)
		assert.Nil(t, created)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestItemRepo_GetByID(t *testing.T) {
	t.Run("Should return item when present", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := postgres.NewItemRepo(mockPool, nil, nil)

		mockPool.ExpectQuery("SELECT id, name, description FROM items").
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows(itemCols).AddRow(int64(7), "hammer", "a small hammer"))

		found, err := repo.GetByID(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), found.ID)
		assert.Equal(t, "hammer", found.Name)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should return ErrNotFound when absent", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := postgres.NewItemRepo(mockPool, nil, nil)

		mockPool.ExpectQuery("SELECT id, name, description FROM items").
			WithArgs(int64(404)).
			WillReturnRows(pgxmock.NewRows(itemCols))

		found, err := repo.GetByID(context.Background(), 404)

		require.ErrorIs(t, err, item.ErrNotFound)
		assert.Nil(t, found)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should surface other database errors", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := postgres.NewItemRepo(mockPool, nil, nil)

		mockPool.ExpectQuery("SELECT id, name, description FROM items").
			WithArgs(int64(7)).
			WillReturnError(errors.New("connection reset"))

		found, err := repo.GetByID(context.Background(), 7)

		require.Error(t, err)
		assert.NotErrorIs(t, err, item.ErrNotFound)
		assert.Nil(t, found)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
