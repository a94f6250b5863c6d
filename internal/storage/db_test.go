package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/amoylab/toolserver/internal/common/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSQLiteStore(t *testing.T) *DBStore {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Type:   "sqlite",
		DBName: filepath.Join(t.TempDir(), "data", "todo.db"),
	}
	s, err := NewDBStore(zap.NewNop(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDBStore_CRUD(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	todo := &Todo{ID: uuid.NewString(), Title: "write tests", Description: "for the store"}
	require.NoError(t, s.Create(ctx, todo))
	assert.Equal(t, DefaultPriority, todo.Priority)

	got, err := s.Get(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "write tests", got.Title)
	assert.False(t, got.IsDone)
	assert.False(t, got.CreatedAt.IsZero())

	got.Title = "write more tests"
	got.IsDone = true
	got.Priority = 1
	require.NoError(t, s.Update(ctx, got))

	got, err = s.Get(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "write more tests", got.Title)
	assert.True(t, got.IsDone)
	assert.Equal(t, 1, got.Priority)

	require.NoError(t, s.Delete(ctx, todo.ID))
	_, err = s.Get(ctx, todo.ID)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestDBStore_List(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	todos, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)

	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, s.Create(ctx, &Todo{ID: uuid.NewString(), Title: title}))
	}
	todos, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, todos, 3)
}

func TestDBStore_MissingRows(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	id := uuid.NewString()

	assert.ErrorIs(t, s.Update(ctx, &Todo{ID: id, Title: "x"}), ErrTodoNotFound)
	assert.ErrorIs(t, s.Delete(ctx, id), ErrTodoNotFound)
}

func TestNewDBStore_InvalidType(t *testing.T) {
	_, err := NewDBStore(zap.NewNop(), &config.DatabaseConfig{Type: "oracle"})
	assert.Error(t, err)
}
