package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest/application/port/outbound"
	"github.com/tasknest/tasknest/domain/entity"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, entity.NewUser("u-1", "alice@example.com", "hash")))
	assert.ErrorIs(t, repo.Create(ctx, entity.NewUser("u-2", "alice@example.com", "hash")), outbound.ErrUserAlreadyExists)

	user, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, outbound.ErrUserNotFound)
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository("salt")

	require.NoError(t, repo.Save(ctx, "u-1", "first"))
	require.NoError(t, repo.Save(ctx, "u-1", "second"))

	_, err := repo.FindByToken(ctx, "first")
	assert.ErrorIs(t, err, outbound.ErrSessionNotFound, "save supersedes")

	session, err := repo.FindByToken(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, "u-1", session.UserID)

	assert.ErrorIs(t, repo.Replace(ctx, "u-1", "first", "third"), outbound.ErrSessionNotFound)
	require.NoError(t, repo.Replace(ctx, "u-1", "second", "third"))

	n, err := repo.DeleteByToken(ctx, "second")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.DeleteByToken(ctx, "third")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.FindByToken(ctx, "third")
	assert.ErrorIs(t, err, outbound.ErrSessionNotFound)
}

func TestSessionRepository_ReplaceIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository("")
	require.NoError(t, repo.Save(ctx, "u-1", "current"))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if repo.Replace(ctx, "u-1", "current", "next-"+string(rune('a'+i))) == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestTodoRepository_ListOrdersByCreation(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoRepository()
	base := time.Now()

	for i, id := range []string{"c", "a", "b"} {
		todo := entity.NewTodo(id, "u-1", id, "")
		todo.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, todo))
	}
	require.NoError(t, repo.Create(ctx, entity.NewTodo("z", "u-2", "z", "")))

	todos, total, err := repo.List(ctx, "u-1", outbound.TodoFilter{}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, todos, 1)
	assert.Equal(t, "a", todos[0].ID)

	done := true
	todos, total, err = repo.List(ctx, "u-1", outbound.TodoFilter{IsComplete: &done}, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, todos)
}
