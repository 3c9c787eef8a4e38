// Package memory provides process-local repositories used when no database
// is configured and by end-to-end tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tasknest/tasknest/application/port/outbound"
	"github.com/tasknest/tasknest/domain/entity"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entity.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]string),
	}
}

var _ outbound.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, outbound.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, outbound.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[user.Email]; taken {
		return outbound.ErrUserAlreadyExists
	}
	if _, taken := r.byID[user.ID]; taken {
		return outbound.ErrUserAlreadyExists
	}
	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = user.ID
	return nil
}

// SessionRepository holds salted digests, like the persistent stores.
type SessionRepository struct {
	mu      sync.Mutex
	salt    string
	byUser  map[string]*entity.Session
	byToken map[string]string
}

func NewSessionRepository(salt string) *SessionRepository {
	return &SessionRepository{
		salt:    salt,
		byUser:  make(map[string]*entity.Session),
		byToken: make(map[string]string),
	}
}

var _ outbound.SessionRepository = (*SessionRepository)(nil)

func (r *SessionRepository) Save(ctx context.Context, userID, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	digest := entity.HashRefreshToken(refreshToken, r.salt)
	now := time.Now().UTC()
	if prev, ok := r.byUser[userID]; ok {
		delete(r.byToken, prev.RefreshToken)
		prev.RefreshToken = digest
		prev.UpdatedAt = now
	} else {
		session := entity.NewSession(userID, digest)
		r.byUser[userID] = session
	}
	r.byToken[digest] = userID
	return nil
}

func (r *SessionRepository) FindByToken(ctx context.Context, refreshToken string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byToken[entity.HashRefreshToken(refreshToken, r.salt)]
	if !ok {
		return nil, outbound.ErrSessionNotFound
	}
	stored := r.byUser[userID]
	return &entity.Session{
		UserID:       userID,
		RefreshToken: refreshToken,
		CreatedAt:    stored.CreatedAt,
		UpdatedAt:    stored.UpdatedAt,
	}, nil
}

func (r *SessionRepository) Replace(ctx context.Context, userID, oldToken, newToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	oldDigest := entity.HashRefreshToken(oldToken, r.salt)
	session, ok := r.byUser[userID]
	if !ok || session.RefreshToken != oldDigest {
		return outbound.ErrSessionNotFound
	}
	newDigest := entity.HashRefreshToken(newToken, r.salt)
	delete(r.byToken, oldDigest)
	session.RefreshToken = newDigest
	session.UpdatedAt = time.Now().UTC()
	r.byToken[newDigest] = userID
	return nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, refreshToken string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	digest := entity.HashRefreshToken(refreshToken, r.salt)
	userID, ok := r.byToken[digest]
	if !ok {
		return 0, nil
	}
	delete(r.byToken, digest)
	delete(r.byUser, userID)
	return 1, nil
}

type TodoRepository struct {
	mu    sync.RWMutex
	todos map[string]*entity.Todo
}

func NewTodoRepository() *TodoRepository {
	return &TodoRepository{todos: make(map[string]*entity.Todo)}
}

var _ outbound.TodoRepository = (*TodoRepository)(nil)

func (r *TodoRepository) Create(ctx context.Context, todo *entity.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *todo
	r.todos[todo.ID] = &clone
	return nil
}

func (r *TodoRepository) FindByID(ctx context.Context, id string) (*entity.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	todo, ok := r.todos[id]
	if !ok {
		return nil, outbound.ErrTodoNotFound
	}
	clone := *todo
	return &clone, nil
}

func (r *TodoRepository) List(ctx context.Context, userID string, filter outbound.TodoFilter, offset, limit int) ([]*entity.Todo, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*entity.Todo, 0)
	for _, todo := range r.todos {
		if todo.UserID != userID || !matches(todo, filter) {
			continue
		}
		clone := *todo
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset >= total {
		return []*entity.Todo{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (r *TodoRepository) Update(ctx context.Context, todo *entity.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[todo.ID]; !ok {
		return outbound.ErrTodoNotFound
	}
	clone := *todo
	r.todos[todo.ID] = &clone
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[id]; !ok {
		return outbound.ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

func matches(todo *entity.Todo, filter outbound.TodoFilter) bool {
	if filter.Title != nil && todo.Title != *filter.Title {
		return false
	}
	if filter.Text != nil && todo.Text != *filter.Text {
		return false
	}
	if filter.IsComplete != nil && todo.IsComplete != *filter.IsComplete {
		return false
	}
	return true
}

type FileRepository struct {
	mu    sync.Mutex
	files []*entity.File
}

func NewFileRepository() *FileRepository {
	return &FileRepository{}
}

var _ outbound.FileRepository = (*FileRepository)(nil)

func (r *FileRepository) Create(ctx context.Context, file *entity.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *file
	r.files = append(r.files, &clone)
	return nil
}

// Count reports how many files have been recorded.
func (r *FileRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}
