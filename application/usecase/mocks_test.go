package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/tasknest/tasknest/application/port/outbound"
	"github.com/tasknest/tasknest/domain/entity"
)

var errStoreDown = errors.New("store unavailable")

type mockUserRepository struct {
	users   map[string]*entity.User
	findErr error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*entity.User)}
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if user, exists := m.users[id]; exists {
		return user, nil
	}
	return nil, outbound.ErrUserNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, outbound.ErrUserNotFound
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return outbound.ErrUserAlreadyExists
		}
	}
	m.users[user.ID] = user
	return nil
}

type mockSessionRepository struct {
	mu       sync.Mutex
	byUser   map[string]string
	failWith error
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{byUser: make(map[string]string)}
}

func (m *mockSessionRepository) Save(ctx context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.byUser[userID] = token
	return nil
}

func (m *mockSessionRepository) FindByToken(ctx context.Context, token string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for userID, current := range m.byUser {
		if current == token {
			return entity.NewSession(userID, token), nil
		}
	}
	return nil, outbound.ErrSessionNotFound
}

func (m *mockSessionRepository) Replace(ctx context.Context, userID, oldToken, newToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if m.byUser[userID] != oldToken {
		return outbound.ErrSessionNotFound
	}
	m.byUser[userID] = newToken
	return nil
}

func (m *mockSessionRepository) DeleteByToken(ctx context.Context, token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	for userID, current := range m.byUser {
		if current == token {
			delete(m.byUser, userID)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockSessionRepository) current(userID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byUser[userID]
}

// fakePasswordService keeps tests fast; bcrypt has its own tests.
type fakePasswordService struct{}

func (fakePasswordService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakePasswordService) VerifyPassword(password, hash string) (bool, error) {
	return hash == "hashed:"+password, nil
}

type mockEventRecorder struct {
	mock.Mock
}

func (m *mockEventRecorder) RecordAuthEvent(event string, success bool) {
	m.Called(event, success)
}

type mockTodoRepository struct {
	todos map[string]*entity.Todo
}

func newMockTodoRepository() *mockTodoRepository {
	return &mockTodoRepository{todos: make(map[string]*entity.Todo)}
}

func (m *mockTodoRepository) Create(ctx context.Context, todo *entity.Todo) error {
	m.todos[todo.ID] = todo
	return nil
}

func (m *mockTodoRepository) FindByID(ctx context.Context, id string) (*entity.Todo, error) {
	if todo, ok := m.todos[id]; ok {
		return todo, nil
	}
	return nil, outbound.ErrTodoNotFound
}

func (m *mockTodoRepository) List(ctx context.Context, userID string, filter outbound.TodoFilter, offset, limit int) ([]*entity.Todo, int, error) {
	var matched []*entity.Todo
	for _, todo := range m.todos {
		if todo.UserID != userID {
			continue
		}
		if filter.Title != nil && todo.Title != *filter.Title {
			continue
		}
		if filter.Text != nil && todo.Text != *filter.Text {
			continue
		}
		if filter.IsComplete != nil && todo.IsComplete != *filter.IsComplete {
			continue
		}
		matched = append(matched, todo)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

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

func (m *mockTodoRepository) Update(ctx context.Context, todo *entity.Todo) error {
	if _, ok := m.todos[todo.ID]; !ok {
		return outbound.ErrTodoNotFound
	}
	m.todos[todo.ID] = todo
	return nil
}

func (m *mockTodoRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.todos[id]; !ok {
		return outbound.ErrTodoNotFound
	}
	delete(m.todos, id)
	return nil
}

type mockFileRepository struct {
	files []*entity.File
	err   error
}

func (m *mockFileRepository) Create(ctx context.Context, file *entity.File) error {
	if m.err != nil {
		return m.err
	}
	m.files = append(m.files, file)
	return nil
}

type mockBlobStorage struct {
	objects map[string][]byte
	err     error
}

func newMockBlobStorage() *mockBlobStorage {
	return &mockBlobStorage{objects: make(map[string][]byte)}
}

func (m *mockBlobStorage) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	m.objects[key] = buf.Bytes()
	return "/static/" + strings.TrimPrefix(key, "/"), nil
}
