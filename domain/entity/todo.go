package entity

import (
	"time"
)

type Todo struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	IsComplete bool      `json:"isComplete"`
	UserID     string    `json:"userID"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewTodo(id, userID, title, text string) *Todo {
	now := time.Now().UTC()
	return &Todo{
		ID:        id,
		Title:     title,
		Text:      text,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OwnedBy reports whether userID owns the todo.
func (t *Todo) OwnedBy(userID string) bool {
	return t.UserID == userID
}
