package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tasknest/tasknest/application/port/inbound"
	"github.com/tasknest/tasknest/infrastructure/http/middleware"
	"github.com/tasknest/tasknest/infrastructure/http/response"
	"github.com/tasknest/tasknest/infrastructure/http/validator"
)

// TodoHandler serves the todo routes. Every route sits behind RequireAuth.
type TodoHandler struct {
	todoUseCase inbound.TodoUseCase
}

func NewTodoHandler(todoUseCase inbound.TodoUseCase) *TodoHandler {
	return &TodoHandler{todoUseCase: todoUseCase}
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req inbound.CreateTodoRequest
	if err := validator.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	todo, err := h.todoUseCase.Create(r.Context(), userID, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, todo)
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	result, err := h.todoUseCase.List(r.Context(), userID, inbound.ListTodosRequest{
		Page:       q.Get("page"),
		Limit:      q.Get("limit"),
		Title:      q.Get("title"),
		Text:       q.Get("text"),
		IsComplete: q.Get("isComplete"),
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, result)
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	todo, err := h.todoUseCase.Get(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, todo)
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req inbound.UpdateTodoRequest
	if err := validator.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	todo, err := h.todoUseCase.Update(r.Context(), userID, mux.Vars(r)["id"], req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, todo)
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.todoUseCase.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// callerID reads the authenticated user placed in the context by RequireAuth.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims := middleware.GetUserClaims(r.Context())
	if claims == nil || claims.UserID == "" {
		response.Unauthorized(w)
		return "", false
	}
	return claims.UserID, true
}
