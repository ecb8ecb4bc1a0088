package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"gtodo/internal/service"
	"gtodo/internal/store"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(v)
}

// fail maps repository errors to a response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.log.Error(err, "request failed", "method", r.Method, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) handleListTodoLists(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		userID = id.Subject
	}
	if !id.owns(userID) {
		writeError(w, http.StatusForbidden, "userId does not match token")
		return
	}

	lists, err := s.cfg.Repo.ListTodoLists(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) handleCreateTodoList(w http.ResponseWriter, r *http.Request) {
	var in service.TodoList
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	id := identityFrom(r.Context())
	if in.UserID == "" {
		in.UserID = id.Subject
	}
	if !id.owns(in.UserID) {
		writeError(w, http.StatusForbidden, "userId does not match token")
		return
	}

	created, err := s.cfg.Repo.CreateTodoList(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ownedList loads a list and checks the caller may use it.
func (s *Server) ownedList(w http.ResponseWriter, r *http.Request, listID string) (service.TodoList, bool) {
	list, err := s.cfg.Repo.GetTodoList(r.Context(), listID)
	if err != nil {
		s.fail(w, r, err)
		return service.TodoList{}, false
	}
	if !identityFrom(r.Context()).owns(list.UserID) {
		writeError(w, http.StatusForbidden, "list belongs to another user")
		return service.TodoList{}, false
	}
	return list, true
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	listID := strings.TrimSpace(r.URL.Query().Get("listId"))
	if listID == "" {
		writeError(w, http.StatusBadRequest, "listId is required")
		return
	}
	if _, ok := s.ownedList(w, r, listID); !ok {
		return
	}

	todos, err := s.cfg.Repo.ListTodos(r.Context(), listID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var in service.Todo
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if _, ok := s.ownedList(w, r, in.ListID); !ok {
		return
	}

	created, err := s.cfg.Repo.CreateTodo(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ownedTodo loads a todo by path ID and checks the caller owns its list.
func (s *Server) ownedTodo(w http.ResponseWriter, r *http.Request) (service.Todo, bool) {
	existing, err := s.cfg.Repo.GetTodo(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return service.Todo{}, false
	}
	if _, ok := s.ownedList(w, r, existing.ListID); !ok {
		return service.Todo{}, false
	}
	return existing, true
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	var in service.Todo
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	existing, ok := s.ownedTodo(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	in.ID = existing.ID
	in.ListID = existing.ListID
	updated, err := s.cfg.Repo.UpdateTodo(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedTodo(w, r)
	if !ok {
		return
	}
	if err := s.cfg.Repo.DeleteTodo(r.Context(), existing.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
