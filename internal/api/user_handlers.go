package api

import (
	"net/http"

	"parkwise/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := identityFrom(w, r)
	if !ok {
		return
	}
	page := pageFromQuery(r)
	users, total, err := h.users.ListUsers(r.Context(), actor, page)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, newListResponse(items, total, page.Page, page.Limit))
}
