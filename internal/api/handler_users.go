package api

import (
	"net/http"

	"taskhub/internal/domain"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromRequest(r)
	if err != nil {
		h.error(w, err)
		return
	}

	users, total, err := h.Users.List(r.Context(), page)
	if err != nil {
		h.error(w, err)
		return
	}

	items := make([]userResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}
	h.writeJSON(w, http.StatusOK, userListResponse{Items: items, Total: total})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.error(w, err)
		return
	}

	user, err := h.Users.Create(r.Context(), &domain.CreateUserRequest{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		IsAdmin:     req.IsAdmin,
	})
	if err != nil {
		h.error(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.error(w, err)
		return
	}

	user, err := h.Users.Get(r.Context(), id)
	if err != nil {
		h.error(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.error(w, err)
		return
	}

	var req updateUserRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.error(w, err)
		return
	}

	user, err := h.Users.Update(r.Context(), id, req.toDomain())
	if err != nil {
		h.error(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.error(w, err)
		return
	}

	if err := h.Users.Delete(r.Context(), id); err != nil {
		h.error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
