package api

import (
	"net/http"

	"taskhub/internal/domain"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.error(w, err)
		return
	}

	user, err := h.Auth.Register(r.Context(), &domain.CreateUserRequest{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		h.error(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.error(w, err)
		return
	}

	result, err := h.Auth.Login(r.Context(), &domain.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.error(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, loginResponse{
		Token:     result.Token,
		TokenType: result.TokenType,
		User:      toUserResponse(result.User),
	})
}
