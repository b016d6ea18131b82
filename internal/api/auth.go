package api

import (
	"net/http"
	"strings"

	"github.com/go-faster/errors"

	"github.com/olxer/electroshop-api/internal/auth"
	"github.com/olxer/electroshop-api/internal/domain/user"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// authResponse is returned by both register and login.
type authResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}
	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	u := &user.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		RoleID:       user.RoleCustomer,
	}
	if err := h.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			respondError(w, http.StatusBadRequest, "email or username already taken")
			return
		}
		respondInternal(w, r, err)
		return
	}

	h.issueToken(w, r, u, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Login == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "login and password are required")
		return
	}

	u, err := h.users.GetByLogin(r.Context(), req.Login)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
		respondError(w, http.StatusUnauthorized, "wrong password")
		return
	}

	h.issueToken(w, r, u, http.StatusOK)
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request, u *user.User, status int) {
	token, err := h.tokens.Issue(auth.Identity{UserID: u.ID, Email: u.Email, RoleID: u.RoleID})
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, status, authResponse{Token: token, User: u})
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var role user.Role
	if !decodeJSON(w, r, &role) {
		return
	}
	if role.ID <= 0 || role.Name == "" {
		respondError(w, http.StatusBadRequest, "role id and name are required")
		return
	}
	if err := h.users.CreateRole(r.Context(), &role); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, role)
}
