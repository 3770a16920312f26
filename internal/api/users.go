package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"MiniShop/internal/auth"
	"MiniShop/internal/authz"
	"MiniShop/internal/user"
	"MiniShop/pkg/kit"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users := s.Users.List()

	out := make([]user.Public, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFromContext(r.Context())

	id, ok := urlID(r)
	if !ok {
		kit.WriteMessage(w, r, http.StatusNotFound, "user not found")
		return
	}
	if !authz.CanReadUser(caller, id) {
		kit.WriteMessage(w, r, http.StatusForbidden, "access denied")
		return
	}

	u, err := s.Users.GetByID(id)
	if err != nil {
		kit.WriteMessage(w, r, http.StatusNotFound, "user not found")
		return
	}
	kit.WriteJSON(w, http.StatusOK, u.Public())
}

type updateUserReq struct {
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.CallerFromContext(r.Context())

	id, ok := urlID(r)
	if !ok {
		kit.WriteMessage(w, r, http.StatusNotFound, "user not found")
		return
	}
	if !authz.CanUpdateUser(caller, id) {
		kit.WriteMessage(w, r, http.StatusForbidden, "access denied")
		return
	}

	var req updateUserReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteMessage(w, r, http.StatusBadRequest, "bad json")
		return
	}

	var newHash string
	if req.Password != nil && *req.Password != "" {
		h, err := auth.HashPassword(*req.Password)
		if err != nil {
			s.Log.Error("hash password", zap.Error(err))
			kit.WriteMessage(w, r, http.StatusInternalServerError, "server error")
			return
		}
		newHash = h
	}

	// A role field from a non-admin is dropped without complaint: the
	// request still succeeds with the role untouched.
	applyRole := req.Role != nil && *req.Role != "" && authz.CanSetRole(caller)

	err := s.Users.Update(id, func(u *user.User) {
		if newHash != "" {
			u.PasswordHash = newHash
		}
		if applyRole {
			u.Role = *req.Role
		}
	})
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			kit.WriteMessage(w, r, http.StatusNotFound, "user not found")
			return
		}
		s.Log.Error("update user", zap.Error(err), zap.Int("user_id", id))
		kit.WriteMessage(w, r, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteMessage(w, r, http.StatusOK, "user updated")
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		kit.WriteMessage(w, r, http.StatusNotFound, "user not found")
		return
	}

	if err := s.Users.Delete(id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			kit.WriteMessage(w, r, http.StatusNotFound, "user not found")
			return
		}
		s.Log.Error("delete user", zap.Error(err), zap.Int("user_id", id))
		kit.WriteMessage(w, r, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteMessage(w, r, http.StatusOK, "user deleted")
}
