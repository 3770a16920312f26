package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"MiniShop/internal/auth"
	"MiniShop/internal/user"
	"MiniShop/pkg/kit"
)

type registerReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteMessage(w, r, http.StatusBadRequest, "bad json")
		return
	}

	if req.Username == "" || req.Password == "" {
		kit.WriteMessage(w, r, http.StatusBadRequest, "username and password are required")
		return
	}
	if req.Role == "" {
		req.Role = user.RoleUser
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.Log.Error("hash password", zap.Error(err))
		kit.WriteMessage(w, r, http.StatusInternalServerError, "server error")
		return
	}

	if _, err := s.Users.Create(req.Username, hash, req.Role); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			// Duplicate usernames report 400, not 409.
			kit.WriteMessage(w, r, http.StatusBadRequest, "user already exists")
			return
		}
		s.Log.Error("create user", zap.Error(err))
		kit.WriteMessage(w, r, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteMessage(w, r, http.StatusCreated, "user created")
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Role    string `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteMessage(w, r, http.StatusBadRequest, "bad json")
		return
	}

	// Missing credentials are an authentication failure here, not a 400.
	if req.Username == "" || req.Password == "" {
		kit.WriteMessage(w, r, http.StatusUnauthorized, "username and password are required")
		return
	}

	u, err := s.Users.GetByUsername(req.Username)
	if err != nil {
		kit.WriteMessage(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		kit.WriteMessage(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.JWT.Issue(u.ID, u.Role)
	if err != nil {
		s.Log.Error("issue token", zap.Error(err))
		kit.WriteMessage(w, r, http.StatusInternalServerError, "server error")
		return
	}

	kit.WriteJSON(w, http.StatusOK, loginResp{
		Message: "login successful",
		Token:   token,
		Role:    u.Role,
	})
}
