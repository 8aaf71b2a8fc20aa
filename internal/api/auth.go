package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sells-group/contract-costs/internal/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.Store.Ping(ctx); err != nil {
		s.log.Warn("health check: database unreachable")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "database": "ok"})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin accepts JSON or an OAuth2 password form.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	} else if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.NewUser
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.Auth.Register(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionCreate, model.Ref(model.EntityUser, u.ID), nil, u, "user registered")
	writeJSON(w, http.StatusCreated, u)
}
