package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/thriftedhq/thrifted/internal/common"
)

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrorInvalidArgument)
	}
	return nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Handle   string `json:"handle"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if _, err := s.users.Signup(r.Context(), req.Username, req.Handle, req.Email, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HandleOrEmail string `json:"handleOrEmail"`
		Password      string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.HandleOrEmail == "" || req.Password == "" {
		s.writeError(w, r, fmt.Errorf("%w: missing handle/email or password", common.ErrorInvalidArgument))
		return
	}

	token, user, err := s.users.Login(r.Context(), clientSource(r), req.HandleOrEmail, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.setSessionCookie(w, r, token, int(s.sessionTTL.Seconds()))
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Login successful",
		"handle":   user.Handle,
		"username": user.Username,
		"isAdmin":  user.IsAdmin,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := tokenFrom(r.Context()); token != "" {
		if err := s.users.Logout(r.Context(), token); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	s.setSessionCookie(w, r, "", -1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// handleMe reports the logged-in account, re-read from the credential store
// so the response reflects profile edits made since login. Anonymous
// requests get {loggedIn:false} with 200, not 401.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r.Context())
	if snap == nil {
		writeJSON(w, http.StatusOK, map[string]any{"loggedIn": false})
		return
	}

	user, err := s.users.GetByHandle(r.Context(), snap.Handle)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"loggedIn": false})
			return
		}
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"loggedIn": true,
		"user":     toUserJSON(user),
	})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Email == "" {
		s.writeError(w, r, fmt.Errorf("%w: email is required", common.ErrorInvalidArgument))
		return
	}

	if err := s.users.ForgotPassword(r.Context(), req.Email); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset email sent"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		s.writeError(w, r, fmt.Errorf("%w: token and new password are required", common.ErrorInvalidArgument))
		return
	}

	if err := s.users.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset successfully"})
}
