package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/thriftedhq/thrifted/internal/server/repositories/users"
)

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetByHandle(r.Context(), mux.Vars(r)["handle"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUserJSON{
		Username:          user.Username,
		Handle:            user.Handle,
		ProfilePictureURL: user.ProfilePictureURL,
		CoverPhotoURL:     user.CoverPhotoURL,
		Bio:               user.Bio,
	})
}

// handleProfileUpload accepts a multipart form with optional profilePicture
// and coverPhoto files plus an optional bio field. Only the fields present
// in the form are touched.
func (s *Server) handleProfileUpload(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, r, err)
		return
	}

	var update users.ProfileUpdate

	for field, target := range map[string]**string{
		"profilePicture": &update.ProfilePictureURL,
		"coverPhoto":     &update.CoverPhotoURL,
	} {
		file, header, err := r.FormFile(field)
		if err != nil {
			continue
		}
		url, err := s.files.Save(r.Context(), header.Filename,
			header.Header.Get("Content-Type"), file)
		file.Close()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		*target = &url
	}

	if values, ok := r.MultipartForm.Value["bio"]; ok && len(values) > 0 {
		update.Bio = &values[0]
	}

	user, err := s.users.UpdateProfile(r.Context(), snap.Handle, update)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":           "Profile updated successfully",
		"profilePictureUrl": user.ProfilePictureURL,
		"coverPhotoUrl":     user.CoverPhotoURL,
		"bio":               user.Bio,
	})
}

func (s *Server) handleClearProfileImages(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r.Context())

	empty := ""
	_, err := s.users.UpdateProfile(r.Context(), snap.Handle, users.ProfileUpdate{
		ProfilePictureURL: &empty,
		CoverPhotoURL:     &empty,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile and cover images cleared successfully"})
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	all, err := s.users.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result := make([]adminUserJSON, 0, len(all))
	for _, u := range all {
		result = append(result, adminUserJSON{
			Username: u.Username,
			Handle:   u.Handle,
			Email:    u.Email,
			IsAdmin:  u.IsAdmin,
		})
	}
	writeJSON(w, http.StatusOK, result)
}
