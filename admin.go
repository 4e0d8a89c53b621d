package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

var (
	errAdminNotFound   = errors.New("Admin not found")
	errInvalidPassword = errors.New("Invalid password")
)

type AdminLoginResponse struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}

func (s *APIServer) HandleAdminLogin(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &StatusError{Err: err, Status: http.StatusBadRequest}
	}

	admin, err := s.store.GetAdminByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &StatusError{Err: errBadCredentials, Status: http.StatusUnauthorized}
		}

		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return &StatusError{Err: errBadCredentials, Status: http.StatusUnauthorized}
	}

	// Admin-ness lives only in the issued claim set; the admins table itself
	// is what makes the claim true at login time.
	token, err := s.tokens.Issue(admin.ID, admin.Email, true)
	if err != nil {
		return err
	}

	return writeJSON(w, AdminLoginResponse{Token: token, Admin: admin})
}

func (s *APIServer) HandleAddAdmin(claims *Claims, w http.ResponseWriter, r *http.Request) error {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &StatusError{Err: err, Status: http.StatusBadRequest}
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return &StatusError{Err: errMissingFields, Status: http.StatusBadRequest}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return err
	}

	admin, err := s.store.CreateAdmin(r.Context(), req.Name, req.Email, string(hash))
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return &StatusError{Err: errEmailRegistered, Status: http.StatusBadRequest}
		}

		return err
	}

	s.publish(r, RKAdminCreated, AdminCreatedEvent{
		Name:    admin.Name,
		Email:   admin.Email,
		AddedBy: claims.Email,
	})

	return writeJSONStatus(w, http.StatusCreated, map[string]string{"message": "Admin added successfully"})
}

func (s *APIServer) HandleAdminPhotos(_ *Claims, w http.ResponseWriter, r *http.Request) error {
	photos, err := s.store.GetAllPhotos(r.Context())
	if err != nil {
		return err
	}
	if photos == nil {
		photos = []Photo{}
	}

	return writeJSON(w, photos)
}

func (s *APIServer) HandleAdminUsers(_ *Claims, w http.ResponseWriter, r *http.Request) error {
	users, err := s.store.GetAllUsers(r.Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []User{}
	}

	return writeJSON(w, users)
}

func (s *APIServer) HandleAdminContacts(_ *Claims, w http.ResponseWriter, r *http.Request) error {
	contacts, err := s.store.GetAllContacts(r.Context())
	if err != nil {
		return err
	}
	if contacts == nil {
		contacts = []Contact{}
	}

	return writeJSON(w, contacts)
}

type ModerationResponse struct {
	Message string `json:"message"`
	Status  bool   `json:"status"`
}

func (s *APIServer) HandleApprovePhoto(claims *Claims, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	photo, err := s.store.TogglePhotoApproval(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &StatusError{Err: errPhotoNotFound, Status: http.StatusNotFound}
		}

		return err
	}

	message := "Photo rejected"
	key := RKPhotoRejected
	if photo.Approved {
		message = "Photo approved"
		key = RKPhotoApproved
	}

	s.publish(r, key, PhotoModeratedEvent{PhotoID: photo.ID, Name: photo.Name, Admin: claims.Email})

	return writeJSON(w, ModerationResponse{Message: message, Status: photo.Approved})
}

func (s *APIServer) HandleRejectPhoto(claims *Claims, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	photo, err := s.store.SetPhotoApproval(r.Context(), id, false)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &StatusError{Err: errPhotoNotFound, Status: http.StatusNotFound}
		}

		return err
	}

	s.publish(r, RKPhotoRejected, PhotoModeratedEvent{PhotoID: photo.ID, Name: photo.Name, Admin: claims.Email})

	return writeJSON(w, map[string]string{"message": "Photo rejected successfully"})
}

func (s *APIServer) HandleBestPhoto(claims *Claims, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	photo, err := s.store.SetBestPhoto(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &StatusError{Err: errPhotoNotFound, Status: http.StatusNotFound}
		}

		return err
	}

	s.publish(r, RKPhotoBest, PhotoModeratedEvent{PhotoID: photo.ID, Name: photo.Name, Admin: claims.Email})

	return writeJSON(w, map[string]string{"message": "Photo marked as best successfully"})
}

func (s *APIServer) HandleAdminDeletePhoto(claims *Claims, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	photo, err := s.store.GetPhotoByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &StatusError{Err: errPhotoNotFound, Status: http.StatusNotFound}
		}

		return err
	}

	if err := s.store.DeletePhoto(r.Context(), id); err != nil {
		return err
	}

	s.removeFile(photo.ImagePath)

	s.publish(r, RKPhotoDeleted, PhotoModeratedEvent{PhotoID: photo.ID, Name: photo.Name, Admin: claims.Email})

	return writeJSON(w, map[string]string{"message": "Photo deleted successfully"})
}

type ChangePasswordRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

func (s *APIServer) HandleChangePassword(claims *Claims, w http.ResponseWriter, r *http.Request) error {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &StatusError{Err: err, Status: http.StatusBadRequest}
	}

	admin, err := s.store.GetAdminByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &StatusError{Err: errAdminNotFound, Status: http.StatusNotFound}
		}

		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return &StatusError{Err: errInvalidPassword, Status: http.StatusUnauthorized}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return err
	}

	if err := s.store.UpdateAdminPassword(r.Context(), admin.ID, string(hash)); err != nil {
		return err
	}

	s.publish(r, RKAdminPasswordChanged, AdminPasswordChangedEvent{AdminID: admin.ID, Email: admin.Email})

	return writeJSON(w, map[string]string{"message": "Password changed successfully"})
}
