package main

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

var (
	errPhotoRequired = errors.New("Photo is required")
	errPhotoNotFound = errors.New("Photo not found")
)

// photoFields are the scalar multipart fields accepted on upload and update.
var photoFields = []string{
	"description", "name", "place", "species_type",
	"scenic", "length", "weight", "lure", "awards",
}

func (s *APIServer) HandleGetAllPhotos(w http.ResponseWriter, r *http.Request) error {
	photos, err := s.store.GetAllPhotos(r.Context())
	if err != nil {
		return err
	}
	if photos == nil {
		photos = []Photo{}
	}

	return writeJSON(w, photos)
}

func (s *APIServer) HandleGetPhoto(w http.ResponseWriter, r *http.Request) error {
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

	return writeJSON(w, photo)
}

type PhotoUploadResponse struct {
	Message  string `json:"message"`
	PhotoURL string `json:"photoUrl"`
}

func (s *APIServer) HandleUploadPhoto(claims *Claims, w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		return &StatusError{Err: err, Status: http.StatusBadRequest}
	}

	formFile, header, err := r.FormFile("photo")
	if err != nil {
		return &StatusError{Err: errPhotoRequired, Status: http.StatusBadRequest}
	}
	defer formFile.Close()

	imagePath, photoURL, err := s.saveUpload(formFile, header.Filename)
	if err != nil {
		return err
	}

	photo := Photo{
		Description: r.FormValue("description"),
		Name:        r.FormValue("name"),
		Place:       r.FormValue("place"),
		SpeciesType: r.FormValue("species_type"),
		Scenic:      r.FormValue("scenic"),
		Length:      r.FormValue("length"),
		Weight:      r.FormValue("weight"),
		Lure:        r.FormValue("lure"),
		Awards:      r.FormValue("awards"),
		ImagePath:   imagePath,
		PhotoURL:    photoURL,
		UserID:      claims.UserID,
	}

	if _, err := s.store.CreatePhoto(r.Context(), photo); err != nil {
		s.removeFile(imagePath)
		return err
	}

	return writeJSONStatus(w, http.StatusCreated, PhotoUploadResponse{
		Message:  "Photo uploaded successfully",
		PhotoURL: photoURL,
	})
}

func (s *APIServer) HandleUpdatePhoto(claims *Claims, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		return &StatusError{Err: err, Status: http.StatusBadRequest}
	}

	photo, err := s.store.GetPhotoByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &StatusError{Err: errPhotoNotFound, Status: http.StatusNotFound}
		}

		return err
	}

	if photo.UserID != claims.UserID {
		return &StatusError{Err: ErrNotPhotoOwner, Status: http.StatusForbidden}
	}

	// Absent fields keep their stored values; only what the form carries is
	// replaced.
	for _, field := range photoFields {
		values, ok := r.MultipartForm.Value[field]
		if !ok || len(values) == 0 {
			continue
		}

		switch field {
		case "description":
			photo.Description = values[0]
		case "name":
			photo.Name = values[0]
		case "place":
			photo.Place = values[0]
		case "species_type":
			photo.SpeciesType = values[0]
		case "scenic":
			photo.Scenic = values[0]
		case "length":
			photo.Length = values[0]
		case "weight":
			photo.Weight = values[0]
		case "lure":
			photo.Lure = values[0]
		case "awards":
			photo.Awards = values[0]
		}
	}

	oldImagePath := ""
	if formFile, header, err := r.FormFile("photo"); err == nil {
		defer formFile.Close()

		imagePath, photoURL, err := s.saveUpload(formFile, header.Filename)
		if err != nil {
			return err
		}

		oldImagePath = photo.ImagePath
		photo.ImagePath = imagePath
		photo.PhotoURL = photoURL
	}

	updated, err := s.store.UpdatePhoto(r.Context(), photo)
	if err != nil {
		return err
	}

	if oldImagePath != "" {
		s.removeFile(oldImagePath)
	}

	return writeJSON(w, PhotoUploadResponse{
		Message:  "Photo updated successfully",
		PhotoURL: updated.PhotoURL,
	})
}

func (s *APIServer) HandleDeletePhoto(claims *Claims, w http.ResponseWriter, r *http.Request) error {
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

	if photo.UserID != claims.UserID {
		return &StatusError{Err: ErrNotPhotoOwner, Status: http.StatusForbidden}
	}

	if err := s.store.DeletePhoto(r.Context(), id); err != nil {
		return err
	}

	s.removeFile(photo.ImagePath)

	return writeJSON(w, map[string]string{"message": "Photo deleted successfully"})
}

// saveUpload spools the multipart file to the upload directory under a
// collision-resistant name and returns the storage path plus the public URL.
func (s *APIServer) saveUpload(formFile multipart.File, originalName string) (imagePath, photoURL string, err error) {
	filename := uuid.NewString() + filepath.Ext(originalName)
	imagePath = filepath.Join(s.cfg.UploadDir, filename)

	f, err := createFile(imagePath)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, formFile); err != nil {
		return "", "", err
	}

	slog.Debug("Saved a file", "filename", filename)

	return imagePath, "/uploads/" + filename, nil
}

// removeFile is best-effort cleanup; a leftover file never fails the request.
func (s *APIServer) removeFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil {
		slog.Warn("Failed to delete photo file", "path", path, "error", err)
	}
}

func createFile(p string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(p), 0o770); err != nil {
		return nil, err
	}

	return os.Create(p)
}
