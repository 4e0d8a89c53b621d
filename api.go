package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/exp/slog"
)

var (
	ErrAccessDenied  = errors.New("Access denied")
	ErrInvalidToken  = errors.New("Invalid or expired token")
	ErrNotAdmin      = errors.New("Not authorized as admin")
	ErrNotPhotoOwner = errors.New("Forbidden: you do not own this photo")
)

const MaxUploadSize = 50 << 20 // 50MB

type APIServer struct {
	cfg    Config
	store  Store
	tokens *TokenService
	events Publisher
}

func NewAPIServer(cfg Config, store Store, tokens *TokenService, events Publisher) *APIServer {
	return &APIServer{
		cfg:    cfg,
		store:  store,
		tokens: tokens,
		events: events,
	}
}

type APIFunc func(w http.ResponseWriter, r *http.Request) error

type StatusError struct {
	Err    error
	Status int
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return http.StatusText(e.Status)
}

func (e *StatusError) Unwrap() error { return e.Err }

func makeHandler(f APIFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}

		var statusError *StatusError
		if errors.As(err, &statusError) {
			slog.Error("Request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", statusError.Status,
				"error", statusError.Err,
			)

			if statusError.Err != nil {
				writeJSONStatus(w, statusError.Status, map[string]string{"message": statusError.Err.Error()})
			} else {
				http.Error(w, http.StatusText(statusError.Status), statusError.Status)
			}

			return
		}

		// Anything unmapped is an internal failure; the detail stays in the log.
		slog.Error("Internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSONStatus(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	return json.NewEncoder(w).Encode(v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(v)
}

type APIAuthFunc func(claims *Claims, w http.ResponseWriter, r *http.Request) error

// authMiddleware gates a route behind a verified bearer token. A missing or
// malformed Authorization header is rejected before any verification is
// attempted; a token that fails verification is a 403, matching the split
// the admin variant uses as well.
func (s *APIServer) authMiddleware(f APIAuthFunc) APIFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			return &StatusError{Err: ErrAccessDenied, Status: http.StatusUnauthorized}
		}

		claims, err := s.tokens.Verify(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			return &StatusError{Err: ErrInvalidToken, Status: http.StatusForbidden}
		}

		return f(claims, w, r)
	}
}

func (s *APIServer) adminMiddleware(f APIAuthFunc) APIFunc {
	return s.authMiddleware(func(claims *Claims, w http.ResponseWriter, r *http.Request) error {
		if !claims.IsAdmin {
			return &StatusError{Err: ErrNotAdmin, Status: http.StatusForbidden}
		}

		return f(claims, w, r)
	})
}

func (s *APIServer) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/users/register", makeHandler(s.HandleRegister)).Methods(http.MethodPost)
	r.HandleFunc("/users/login", makeHandler(s.HandleLogin)).Methods(http.MethodPost)
	r.HandleFunc("/users/profile/{id}", makeHandler(s.HandleProfile)).Methods(http.MethodGet)

	r.HandleFunc("/photos", makeHandler(s.HandleGetAllPhotos)).Methods(http.MethodGet)
	r.HandleFunc("/photos/upload", makeHandler(s.authMiddleware(s.HandleUploadPhoto))).Methods(http.MethodPost)
	r.HandleFunc("/photos/{id}", makeHandler(s.HandleGetPhoto)).Methods(http.MethodGet)
	r.HandleFunc("/photos/{id}", makeHandler(s.authMiddleware(s.HandleUpdatePhoto))).Methods(http.MethodPut)
	r.HandleFunc("/photos/{id}", makeHandler(s.authMiddleware(s.HandleDeletePhoto))).Methods(http.MethodDelete)

	r.HandleFunc("/admin/login", makeHandler(s.HandleAdminLogin)).Methods(http.MethodPost)
	r.HandleFunc("/admin/add", makeHandler(s.adminMiddleware(s.HandleAddAdmin))).Methods(http.MethodPost)
	r.HandleFunc("/admin/photos", makeHandler(s.adminMiddleware(s.HandleAdminPhotos))).Methods(http.MethodGet)
	r.HandleFunc("/admin/users", makeHandler(s.adminMiddleware(s.HandleAdminUsers))).Methods(http.MethodGet)
	r.HandleFunc("/admin/contact", makeHandler(s.adminMiddleware(s.HandleAdminContacts))).Methods(http.MethodGet)
	r.HandleFunc("/admin/approve/{id}", makeHandler(s.adminMiddleware(s.HandleApprovePhoto))).Methods(http.MethodPut)
	r.HandleFunc("/admin/reject/{id}", makeHandler(s.adminMiddleware(s.HandleRejectPhoto))).Methods(http.MethodPut)
	r.HandleFunc("/admin/best/{id}", makeHandler(s.adminMiddleware(s.HandleBestPhoto))).Methods(http.MethodPut)
	r.HandleFunc("/admin/delete/{id}", makeHandler(s.adminMiddleware(s.HandleAdminDeletePhoto))).Methods(http.MethodDelete)
	r.HandleFunc("/admin/change-password", makeHandler(s.adminMiddleware(s.HandleChangePassword))).Methods(http.MethodPut)

	r.HandleFunc("/contact", makeHandler(s.HandleSubmitContact)).Methods(http.MethodPost)

	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.cfg.UploadDir))))

	return r
}

func (s *APIServer) Run() error {
	srv := http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.Router(),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	slog.Info("Starting the server", "listen_addr", s.cfg.ListenAddr())

	return srv.ListenAndServe()
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, &StatusError{Err: errors.New("Invalid id"), Status: http.StatusBadRequest}
	}

	return id, nil
}

// publish is best-effort: a broker failure is logged and never turns a
// committed mutation into an error response.
func (s *APIServer) publish(r *http.Request, key string, event any) {
	if err := s.events.Publish(r.Context(), key, event); err != nil {
		slog.Error("Failed to publish event", "routing_key", key, "error", err)
	}
}
