package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

var (
	errMissingFields   = errors.New("All fields are required")
	errBadCredentials  = errors.New("Invalid email or password")
	errEmailRegistered = errors.New("Email already registered")
	errUserNotFound    = errors.New("User not found")
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *APIServer) HandleRegister(w http.ResponseWriter, r *http.Request) error {
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

	if _, err := s.store.CreateUser(r.Context(), req.Name, req.Email, string(hash)); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return &StatusError{Err: errEmailRegistered, Status: http.StatusBadRequest}
		}

		return err
	}

	return writeJSONStatus(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (s *APIServer) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &StatusError{Err: err, Status: http.StatusBadRequest}
	}

	if req.Email == "" || req.Password == "" {
		return &StatusError{Err: errMissingFields, Status: http.StatusBadRequest}
	}

	// Unknown email and wrong password answer identically so the endpoint
	// cannot be used to probe which addresses are registered.
	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &StatusError{Err: errBadCredentials, Status: http.StatusUnauthorized}
		}

		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return &StatusError{Err: errBadCredentials, Status: http.StatusUnauthorized}
	}

	token, err := s.tokens.Issue(user.ID, user.Email, false)
	if err != nil {
		return err
	}

	return writeJSON(w, LoginResponse{Token: token, User: user})
}

func (s *APIServer) HandleProfile(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	user, err := s.store.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &StatusError{Err: errUserNotFound, Status: http.StatusNotFound}
		}

		return err
	}

	return writeJSON(w, user)
}
