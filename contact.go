package main

import (
	"encoding/json"
	"errors"
	"net/http"
)

var errContactFields = errors.New("First name, email, and message are required!")

type ContactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
	Address   string `json:"address"`
	Message   string `json:"message"`
}

func (s *APIServer) HandleSubmitContact(w http.ResponseWriter, r *http.Request) error {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &StatusError{Err: err, Status: http.StatusBadRequest}
	}

	if req.FirstName == "" || req.Email == "" || req.Message == "" {
		return &StatusError{Err: errContactFields, Status: http.StatusBadRequest}
	}

	contact := Contact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Mobile:    req.Mobile,
		Address:   req.Address,
		Message:   req.Message,
	}

	if _, err := s.store.CreateContact(r.Context(), contact); err != nil {
		return err
	}

	return writeJSONStatus(w, http.StatusCreated, map[string]string{"message": "Contact form submitted successfully!"})
}
