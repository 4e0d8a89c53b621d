package main

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
)

type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

type Admin struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

type Photo struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Name        string `json:"name"`
	Place       string `json:"place"`
	SpeciesType string `json:"species_type"`
	Scenic      string `json:"scenic"`
	Length      string `json:"length"`
	Weight      string `json:"weight"`
	Lure        string `json:"lure"`
	Awards      string `json:"awards"`
	ImagePath   string `json:"-"`
	PhotoURL    string `json:"photo_url"`
	UserID      int64  `json:"user_id"`
	Approved    bool   `json:"approved"`
	BestPhoto   bool   `json:"best_photo"`
}

type Contact struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	Address   string    `json:"address"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistence boundary. PostgreSQLDatabase is the production
// implementation; tests plug in an in-memory one.
type Store interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetAllUsers(ctx context.Context) ([]User, error)

	CreateAdmin(ctx context.Context, name, email, passwordHash string) (Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (Admin, error)
	GetAdminByID(ctx context.Context, id int64) (Admin, error)
	UpdateAdminPassword(ctx context.Context, id int64, passwordHash string) error

	CreatePhoto(ctx context.Context, p Photo) (Photo, error)
	GetPhotoByID(ctx context.Context, id int64) (Photo, error)
	GetAllPhotos(ctx context.Context) ([]Photo, error)
	UpdatePhoto(ctx context.Context, p Photo) (Photo, error)
	SetPhotoApproval(ctx context.Context, id int64, approved bool) (Photo, error)
	TogglePhotoApproval(ctx context.Context, id int64) (Photo, error)
	SetBestPhoto(ctx context.Context, id int64) (Photo, error)
	DeletePhoto(ctx context.Context, id int64) error

	CreateContact(ctx context.Context, c Contact) (Contact, error)
	GetAllContacts(ctx context.Context) ([]Contact, error)
}
