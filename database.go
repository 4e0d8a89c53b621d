package main

import (
	"context"
	"database/sql"
	"errors"

	_ "embed"

	"github.com/lib/pq"
	"golang.org/x/exp/slog"
)

//go:embed schema.sql
var schema string

const pgUniqueViolation = "23505"

type PostgreSQLDatabase struct {
	db *sql.DB
}

func NewPostgreSQLDatabase(databaseURL string) (*PostgreSQLDatabase, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	pg := &PostgreSQLDatabase{db: db}
	if err := pg.db.Ping(); err != nil {
		return nil, err
	}

	slog.Debug("Database pinged")

	if _, err := pg.db.ExecContext(context.Background(), schema); err != nil {
		return nil, err
	}

	return pg, nil
}

func (pg *PostgreSQLDatabase) Close() error {
	return pg.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}

func (pg *PostgreSQLDatabase) CreateUser(ctx context.Context, name, email, passwordHash string) (User, error) {
	const createUser = `
	INSERT INTO users (name, email, password_hash)
	VALUES($1, $2, $3)
	RETURNING id, name, email, password_hash
	`

	row := pg.db.QueryRowContext(ctx, createUser, name, email, passwordHash)

	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if isUniqueViolation(err) {
		return User{}, ErrEmailTaken
	}

	return u, err
}

func (pg *PostgreSQLDatabase) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const getUserByEmail = `
	SELECT id, name, email, password_hash
	FROM users
	WHERE email = $1
	`

	row := pg.db.QueryRowContext(ctx, getUserByEmail, email)

	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}

	return u, err
}

func (pg *PostgreSQLDatabase) GetUserByID(ctx context.Context, id int64) (User, error) {
	const getUserByID = `
	SELECT id, name, email, password_hash
	FROM users
	WHERE id = $1
	`

	row := pg.db.QueryRowContext(ctx, getUserByID, id)

	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}

	return u, err
}

func (pg *PostgreSQLDatabase) GetAllUsers(ctx context.Context) ([]User, error) {
	const getAllUsers = `
	SELECT id, name, email, password_hash
	FROM users
	ORDER BY id
	`

	rows, err := pg.db.QueryContext(ctx, getAllUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash); err != nil {
			return nil, err
		}
		items = append(items, u)
	}

	return items, rows.Err()
}

func (pg *PostgreSQLDatabase) CreateAdmin(ctx context.Context, name, email, passwordHash string) (Admin, error) {
	const createAdmin = `
	INSERT INTO admins (name, email, password_hash)
	VALUES($1, $2, $3)
	RETURNING id, name, email, password_hash
	`

	row := pg.db.QueryRowContext(ctx, createAdmin, name, email, passwordHash)

	var a Admin
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash)
	if isUniqueViolation(err) {
		return Admin{}, ErrEmailTaken
	}

	return a, err
}

func (pg *PostgreSQLDatabase) GetAdminByEmail(ctx context.Context, email string) (Admin, error) {
	const getAdminByEmail = `
	SELECT id, name, email, password_hash
	FROM admins
	WHERE email = $1
	`

	row := pg.db.QueryRowContext(ctx, getAdminByEmail, email)

	var a Admin
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, ErrNotFound
	}

	return a, err
}

func (pg *PostgreSQLDatabase) GetAdminByID(ctx context.Context, id int64) (Admin, error) {
	const getAdminByID = `
	SELECT id, name, email, password_hash
	FROM admins
	WHERE id = $1
	`

	row := pg.db.QueryRowContext(ctx, getAdminByID, id)

	var a Admin
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, ErrNotFound
	}

	return a, err
}

func (pg *PostgreSQLDatabase) UpdateAdminPassword(ctx context.Context, id int64, passwordHash string) error {
	const updateAdminPassword = `
	UPDATE admins
	SET password_hash = $1
	WHERE id = $2
	`

	res, err := pg.db.ExecContext(ctx, updateAdminPassword, passwordHash, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

const photoColumns = `
	id,
	description,
	name,
	place,
	species_type,
	scenic,
	length,
	weight,
	lure,
	awards,
	image_path,
	photo_url,
	user_id,
	approved,
	best_photo
`

func scanPhoto(row interface{ Scan(...any) error }) (Photo, error) {
	var p Photo
	err := row.Scan(
		&p.ID,
		&p.Description,
		&p.Name,
		&p.Place,
		&p.SpeciesType,
		&p.Scenic,
		&p.Length,
		&p.Weight,
		&p.Lure,
		&p.Awards,
		&p.ImagePath,
		&p.PhotoURL,
		&p.UserID,
		&p.Approved,
		&p.BestPhoto,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Photo{}, ErrNotFound
	}

	return p, err
}

func (pg *PostgreSQLDatabase) CreatePhoto(ctx context.Context, p Photo) (Photo, error) {
	const createPhoto = `
	INSERT INTO photos (description, name, place, species_type, scenic, length, weight, lure, awards, image_path, photo_url, user_id)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING ` + photoColumns

	row := pg.db.QueryRowContext(ctx, createPhoto,
		p.Description, p.Name, p.Place, p.SpeciesType, p.Scenic,
		p.Length, p.Weight, p.Lure, p.Awards,
		p.ImagePath, p.PhotoURL, p.UserID,
	)

	return scanPhoto(row)
}

func (pg *PostgreSQLDatabase) GetPhotoByID(ctx context.Context, id int64) (Photo, error) {
	const getPhotoByID = `
	SELECT ` + photoColumns + `
	FROM photos
	WHERE id = $1
	`

	return scanPhoto(pg.db.QueryRowContext(ctx, getPhotoByID, id))
}

func (pg *PostgreSQLDatabase) GetAllPhotos(ctx context.Context) ([]Photo, error) {
	const getAllPhotos = `
	SELECT ` + photoColumns + `
	FROM photos
	ORDER BY id
	`

	rows, err := pg.db.QueryContext(ctx, getAllPhotos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}

	return items, rows.Err()
}

func (pg *PostgreSQLDatabase) UpdatePhoto(ctx context.Context, p Photo) (Photo, error) {
	const updatePhoto = `
	UPDATE photos
	SET description = $1, name = $2, place = $3, species_type = $4, scenic = $5,
	    length = $6, weight = $7, lure = $8, awards = $9,
	    image_path = $10, photo_url = $11
	WHERE id = $12
	RETURNING ` + photoColumns

	row := pg.db.QueryRowContext(ctx, updatePhoto,
		p.Description, p.Name, p.Place, p.SpeciesType, p.Scenic,
		p.Length, p.Weight, p.Lure, p.Awards,
		p.ImagePath, p.PhotoURL, p.ID,
	)

	return scanPhoto(row)
}

func (pg *PostgreSQLDatabase) SetPhotoApproval(ctx context.Context, id int64, approved bool) (Photo, error) {
	const setPhotoApproval = `
	UPDATE photos
	SET approved = $1
	WHERE id = $2
	RETURNING ` + photoColumns

	return scanPhoto(pg.db.QueryRowContext(ctx, setPhotoApproval, approved, id))
}

// TogglePhotoApproval flips the flag in a single statement so that concurrent
// toggles on the same photo cannot interleave a stale read with the write.
func (pg *PostgreSQLDatabase) TogglePhotoApproval(ctx context.Context, id int64) (Photo, error) {
	const togglePhotoApproval = `
	UPDATE photos
	SET approved = NOT approved
	WHERE id = $1
	RETURNING ` + photoColumns

	return scanPhoto(pg.db.QueryRowContext(ctx, togglePhotoApproval, id))
}

func (pg *PostgreSQLDatabase) SetBestPhoto(ctx context.Context, id int64) (Photo, error) {
	const setBestPhoto = `
	UPDATE photos
	SET best_photo = TRUE
	WHERE id = $1
	RETURNING ` + photoColumns

	return scanPhoto(pg.db.QueryRowContext(ctx, setBestPhoto, id))
}

func (pg *PostgreSQLDatabase) DeletePhoto(ctx context.Context, id int64) error {
	const deletePhoto = `
	DELETE FROM photos
	WHERE id = $1
	`

	res, err := pg.db.ExecContext(ctx, deletePhoto, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func (pg *PostgreSQLDatabase) CreateContact(ctx context.Context, c Contact) (Contact, error) {
	const createContact = `
	INSERT INTO contacts (first_name, last_name, email, mobile, address, message)
	VALUES($1, $2, $3, $4, $5, $6)
	RETURNING id, first_name, last_name, email, mobile, address, message, created_at
	`

	row := pg.db.QueryRowContext(ctx, createContact,
		c.FirstName, c.LastName, c.Email, c.Mobile, c.Address, c.Message,
	)

	var out Contact
	err := row.Scan(&out.ID, &out.FirstName, &out.LastName, &out.Email, &out.Mobile, &out.Address, &out.Message, &out.CreatedAt)

	return out, err
}

func (pg *PostgreSQLDatabase) GetAllContacts(ctx context.Context) ([]Contact, error) {
	const getAllContacts = `
	SELECT id, first_name, last_name, email, mobile, address, message, created_at
	FROM contacts
	ORDER BY created_at DESC
	`

	rows, err := pg.db.QueryContext(ctx, getAllContacts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Mobile, &c.Address, &c.Message, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}

	return items, rows.Err()
}
