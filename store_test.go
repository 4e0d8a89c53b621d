package main

import (
	"context"
	"sync"
	"time"
)

// memoryStore implements Store for the httptest suites so they run without a
// postgres instance.
type memoryStore struct {
	mu       sync.Mutex
	users    map[int64]User
	admins   map[int64]Admin
	photos   map[int64]Photo
	contacts []Contact
	nextID   int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:  make(map[int64]User),
		admins: make(map[int64]Admin),
		photos: make(map[int64]Photo),
	}
}

func (m *memoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryStore) CreateUser(_ context.Context, name, email, passwordHash string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return User{}, ErrEmailTaken
		}
	}

	u := User{ID: m.id(), Name: name, Email: email, PasswordHash: passwordHash}
	m.users[u.ID] = u

	return u, nil
}

func (m *memoryStore) GetUserByEmail(_ context.Context, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}

	return User{}, ErrNotFound
}

func (m *memoryStore) GetUserByID(_ context.Context, id int64) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}

	return u, nil
}

func (m *memoryStore) GetAllUsers(_ context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []User
	for _, u := range m.users {
		items = append(items, u)
	}

	return items, nil
}

func (m *memoryStore) CreateAdmin(_ context.Context, name, email, passwordHash string) (Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.admins {
		if a.Email == email {
			return Admin{}, ErrEmailTaken
		}
	}

	a := Admin{ID: m.id(), Name: name, Email: email, PasswordHash: passwordHash}
	m.admins[a.ID] = a

	return a, nil
}

func (m *memoryStore) GetAdminByEmail(_ context.Context, email string) (Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.admins {
		if a.Email == email {
			return a, nil
		}
	}

	return Admin{}, ErrNotFound
}

func (m *memoryStore) GetAdminByID(_ context.Context, id int64) (Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.admins[id]
	if !ok {
		return Admin{}, ErrNotFound
	}

	return a, nil
}

func (m *memoryStore) UpdateAdminPassword(_ context.Context, id int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.admins[id]
	if !ok {
		return ErrNotFound
	}

	a.PasswordHash = passwordHash
	m.admins[id] = a

	return nil
}

func (m *memoryStore) CreatePhoto(_ context.Context, p Photo) (Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = m.id()
	p.Approved = false
	p.BestPhoto = false
	m.photos[p.ID] = p

	return p, nil
}

func (m *memoryStore) GetPhotoByID(_ context.Context, id int64) (Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.photos[id]
	if !ok {
		return Photo{}, ErrNotFound
	}

	return p, nil
}

func (m *memoryStore) GetAllPhotos(_ context.Context) ([]Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []Photo
	for _, p := range m.photos {
		items = append(items, p)
	}

	return items, nil
}

func (m *memoryStore) UpdatePhoto(_ context.Context, p Photo) (Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.photos[p.ID]
	if !ok {
		return Photo{}, ErrNotFound
	}

	p.UserID = stored.UserID
	p.Approved = stored.Approved
	p.BestPhoto = stored.BestPhoto
	m.photos[p.ID] = p

	return p, nil
}

func (m *memoryStore) SetPhotoApproval(_ context.Context, id int64, approved bool) (Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.photos[id]
	if !ok {
		return Photo{}, ErrNotFound
	}

	p.Approved = approved
	m.photos[id] = p

	return p, nil
}

func (m *memoryStore) TogglePhotoApproval(_ context.Context, id int64) (Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.photos[id]
	if !ok {
		return Photo{}, ErrNotFound
	}

	p.Approved = !p.Approved
	m.photos[id] = p

	return p, nil
}

func (m *memoryStore) SetBestPhoto(_ context.Context, id int64) (Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.photos[id]
	if !ok {
		return Photo{}, ErrNotFound
	}

	p.BestPhoto = true
	m.photos[id] = p

	return p, nil
}

func (m *memoryStore) DeletePhoto(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.photos[id]; !ok {
		return ErrNotFound
	}
	delete(m.photos, id)

	return nil
}

func (m *memoryStore) CreateContact(_ context.Context, c Contact) (Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c.ID = m.id()
	c.CreatedAt = time.Now()
	m.contacts = append(m.contacts, c)

	return c, nil
}

func (m *memoryStore) GetAllContacts(_ context.Context) ([]Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]Contact, len(m.contacts))
	copy(items, m.contacts)

	return items, nil
}
