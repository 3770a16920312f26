package user

import (
	"errors"
	"path/filepath"

	"MiniShop/internal/jsonstore"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

// User is the record persisted in users.json. The password field holds the
// bcrypt hash, never the clear text.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password"`
	Role         string `json:"role"`
}

// Public is the shape returned over the API: everything but the hash.
type Public struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u User) Public() Public {
	return Public{ID: u.ID, Username: u.Username, Role: u.Role}
}

type Store struct {
	col *jsonstore.Collection[User]
}

func NewStore(dataDir string) *Store {
	return &Store{col: jsonstore.NewCollection[User](filepath.Join(dataDir, "users.json"))}
}

func (s *Store) Create(username, passwordHash, role string) (User, error) {
	users := s.col.Load()
	for _, u := range users {
		if u.Username == username {
			return User{}, ErrUsernameTaken
		}
	}

	u := User{
		ID:           jsonstore.NextID(users, func(u User) int { return u.ID }),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	users = append(users, u)
	if err := s.col.Save(users); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Store) GetByUsername(username string) (User, error) {
	for _, u := range s.col.Load() {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *Store) GetByID(id int) (User, error) {
	for _, u := range s.col.Load() {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *Store) List() []User {
	return s.col.Load()
}

// Update applies mutate to the record with the given id and rewrites the
// collection.
func (s *Store) Update(id int, mutate func(*User)) error {
	users := s.col.Load()
	for i := range users {
		if users[i].ID == id {
			mutate(&users[i])
			return s.col.Save(users)
		}
	}
	return ErrNotFound
}

func (s *Store) Delete(id int) error {
	users := s.col.Load()
	kept := users[:0]
	found := false
	for _, u := range users {
		if u.ID == id {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return ErrNotFound
	}
	return s.col.Save(kept)
}
