package users

import (
	"context"
	"time"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           string    `json:"id,omitempty"`       // Unique identifier for the user
	Username     string    `json:"username,omitempty"` // Unique username
	PasswordHash string    `json:"-"`                  // Hashed version of the user's password - never serialize
	IsAdmin      bool      `json:"is_admin,omitempty"` // May manage the subrequest host allow-list
	Created      time.Time `json:"created,omitempty"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Directory is the hub's view of its user accounts.
type Directory struct {
	repo Repo
}

func NewDirectory(repo Repo) *Directory {
	return &Directory{repo: repo}
}

func (d *Directory) Get(ctx context.Context, id string) (*User, error) {
	return d.repo.GetByID(ctx, id)
}

func (d *Directory) GetByUsername(ctx context.Context, username string) (*User, error) {
	return d.repo.GetByUsername(ctx, username)
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (d *Directory) Authenticate(ctx context.Context, username, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, errors.ErrInvalidCredentials
	}
	u, err := d.repo.GetByUsername(ctx, username)
	if errors.Is(err, errors.ErrUserNotFound) {
		return nil, errors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[users Authenticate] lookup %s", username)
	}
	if !CheckPasswordHash(password, u.PasswordHash) {
		return nil, errors.ErrInvalidCredentials
	}
	return u, nil
}

// Create hashes password and stores a new user.
func (d *Directory) Create(ctx context.Context, username, password string, isAdmin bool) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, errors.Wrapf(err, "[users Create] hash password")
	}
	u := &User{Username: username, PasswordHash: hash, IsAdmin: isAdmin}
	if err := d.repo.Create(ctx, u); err != nil {
		return nil, errors.Wrapf(err, "[users Create] %s", username)
	}
	return u, nil
}

func (d *Directory) AdminExists(ctx context.Context) (bool, error) {
	return d.repo.AdminExists(ctx)
}
