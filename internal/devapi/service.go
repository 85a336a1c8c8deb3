package devapi

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Wiz-2/frontend-login/internal/models"
	"github.com/Wiz-2/frontend-login/internal/storage"
)

var (
	ErrMissingFields      = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)

// Service implements login and registration over the user table
type Service struct {
	db   *sql.DB
	cost int
}

// NewService creates a service hashing passwords with the given bcrypt cost
func NewService(db *sql.DB, cost int) *Service {
	return &Service{db: db, cost: cost}
}

// Login checks the password of an existing user.
// Returns storage.ErrUserNotFound or ErrInvalidCredentials on failure.
func (s *Service) Login(username, password string) error {
	if username == "" || password == "" {
		return ErrMissingFields
	}

	user, err := storage.GetUserByUsername(s.db, username)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}

// Register creates a user. Returns storage.ErrUserExists if the name is taken
// and ErrPasswordTooLong past bcrypt's 72-byte input limit.
func (s *Service) Register(username, password string) error {
	if username == "" || password == "" {
		return ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return ErrPasswordTooLong
	}
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return storage.CreateUser(s.db, &models.User{
		Username:     username,
		PasswordHash: string(hash),
	})
}
