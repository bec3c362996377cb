package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/nbutton23/zxcvbn-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 20

	// minPasswordScore is the lowest accepted zxcvbn score, on its 0 to 4 scale.
	minPasswordScore = 3

	// DefaultPasswordCost is the bcrypt cost used unless UserConfig.Cost is set.
	DefaultPasswordCost = 14
)

var usernameChars = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var (
	// ErrInvalidUser is wrapped by every rejection of a new account's username or password.
	ErrInvalidUser = errors.New("invalid user")

	ErrUsernameTooShort = fmt.Errorf("%w: username too short", ErrInvalidUser)
	ErrUsernameTooLong  = fmt.Errorf("%w: username too long", ErrInvalidUser)
	ErrInvalidUsername  = fmt.Errorf("%w: username may only hold letters, digits and underscores", ErrInvalidUser)
	ErrWeakPassword     = fmt.Errorf("%w: weak password", ErrInvalidUser)

	ErrUsernameConflict   = errors.New("username conflict")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// User is an account that owns stored mazes.
type User struct {
	ID           uuid.UUID `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// UserConfig holds the sign-up input for a User.
type UserConfig struct {
	ID            uuid.UUID
	Username      string
	PlainPassword string
	Cost          int // bcrypt cost; zero means DefaultPasswordCost.
}

// NewUser checks the sign-up input and returns a User holding only the password hash.
func NewUser(config UserConfig) (*User, error) {
	if err := config.check(); err != nil {
		return nil, err
	}

	cost := config.Cost
	if cost == 0 {
		cost = DefaultPasswordCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(config.PlainPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &User{
		ID:           config.ID,
		Username:     config.Username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// VerifyPassword reports whether password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (c UserConfig) check() error {
	switch n := len(c.Username); {
	case n < minUsernameLength:
		return fmt.Errorf("%w: %d characters, want at least %d", ErrUsernameTooShort, n, minUsernameLength)
	case n > maxUsernameLength:
		return fmt.Errorf("%w: %d characters, want at most %d", ErrUsernameTooLong, n, maxUsernameLength)
	case !usernameChars.MatchString(c.Username):
		return fmt.Errorf("%w: %q", ErrInvalidUsername, c.Username)
	}

	// The username counts as a known word, so passwords built from it score low.
	score := zxcvbn.PasswordStrength(c.PlainPassword, []string{c.Username}).Score
	if score < minPasswordScore {
		return fmt.Errorf("%w: score %d, want at least %d", ErrWeakPassword, score, minPasswordScore)
	}
	return nil
}
