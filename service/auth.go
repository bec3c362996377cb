package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

const tokenLifetime = 24 * time.Hour

// Auth implements i.Authenticator.
type Auth struct {
	userRepo  i.UserRepo
	tokenizer i.Tokenizer
	hashCost  int
}

// NewAuthService creates an Auth service. A zero hashCost uses the default bcrypt cost.
func NewAuthService(userRepo i.UserRepo, tokenizer i.Tokenizer, hashCost int) (*Auth, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("%w: user repository", ErrMissingDep)
	}
	if tokenizer == nil {
		return nil, fmt.Errorf("%w: tokenizer", ErrMissingDep)
	}
	return &Auth{userRepo: userRepo, tokenizer: tokenizer, hashCost: hashCost}, nil
}

// Register creates a new user.
func (a *Auth) Register(ctx context.Context, username, password string) error {
	if _, err := a.userRepo.ByUsername(ctx, username); err == nil {
		return dmn.ErrUsernameConflict
	} else if !errors.Is(err, dmn.ErrUserNotFound) {
		return err
	}

	user, err := dmn.NewUser(dmn.UserConfig{
		ID:            uuid.New(),
		Username:      username,
		PlainPassword: password,
		Cost:          a.hashCost,
	})
	if err != nil {
		return err
	}

	return a.userRepo.Save(ctx, user)
}

// SignIn checks the credentials and returns the user with a fresh token.
func (a *Auth) SignIn(ctx context.Context, username, password string) (*dmn.User, string, error) {
	user, err := a.userRepo.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, dmn.ErrUserNotFound) {
			return nil, "", dmn.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.VerifyPassword(password) {
		return nil, "", dmn.ErrInvalidCredentials
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		"userID":   user.ID.String(),
		"username": user.Username,
	}, tokenLifetime)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
