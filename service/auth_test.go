package service

import (
	"context"
	"testing"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	const password = "correct-horse-battery-staple"
	ctx := context.Background()
	users := newMemUserRepo()
	tokenizer := &fakeTokenizer{}

	auth, err := NewAuthService(users, tokenizer, bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("Register", func(t *testing.T) {
		require.NoError(t, auth.Register(ctx, "maze_runner", password))
		user, err := users.ByUsername(ctx, "maze_runner")
		require.NoError(t, err)
		assert.True(t, user.VerifyPassword(password))
	})

	t.Run("Register duplicate", func(t *testing.T) {
		err := auth.Register(ctx, "maze_runner", password)
		assert.ErrorIs(t, err, dmn.ErrUsernameConflict)
	})

	t.Run("Register weak password", func(t *testing.T) {
		err := auth.Register(ctx, "other_runner", "abc")
		assert.ErrorIs(t, err, dmn.ErrWeakPassword)
	})

	t.Run("Sign in", func(t *testing.T) {
		user, token, err := auth.SignIn(ctx, "maze_runner", password)
		require.NoError(t, err)
		assert.Equal(t, "token", token)
		assert.Equal(t, user.ID.String(), tokenizer.claims["userID"])
		assert.Equal(t, tokenLifetime, tokenizer.exp)
	})

	t.Run("Sign in with wrong password", func(t *testing.T) {
		_, _, err := auth.SignIn(ctx, "maze_runner", "nope")
		assert.ErrorIs(t, err, dmn.ErrInvalidCredentials)
	})

	t.Run("Sign in unknown user", func(t *testing.T) {
		_, _, err := auth.SignIn(ctx, "ghost", password)
		assert.ErrorIs(t, err, dmn.ErrInvalidCredentials)
	})

	t.Run("Missing dependencies", func(t *testing.T) {
		_, err := NewAuthService(nil, tokenizer, 0)
		assert.ErrorIs(t, err, ErrMissingDep)
	})
}
