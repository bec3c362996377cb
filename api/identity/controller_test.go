package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	registerErr error
	user        *dmn.User
}

func (f *fakeAuthenticator) Register(_ context.Context, username, _ string) error {
	return f.registerErr
}

func (f *fakeAuthenticator) SignIn(_ context.Context, username, password string) (*dmn.User, string, error) {
	if f.user == nil || username != f.user.Username || password != "secret" {
		return nil, "", dmn.ErrInvalidCredentials
	}
	return f.user, "token", nil
}

type fakeTokenizer struct {
	claims map[string]interface{}
}

func (f *fakeTokenizer) Generate(map[string]interface{}, time.Duration) (string, error) {
	return "", nil
}

func (f *fakeTokenizer) Decode(token string) (map[string]interface{}, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return f.claims, nil
}

func newEngine(auth *fakeAuthenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewIdentityServer(auth).RegisterPublic(engine.Group("/v1"))
	return engine
}

func post(engine http.Handler, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		body   any
		status int
	}{
		{"Created", nil, AuthRequest{Username: "runner", Password: "secret"}, http.StatusCreated},
		{"Missing field", nil, map[string]string{"username": "runner"}, http.StatusBadRequest},
		{"Weak password", dmn.ErrWeakPassword, AuthRequest{Username: "runner", Password: "1"}, http.StatusBadRequest},
		{"Conflict", dmn.ErrUsernameConflict, AuthRequest{Username: "runner", Password: "secret"}, http.StatusConflict},
		{"Internal", errors.New("db down"), AuthRequest{Username: "runner", Password: "secret"}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newEngine(&fakeAuthenticator{registerErr: tc.err})
			rec := post(engine, "/v1/auth/register", tc.body)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	user := &dmn.User{ID: uuid.New(), Username: "runner"}
	engine := newEngine(&fakeAuthenticator{user: user})

	t.Run("Valid credentials", func(t *testing.T) {
		rec := post(engine, "/v1/auth/login", AuthRequest{Username: "runner", Password: "secret"})
		require.Equal(t, http.StatusOK, rec.Code)
		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, user.ID.String(), resp.ID)
		assert.Equal(t, "token", resp.Token)
	})

	t.Run("Invalid credentials", func(t *testing.T) {
		rec := post(engine, "/v1/auth/login", AuthRequest{Username: "runner", Password: "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthoriz(t *testing.T) {
	userID := uuid.New()
	gin.SetMode(gin.TestMode)

	newProtected := func(claims map[string]interface{}) *gin.Engine {
		engine := gin.New()
		engine.Use(Authoriz(&fakeTokenizer{claims: claims}))
		engine.GET("/me", func(c *gin.Context) {
			id, ok := UserID(c)
			if !ok {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.String(http.StatusOK, id.String())
		})
		return engine
	}

	cases := []struct {
		name   string
		header string
		claims map[string]interface{}
		status int
	}{
		{"Valid", "Bearer good", map[string]interface{}{"userID": userID.String()}, http.StatusOK},
		{"Missing header", "", nil, http.StatusUnauthorized},
		{"Wrong scheme", "Basic good", nil, http.StatusUnauthorized},
		{"Bad token", "Bearer bad", nil, http.StatusUnauthorized},
		{"No user id", "Bearer good", map[string]interface{}{}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			newProtected(tc.claims).ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
			}
		})
	}
}
