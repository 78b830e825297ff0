package service

import (
	"errors"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "violet-harbor-tractor-91"

type fakeUserRepo struct {
	users   map[uuid.UUID]*dmn.User
	saveErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*dmn.User)}
}

func (r *fakeUserRepo) Save(user *dmn.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) ByID(id uuid.UUID) (*dmn.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, dmn.ErrUserNotFound
}

func (r *fakeUserRepo) ByUsername(username string) (*dmn.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, dmn.ErrUserNotFound
}

type fakeTokenizer struct {
	claims map[string]interface{}
	exp    time.Duration
}

func (f *fakeTokenizer) Generate(claims map[string]interface{}, expTime time.Duration) (string, error) {
	f.claims = claims
	f.exp = expTime
	return "signed-token", nil
}

func (f *fakeTokenizer) Decode(token string) (map[string]interface{}, error) {
	if token != "signed-token" {
		return nil, errors.New("invalid token")
	}
	return f.claims, nil
}

func TestRegister(t *testing.T) {
	t.Run("stores new user", func(t *testing.T) {
		repo := newFakeUserRepo()
		auth := NewAuth(repo, &fakeTokenizer{}, 0)

		require.NoError(t, auth.Register("grid_walker", strongPassword))
		u, err := repo.ByUsername("grid_walker")
		require.NoError(t, err)
		assert.NotEqual(t, strongPassword, u.PasswordHash)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		auth := NewAuth(newFakeUserRepo(), &fakeTokenizer{}, 0)

		assert.ErrorIs(t, auth.Register("ab", strongPassword), dmn.ErrUsernameTooShort)
		assert.ErrorIs(t, auth.Register("grid_walker", "password"), dmn.ErrWeakPassword)
	})

	t.Run("rejects taken username", func(t *testing.T) {
		repo := newFakeUserRepo()
		auth := NewAuth(repo, &fakeTokenizer{}, 0)

		require.NoError(t, auth.Register("grid_walker", strongPassword))
		assert.ErrorIs(t, auth.Register("grid_walker", strongPassword), dmn.ErrUsernameTaken)
		assert.Len(t, repo.users, 1)
	})

	t.Run("propagates save failure", func(t *testing.T) {
		repo := newFakeUserRepo()
		repo.saveErr = errors.New("connection reset")
		auth := NewAuth(repo, &fakeTokenizer{}, 0)

		assert.EqualError(t, auth.Register("grid_walker", strongPassword), "connection reset")
	})
}

func TestSignIn(t *testing.T) {
	repo := newFakeUserRepo()
	tokenizer := &fakeTokenizer{}
	auth := NewAuth(repo, tokenizer, time.Hour)
	require.NoError(t, auth.Register("grid_walker", strongPassword))

	t.Run("valid credentials", func(t *testing.T) {
		user, token, err := auth.SignIn("grid_walker", strongPassword)
		require.NoError(t, err)

		assert.Equal(t, "signed-token", token)
		assert.Equal(t, "grid_walker", user.Username)
		assert.Equal(t, user.ID.String(), tokenizer.claims["userID"])
		assert.Equal(t, "grid_walker", tokenizer.claims["username"])
		assert.Equal(t, time.Hour, tokenizer.exp)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := auth.SignIn("grid_walker", "not-the-password-42")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := auth.SignIn("nobody_here", strongPassword)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
