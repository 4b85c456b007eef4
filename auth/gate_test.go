package auth

import (
	"context"
	"errors"
	"testing"

	"task-service/models"
	"task-service/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	users map[string]*models.User // keyed by id + "|" + token
	err   error
}

func (f *fakeSessions) GetByIDAndToken(ctx context.Context, id, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id+"|"+token]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func TestGate_Authenticate(t *testing.T) {
	tokens := NewTokenService("secret", 0)
	live, err := tokens.Issue("user-1")
	require.NoError(t, err)
	revoked, err := tokens.Issue("user-1")
	require.NoError(t, err)
	orphan, err := tokens.Issue("user-gone")
	require.NoError(t, err)

	user := &models.User{ID: "user-1", Name: "Mike"}
	gate := NewGate(tokens, &fakeSessions{users: map[string]*models.User{"user-1|" + live: user}})

	ident, err := gate.Authenticate(context.Background(), "Bearer "+live)
	require.NoError(t, err)
	assert.Same(t, user, ident.User)
	assert.Equal(t, live, ident.Token)

	for name, header := range map[string]string{
		"missing":   "",
		"no scheme": live,
		"basic":     "Basic dXNlcjpwYXNz",
		"empty":     "Bearer   ",
		"malformed": "Bearer abc.def.ghi",
		"revoked":   "Bearer " + revoked,
		"orphan":    "Bearer " + orphan,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := gate.Authenticate(context.Background(), header)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestGate_StoreFailureIsNotAnAuthFailure(t *testing.T) {
	tokens := NewTokenService("secret", 0)
	tok, err := tokens.Issue("user-1")
	require.NoError(t, err)

	gate := NewGate(tokens, &fakeSessions{err: errors.New("db down")})
	_, err = gate.Authenticate(context.Background(), "Bearer "+tok)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = BearerToken("Bearer")
	assert.False(t, ok)
}
