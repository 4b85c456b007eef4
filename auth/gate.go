package auth

import (
	"context"
	"errors"
	"strings"

	"task-service/models"
	"task-service/repository"
)

// ErrUnauthenticated is deliberately vague: a malformed, revoked or orphaned
// token all look the same to the caller.
var ErrUnauthenticated = errors.New("Please authenticate.")

// Identity is what the gate attaches to an authenticated request
type Identity struct {
	User  *models.User
	Token string
}

// SessionLookup finds a user whose session list still holds token
type SessionLookup interface {
	GetByIDAndToken(ctx context.Context, id, token string) (*models.User, error)
}

// Gate resolves an Authorization header to a live session
type Gate struct {
	tokens   *TokenService
	sessions SessionLookup
}

func NewGate(tokens *TokenService, sessions SessionLookup) *Gate {
	return &Gate{tokens: tokens, sessions: sessions}
}

// Authenticate verifies the bearer token and re-checks it against the store,
// since a valid signature alone does not survive logout.
func (g *Gate) Authenticate(ctx context.Context, header string) (Identity, error) {
	token, ok := BearerToken(header)
	if !ok {
		return Identity{}, ErrUnauthenticated
	}

	userID, err := g.tokens.Verify(token)
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}

	user, err := g.sessions.GetByIDAndToken(ctx, userID, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Identity{}, ErrUnauthenticated
		}
		return Identity{}, err
	}

	return Identity{User: user, Token: token}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value
func BearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}
