package repository

import (
	"context"
	"fmt"
	"time"
)

// TokenRepository holds the issued session tokens of each user
type TokenRepository struct {
	db DBTX
}

func NewTokenRepository(db DBTX) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Add(ctx context.Context, userID, token string) error {
	query := r.db.Rebind("INSERT INTO user_tokens (token, user_id, created_at) VALUES (?, ?, ?)")
	if _, err := r.db.ExecContext(ctx, query, token, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Remove drops exactly one session of userID
func (r *TokenRepository) Remove(ctx context.Context, userID, token string) error {
	query := r.db.Rebind("DELETE FROM user_tokens WHERE user_id = ? AND token = ?")
	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// RemoveAll drops every session of userID
func (r *TokenRepository) RemoveAll(ctx context.Context, userID string) error {
	query := r.db.Rebind("DELETE FROM user_tokens WHERE user_id = ?")
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
