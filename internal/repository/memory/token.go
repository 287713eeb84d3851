package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/domain/auth"
)

type refreshToken struct {
	userID    string
	expiresAt int64
	revoked   bool
	session   auth.SessionTrackingRequest
}

type RefreshTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*refreshToken
	now    func() time.Time
}

func NewRefreshTokenRepository() *RefreshTokenRepository {
	return &RefreshTokenRepository{tokens: make(map[string]*refreshToken), now: time.Now}
}

func (r *RefreshTokenRepository) CreateRefreshToken(_ context.Context, userID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = &refreshToken{userID: userID, expiresAt: expiresAt, session: session}
	return nil
}

func (r *RefreshTokenRepository) IsRefreshTokenRevoked(_ context.Context, token string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return "", false, auth.ErrInvalidToken
	}
	return t.userID, t.revoked || t.expiresAt <= r.now().Unix(), nil
}

func (r *RefreshTokenRepository) RevokeRefreshToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return auth.ErrInvalidToken
	}
	t.revoked = true
	return nil
}

// Session returns the client a token was issued to.
func (r *RefreshTokenRepository) Session(token string) (auth.SessionTrackingRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return auth.SessionTrackingRequest{}, false
	}
	return t.session, true
}
