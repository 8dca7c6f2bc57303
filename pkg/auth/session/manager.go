package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/scootershop-backend/pkg/config"
	"github.com/angelmondragon/scootershop-backend/pkg/db/models"
	"github.com/angelmondragon/scootershop-backend/pkg/enums"
)

const tokenBytes = 32

var ErrUserRequired = errors.New("user id is required")

// Principal is the identity a live session token resolves to.
type Principal struct {
	Token     string
	UserID    uint64
	Role      enums.UserRole
	ExpiresAt time.Time
}

type sessionStore interface {
	Create(ctx context.Context, sess *models.Session) error
	FindActive(ctx context.Context, token string, now time.Time) (*Principal, error)
	Delete(ctx context.Context, token string) error
	PruneUser(ctx context.Context, userID uint64, keep int) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Manager issues, resolves, and revokes opaque session tokens.
type Manager struct {
	store      sessionStore
	ttl        time.Duration
	maxPerUser int
	now        func() time.Time
}

// Resolver exposes the read-only surface needed by middleware and checkout.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Principal, error)
}

// NewManager constructs a session manager backed by the sessions table.
func NewManager(store sessionStore, cfg config.SessionConfig) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store:      store,
		ttl:        cfg.TTL,
		maxPerUser: cfg.MaxPerUser,
		now:        time.Now,
	}, nil
}

// Issue creates a new session for userID and prunes the oldest ones beyond the per-user cap.
func (m *Manager) Issue(ctx context.Context, userID uint64) (*Principal, error) {
	if userID == 0 {
		return nil, ErrUserRequired
	}
	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	now := m.now().UTC()
	sess := &models.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if m.maxPerUser > 0 {
		if _, err := m.store.PruneUser(ctx, userID, m.maxPerUser); err != nil {
			return nil, fmt.Errorf("prune sessions: %w", err)
		}
	}
	return &Principal{Token: token, UserID: userID, ExpiresAt: sess.ExpiresAt}, nil
}

// Resolve maps a token to its principal. Absent, unknown and expired tokens yield nil without error.
func (m *Manager) Resolve(ctx context.Context, token string) (*Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	return m.store.FindActive(ctx, token, m.now().UTC())
}

// Revoke deletes the session. Unknown tokens are a no-op.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}

// PurgeExpired removes every session whose expiry has passed.
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx, m.now().UTC())
}

// GenerateToken returns 32 random bytes encoded as unpadded base64url.
func GenerateToken() (string, error) {
	bytes := make([]byte, tokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
