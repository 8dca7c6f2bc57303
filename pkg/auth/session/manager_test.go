package session

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/scootershop-backend/pkg/config"
	"github.com/angelmondragon/scootershop-backend/pkg/db/models"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]models.Session
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]models.Session)}
}

func (m *mockStore) Create(ctx context.Context, sess *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sess.Token] = *sess
	return nil
}

func (m *mockStore) FindActive(ctx context.Context, token string, now time.Time) (*Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.data[token]
	if !ok || sess.Expired(now) {
		return nil, nil
	}
	return &Principal{Token: sess.Token, UserID: sess.UserID, ExpiresAt: sess.ExpiresAt}, nil
}

func (m *mockStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, token)
	return nil
}

func (m *mockStore) PruneUser(ctx context.Context, userID uint64, keep int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var owned []models.Session
	for _, sess := range m.data {
		if sess.UserID == userID {
			owned = append(owned, sess)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	var removed int64
	for i := keep; i < len(owned); i++ {
		delete(m.data, owned[i].Token)
		removed++
	}
	return removed, nil
}

func (m *mockStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for token, sess := range m.data {
		if sess.Expired(now) {
			delete(m.data, token)
			removed++
		}
	}
	return removed, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestManager(t *testing.T, store sessionStore, cfg config.SessionConfig, c *clock) *Manager {
	t.Helper()
	manager, err := NewManager(store, cfg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	manager.now = c.now
	return manager
}

func TestManagerIssueAndResolve(t *testing.T) {
	store := newMockStore()
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	manager := newTestManager(t, store, config.SessionConfig{TTL: time.Hour, MaxPerUser: 10}, c)

	ctx := context.Background()
	principal, err := manager.Issue(ctx, 7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(principal.Token) != 43 {
		t.Fatalf("expected 43 char base64url token, got %d", len(principal.Token))
	}

	got, err := manager.Resolve(ctx, principal.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got == nil || got.UserID != 7 {
		t.Fatalf("expected user 7, got %+v", got)
	}

	c.t = c.t.Add(time.Hour)
	got, err = manager.Resolve(ctx, principal.Token)
	if err != nil {
		t.Fatalf("resolve expired: %v", err)
	}
	if got != nil {
		t.Fatalf("expected expired session to resolve anonymous, got %+v", got)
	}
}

func TestManagerResolveUnknownIsAnonymous(t *testing.T) {
	manager := newTestManager(t, newMockStore(), config.SessionConfig{TTL: time.Hour}, &clock{t: time.Now()})

	for _, token := range []string{"", "   ", "nope"} {
		got, err := manager.Resolve(context.Background(), token)
		if err != nil || got != nil {
			t.Fatalf("token %q: expected nil, nil; got %+v, %v", token, got, err)
		}
	}
}

func TestManagerIssuePrunesOldest(t *testing.T) {
	store := newMockStore()
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	manager := newTestManager(t, store, config.SessionConfig{TTL: time.Hour, MaxPerUser: 2}, c)

	ctx := context.Background()
	var tokens []string
	for i := 0; i < 3; i++ {
		p, err := manager.Issue(ctx, 1)
		if err != nil {
			t.Fatalf("issue %d: %v", i, err)
		}
		tokens = append(tokens, p.Token)
		c.t = c.t.Add(time.Second)
	}

	if got, _ := manager.Resolve(ctx, tokens[0]); got != nil {
		t.Fatal("expected oldest session to be pruned")
	}
	for _, token := range tokens[1:] {
		if got, _ := manager.Resolve(ctx, token); got == nil {
			t.Fatalf("expected session %q to survive", token)
		}
	}
}

func TestManagerRevokeAndPurge(t *testing.T) {
	store := newMockStore()
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	manager := newTestManager(t, store, config.SessionConfig{TTL: time.Minute}, c)

	ctx := context.Background()
	first, _ := manager.Issue(ctx, 1)
	second, _ := manager.Issue(ctx, 2)

	if err := manager.Revoke(ctx, first.Token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := manager.Revoke(ctx, "unknown"); err != nil {
		t.Fatalf("revoke unknown: %v", err)
	}
	if got, _ := manager.Resolve(ctx, first.Token); got != nil {
		t.Fatal("expected revoked session to resolve anonymous")
	}

	c.t = c.t.Add(2 * time.Minute)
	removed, err := manager.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 purged session, got %d", removed)
	}
	if _, ok := store.data[second.Token]; ok {
		t.Fatal("expected expired session removed from store")
	}
}

func TestNewManagerValidates(t *testing.T) {
	if _, err := NewManager(nil, config.SessionConfig{TTL: time.Hour}); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewManager(newMockStore(), config.SessionConfig{}); err == nil {
		t.Fatal("expected error for zero ttl")
	}
	manager, _ := NewManager(newMockStore(), config.SessionConfig{TTL: time.Hour})
	if _, err := manager.Issue(context.Background(), 0); err != ErrUserRequired {
		t.Fatalf("expected ErrUserRequired, got %v", err)
	}
}
