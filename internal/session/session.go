package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the privilege level derived from the token's claims.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleCliente Role = "CLIENTE"
)

// adminAuthority is the claim marker that promotes a session to ADMIN.
const adminAuthority = "ROLE_ADMIN"

// State is a snapshot of the current session. IsLoading is true only during
// Initialize; consumers must not gate content on Role/IsAuthenticated while
// it is set.
type State struct {
	Token           string
	Role            Role
	IsAuthenticated bool
	IsLoading       bool
}

// TokenStore persists the raw bearer token across restarts. An empty token
// with a nil error means no session is stored.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// Manager is the single source of truth for who is logged in and with what
// privilege. Every other component reads role/auth through Snapshot; nothing
// re-decodes the token independently.
type Manager struct {
	mu    sync.Mutex
	store TokenStore
	state State
	subs  []chan State
}

// NewManager creates a manager in the loading state. Call Initialize before
// serving any gated content.
func NewManager(store TokenStore) *Manager {
	return &Manager{
		store: store,
		state: State{IsLoading: true},
	}
}

// Initialize restores a persisted session, if any. A malformed persisted
// token is handled identically to logout: the stored token is cleared and the
// session ends unauthenticated. IsLoading is always false afterwards.
func (m *Manager) Initialize(ctx context.Context) error {
	token, err := m.store.Token(ctx)
	if err != nil {
		m.commit(State{})
		return fmt.Errorf("failed to read persisted token: %w", err)
	}

	if token == "" {
		m.commit(State{})
		return nil
	}

	role, err := decodeRole(token)
	if err != nil {
		log.Printf("Persisted token is invalid, clearing session: %v", err)
		if clearErr := m.store.ClearToken(ctx); clearErr != nil {
			log.Printf("Warning: failed to clear invalid token: %v", clearErr)
		}
		m.commit(State{})
		return nil
	}

	m.commit(State{Token: token, Role: role, IsAuthenticated: true})
	return nil
}

// Login persists and commits a freshly issued token. A token that fails to
// decode is reported to the caller, who is mid-login-flow and must show a
// message; the committed session state is left untouched in that case.
func (m *Manager) Login(ctx context.Context, token string) error {
	role, err := decodeRole(token)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	if err := m.store.SaveToken(ctx, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	m.commit(State{Token: token, Role: role, IsAuthenticated: true})
	return nil
}

// Logout clears the persisted token and all in-memory session fields.
// Idempotent.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.store.ClearToken(ctx); err != nil {
		log.Printf("Warning: failed to clear persisted token on logout: %v", err)
	}
	m.commit(State{})
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token implements the gateway's token source.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Token
}

// Subscribe returns a channel that receives a snapshot on every session
// transition. The channel is seeded with the current state, so a consumer
// that attaches after a restore still observes the restored session. The
// channel is buffered; a slow consumer drops intermediate snapshots but
// always ends up observing the latest state.
func (m *Manager) Subscribe() <-chan State {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan State, 8)
	ch <- m.state
	m.subs = append(m.subs, ch)
	return ch
}

func (m *Manager) commit(s State) {
	m.mu.Lock()
	m.state = s
	subs := m.subs
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- s:
		default:
			// drop rather than block the session on a stalled consumer
		}
	}
}

// decodeRole extracts the role from the token's authorities claim. The token
// is decoded without signature verification: validity is only ever checked by
// the backend on subsequent API calls.
func decodeRole(token string) (Role, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", err
	}

	authorities, _ := claims["authorities"].([]any)
	for _, a := range authorities {
		if s, ok := a.(string); ok && s == adminAuthority {
			return RoleAdmin, nil
		}
	}
	return RoleCliente, nil
}
