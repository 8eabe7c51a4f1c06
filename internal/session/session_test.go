package session

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore is a mock implementation of the TokenStore interface.
type mockStore struct {
	token    string
	tokenErr error
	saveErr  error
	cleared  int
	saved    []string
}

func (m *mockStore) Token(ctx context.Context) (string, error) {
	return m.token, m.tokenErr
}

func (m *mockStore) SaveToken(ctx context.Context, token string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, token)
	m.token = token
	return nil
}

func (m *mockStore) ClearToken(ctx context.Context) error {
	m.cleared++
	m.token = ""
	return nil
}

// signToken builds a real JWT with the given authorities claim. The signature
// is irrelevant to the manager, which never verifies it.
func signToken(t *testing.T, authorities []string) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "someone", "authorities": authorities}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestManager_Initialize(t *testing.T) {
	t.Run("restores a valid admin session", func(t *testing.T) {
		store := &mockStore{token: signToken(t, []string{"ROLE_ADMIN"})}
		m := NewManager(store)

		assert.True(t, m.Snapshot().IsLoading)

		err := m.Initialize(context.Background())
		require.NoError(t, err)

		st := m.Snapshot()
		assert.False(t, st.IsLoading)
		assert.True(t, st.IsAuthenticated)
		assert.Equal(t, RoleAdmin, st.Role)
	})

	t.Run("no persisted token ends unauthenticated", func(t *testing.T) {
		m := NewManager(&mockStore{})

		err := m.Initialize(context.Background())
		require.NoError(t, err)

		st := m.Snapshot()
		assert.False(t, st.IsLoading)
		assert.False(t, st.IsAuthenticated)
	})

	t.Run("malformed persisted token is cleared like a logout", func(t *testing.T) {
		store := &mockStore{token: "not-a-jwt"}
		m := NewManager(store)

		err := m.Initialize(context.Background())
		require.NoError(t, err)

		st := m.Snapshot()
		assert.False(t, st.IsLoading)
		assert.False(t, st.IsAuthenticated)
		assert.Equal(t, 1, store.cleared)
	})

	t.Run("store read failure surfaces but still ends loading", func(t *testing.T) {
		store := &mockStore{tokenErr: errors.New("disk broke")}
		m := NewManager(store)

		err := m.Initialize(context.Background())
		require.Error(t, err)

		st := m.Snapshot()
		assert.False(t, st.IsLoading)
		assert.False(t, st.IsAuthenticated)
	})
}

func TestManager_Login(t *testing.T) {
	t.Run("derives CLIENTE without the admin authority", func(t *testing.T) {
		store := &mockStore{}
		m := NewManager(store)
		require.NoError(t, m.Initialize(context.Background()))

		err := m.Login(context.Background(), signToken(t, []string{"ROLE_CLIENTE"}))
		require.NoError(t, err)

		st := m.Snapshot()
		assert.True(t, st.IsAuthenticated)
		assert.Equal(t, RoleCliente, st.Role)
		assert.Len(t, store.saved, 1)
	})

	t.Run("undecodable token leaves the session untouched", func(t *testing.T) {
		store := &mockStore{}
		m := NewManager(store)
		require.NoError(t, m.Initialize(context.Background()))
		require.NoError(t, m.Login(context.Background(), signToken(t, nil)))

		err := m.Login(context.Background(), "garbage")
		require.Error(t, err)

		st := m.Snapshot()
		assert.True(t, st.IsAuthenticated, "previous session must survive a failed login")
		assert.Len(t, store.saved, 1, "a bad token must never be persisted")
	})

	t.Run("persist failure is reported and not committed", func(t *testing.T) {
		store := &mockStore{saveErr: errors.New("db closed")}
		m := NewManager(store)
		require.NoError(t, m.Initialize(context.Background()))

		err := m.Login(context.Background(), signToken(t, nil))
		require.Error(t, err)
		assert.False(t, m.Snapshot().IsAuthenticated)
	})
}

func TestManager_Logout(t *testing.T) {
	store := &mockStore{token: signToken(t, []string{"ROLE_ADMIN"})}
	m := NewManager(store)
	require.NoError(t, m.Initialize(context.Background()))
	require.True(t, m.Snapshot().IsAuthenticated)

	m.Logout(context.Background())
	assert.False(t, m.Snapshot().IsAuthenticated)
	assert.Empty(t, m.Token())

	// Idempotent: a second logout is harmless.
	m.Logout(context.Background())
	assert.False(t, m.Snapshot().IsAuthenticated)
}

func TestManager_Subscribe(t *testing.T) {
	store := &mockStore{}
	m := NewManager(store)
	states := m.Subscribe()

	// The subscription opens with the current snapshot.
	st := <-states
	assert.True(t, st.IsLoading)

	require.NoError(t, m.Initialize(context.Background()))
	st = <-states
	assert.False(t, st.IsAuthenticated)

	require.NoError(t, m.Login(context.Background(), signToken(t, nil)))
	st = <-states
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, RoleCliente, st.Role)

	m.Logout(context.Background())
	st = <-states
	assert.False(t, st.IsAuthenticated)
}

func TestManager_SubscribeAfterRestore(t *testing.T) {
	store := &mockStore{token: signToken(t, []string{"ROLE_CLIENTE"})}
	m := NewManager(store)
	require.NoError(t, m.Initialize(context.Background()))

	// A consumer wired up after the restore must still see the restored
	// session, not wait for the next transition.
	st := <-m.Subscribe()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, RoleCliente, st.Role)
	assert.False(t, st.IsLoading)
}
