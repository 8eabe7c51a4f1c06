package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vitrine/internal/session"
)

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name         string
		state        session.State
		requiredRole session.Role
		path         string
		expected     Decision
	}{
		{
			name:         "loading session renders a placeholder, never redirects",
			state:        session.State{IsLoading: true},
			requiredRole: session.RoleAdmin,
			path:         "/admin/produtos",
			expected:     Decision{Action: ActionLoading},
		},
		{
			name:         "anonymous user is sent to login with the path remembered",
			state:        session.State{},
			requiredRole: "",
			path:         "/reservas",
			expected: Decision{
				Action:       ActionLoginRedirect,
				RedirectTo:   LoginPath,
				RememberPath: "/reservas",
			},
		},
		{
			name:         "authenticated cliente passes a role-free gate",
			state:        session.State{IsAuthenticated: true, Role: session.RoleCliente},
			requiredRole: "",
			path:         "/reservas",
			expected:     Decision{Action: ActionAllow},
		},
		{
			name:         "cliente on an admin route is bounced home, not to login",
			state:        session.State{IsAuthenticated: true, Role: session.RoleCliente},
			requiredRole: session.RoleAdmin,
			path:         "/admin/produtos",
			expected:     Decision{Action: ActionHomeRedirect, RedirectTo: HomePath},
		},
		{
			name:         "admin passes the admin gate",
			state:        session.State{IsAuthenticated: true, Role: session.RoleAdmin},
			requiredRole: session.RoleAdmin,
			path:         "/admin/produtos",
			expected:     Decision{Action: ActionAllow},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Evaluate(tc.state, tc.requiredRole, tc.path))
		})
	}
}
