// Package guard decides whether a protected view may render for the current
// session. It is a pure function of session state plus the requested route;
// it keeps no state of its own.
package guard

import "vitrine/internal/session"

// Action is what the view layer must do with a gated request.
type Action int

const (
	// ActionAllow renders the protected content.
	ActionAllow Action = iota
	// ActionLoading renders a neutral placeholder: authorization is not yet
	// known and redirecting now could bounce an authenticated user to login.
	ActionLoading
	// ActionLoginRedirect sends the user to the login entry point, remembering
	// the originally requested path so login can return there.
	ActionLoginRedirect
	// ActionHomeRedirect sends an authenticated user without the required role
	// to the default view.
	ActionHomeRedirect
)

// Decision carries the action plus the path bookkeeping the view layer needs.
type Decision struct {
	Action       Action
	RedirectTo   string
	RememberPath string
}

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Evaluate gates requestedPath against the session. requiredRole may be empty,
// in which case any authenticated session is allowed.
func Evaluate(st session.State, requiredRole session.Role, requestedPath string) Decision {
	if st.IsLoading {
		return Decision{Action: ActionLoading}
	}
	if !st.IsAuthenticated {
		return Decision{
			Action:       ActionLoginRedirect,
			RedirectTo:   LoginPath,
			RememberPath: requestedPath,
		}
	}
	if requiredRole != "" && st.Role != requiredRole {
		return Decision{Action: ActionHomeRedirect, RedirectTo: HomePath}
	}
	return Decision{Action: ActionAllow}
}
