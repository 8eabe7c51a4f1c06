package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitrine/internal/guard"
	"vitrine/internal/session"
)

// RequireRole gates a route group on the current session. While the session
// is still initializing the response is a neutral loading body, never a
// redirect; an unauthenticated request is redirected to login with the
// original path remembered so login can return there.
func (h *Handler) RequireRole(role session.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := guard.Evaluate(h.sessions.Snapshot(), role, c.Request.URL.Path)

		switch decision.Action {
		case guard.ActionLoading:
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"carregando": true})
		case guard.ActionLoginRedirect:
			if err := h.state.SaveReturnPath(c.Request.Context(), decision.RememberPath); err != nil {
				log.Printf("Warning: failed to remember return path: %v", err)
			}
			c.Redirect(http.StatusSeeOther, decision.RedirectTo)
			c.Abort()
		case guard.ActionHomeRedirect:
			c.Redirect(http.StatusSeeOther, decision.RedirectTo)
			c.Abort()
		default:
			c.Next()
		}
	}
}
