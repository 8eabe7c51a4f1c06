package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitrine/internal/guard"
)

type loginRequest struct {
	Login string `json:"login" binding:"required"`
	Senha string `json:"senha" binding:"required"`
}

type registerRequest struct {
	Nome  string `json:"nome" binding:"required"`
	Login string `json:"login" binding:"required"`
	Senha string `json:"senha" binding:"required"`
}

// GetSession exposes the session snapshot to the view.
func (h *Handler) GetSession(c *gin.Context) {
	st := h.sessions.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"autenticado": st.IsAuthenticated,
		"carregando":  st.IsLoading,
		"perfil":      st.Role,
	})
}

// Login exchanges credentials at the backend and commits the session. The
// response carries where to send the user next: the path remembered by the
// route guard, or home.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "informe login e senha"})
		return
	}

	ctx := c.Request.Context()
	token, err := h.gw.Login(ctx, req.Login, req.Senha)
	if err != nil {
		renderError(c, err)
		return
	}

	if err := h.sessions.Login(ctx, token); err != nil {
		// Mid-login failure surfaces to the user; the committed session
		// state was not touched.
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Falha no login. Tente novamente."})
		return
	}

	returnTo, err := h.state.ReturnPath(ctx)
	if err != nil {
		log.Printf("Warning: failed to read return path: %v", err)
	}
	if returnTo == "" {
		returnTo = guard.HomePath
	}
	if err := h.state.ClearReturnPath(ctx); err != nil {
		log.Printf("Warning: failed to clear return path: %v", err)
	}

	st := h.sessions.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"perfil":   st.Role,
		"retornar": returnTo,
	})
}

// Logout clears the session. Idempotent.
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// Register creates a customer account at the backend. The user still logs in
// afterwards.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "informe nome, login e senha"})
		return
	}

	if err := h.gw.RegisterClient(c.Request.Context(), req.Nome, req.Login, req.Senha); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}
