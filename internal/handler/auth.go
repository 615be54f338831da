package handler

import (
	"errors"
	"log"
	"net/http"

	"trend-herald/internal/domain"

	"github.com/gin-gonic/gin"
)

// Root redirects an unauthenticated visitor into the authorization flow.
// Once a credential is active it just reports status, so reloading the
// page never restarts auth by accident.
func (h *Handler) Root(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.root")
	defer span.End()

	if h.auth.Authenticated() {
		c.String(http.StatusOK, "Bot is authenticated and running!")
		return
	}

	url, _, err := h.auth.BeginAuthorization()
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to start authorization")
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Callback completes the authorization-code exchange. State mismatches are
// the visitor's problem (400), exchange failures are ours (500).
func (h *Handler) Callback(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.callback")
	defer span.End()

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.String(http.StatusBadRequest, "Invalid state")
		return
	}

	if _, err := h.auth.CompleteAuthorization(ctx, code, state); err != nil {
		if errors.Is(err, domain.ErrStateMismatch) || errors.Is(err, domain.ErrMissingVerifier) {
			c.String(http.StatusBadRequest, "Invalid state")
			return
		}
		log.Printf("Token exchange failed: %v", err)
		c.String(http.StatusInternalServerError, "Authentication failed")
		return
	}

	if h.starter != nil {
		h.starter.HandleAuthorized()
	}
	c.String(http.StatusOK, "Authentication successful! Bot is now running.")
}
