package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"lg/calorie-tracker/internal/apperr"
)

// dummyHash is compared against when the username is unknown or has no
// password, so a failed login costs the same bcrypt work either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// login exchanges a username and password for the user's API token.
// POST /api/login (public). Archived users cannot log in.
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := h.store.GetUserByUsername(c.Request.Context(), strings.TrimSpace(body.Username))
	if lookupErr != nil && !apperr.IsNotFound(lookupErr) {
		respondError(c, lookupErr, "failed to look up user")
		return
	}

	hashToCheck := string(dummyHash)
	if lookupErr == nil && u.Password != "" {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil || u.Password == "" || compareErr != nil {
		log.WithField("username", body.Username).Info("login rejected")
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

// authMiddleware resolves the Bearer token to an active user and stores its
// id under "user_id" for the handlers.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		u, err := h.store.GetUserByToken(c.Request.Context(), token)
		if err != nil {
			if !apperr.IsNotFound(err) {
				log.WithError(err).Error("auth: token lookup failed")
			}
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", u.ID)
		c.Next()
	}
}
