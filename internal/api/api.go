// Package api holds the gin handlers over the in-memory store.
//
// Handlers resolve the store through qa.Active() on every request — never a
// registry cached at construction time — so an atomic swap of the active
// database is invisible to request handling.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peerqa/peerqa/internal/middleware"
	"github.com/peerqa/peerqa/internal/qa"
)

// currentUser resolves the authenticated caller to a live user. A valid
// token for a since-deleted user yields nil.
func currentUser(c *gin.Context) *qa.User {
	return qa.Active().Users().Get(middleware.GetUsername(c))
}

// requireUser aborts with 401 when the caller no longer exists.
func requireUser(c *gin.Context) *qa.User {
	u := currentUser(c)
	if u == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
	}
	return u
}

// requireModerator aborts with 403 unless the live user moderates. The
// token's moderator claim is not trusted: privileges may have been revoked
// since it was issued.
func requireModerator(c *gin.Context) *qa.User {
	u := requireUser(c)
	if u == nil {
		return nil
	}
	if !u.IsModerator() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "moderator access required"})
		return nil
	}
	return u
}
