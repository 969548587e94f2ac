package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/authz"
)

// abortForDecision translates a deny decision into the external contract and
// reports whether the request was aborted. Object-level denials collapse
// into 404 so callers cannot probe for the existence of rows they are not
// allowed to see; non-object denials (grants, membership mutations) are 403.
func abortForDecision(ctx *gin.Context, decision authz.Decision, objectLevel bool) bool {
	switch decision {
	case authz.Allow:
		return false
	case authz.DenyUnauthenticated:
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You need to login first"})
	case authz.DenyForbidden:
		if objectLevel {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		} else {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to do that"})
		}
	}
	return true
}
