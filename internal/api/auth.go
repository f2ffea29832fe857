package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authenticator yields the authenticated principal identifier for a
// request or rejects it. Authentication itself is an external capability;
// this service only consumes the result.
type Authenticator func(c *gin.Context) (string, error)

// AuthRequired rejects unauthenticated requests and stashes the principal
// on the request context
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := auth(c)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not Authorized",
			})
			return
		}
		c.Set(principalKey, userID)
		c.Next()
	}
}

func principal(c *gin.Context) string {
	return c.GetString(principalKey)
}

// HeaderAuthenticator trusts an identity header verified by the upstream
// auth layer
func HeaderAuthenticator(header string) Authenticator {
	return func(c *gin.Context) (string, error) {
		id := c.GetHeader(header)
		if id == "" {
			return "", errors.New("missing identity header")
		}
		return id, nil
	}
}
