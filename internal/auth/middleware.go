package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// principalKey is the gin context key holding the authenticated Principal.
const principalKey = "authPrincipal"

// PrincipalFrom returns the authenticated principal set by Authenticate.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}

// Authenticate validates the bearer token and injects the decoded principal
// into the request context. Missing or invalid tokens abort with 401; the
// guard never mutates state beyond the context entry.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing authorization header"})
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "empty token"})
			return
		}

		principal, errParse := ParseToken(secret, token)
		if errParse != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireAdmin passes only callers whose role claim is Admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
			return
		}
		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Permission denied. Admins only!"})
			return
		}
		c.Next()
	}
}

// RequireSelf passes only callers whose user id claim matches the :user_id
// path parameter. Both sides are compared as integers.
func RequireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
			return
		}
		pathID, errParse := pathUserID(c)
		if errParse != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
			return
		}
		if principal.UserID != pathID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Permission denied. You are unauthorized to access!"})
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin passes callers that either own the :user_id path
// parameter or carry the Admin role claim.
func RequireSelfOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
			return
		}
		if principal.IsAdmin() {
			c.Next()
			return
		}
		pathID, errParse := pathUserID(c)
		if errParse != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
			return
		}
		if principal.UserID != pathID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Permission denied. You can only update your own information or you must be an admin."})
			return
		}
		c.Next()
	}
}

func pathUserID(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(c.Param("user_id")), 10, 64)
}
