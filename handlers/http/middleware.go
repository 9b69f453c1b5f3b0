package httpHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"recipe-server/entities"
	"recipe-server/usecases"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// TokenAuth resolves "Authorization: Token <key>" (or Bearer) to a user and
// aborts with 401 when that fails.
func TokenAuth(useCase *usecases.UserUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, key, ok := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
		if !ok || !(strings.EqualFold(scheme, "Token") || strings.EqualFold(scheme, "Bearer")) {
			unauthorized(c, "Authentication credentials were not provided.")
			return
		}

		user, err := useCase.Authenticate(strings.TrimSpace(key))
		if errors.Is(err, usecases.ErrInvalidCredentials) {
			unauthorized(c, "Invalid token.")
			return
		}
		if err != nil {
			log.Printf("Token lookup failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// StaffOnly lets through authenticated staff users only.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := currentUser(c); user == nil || !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action."})
			return
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Token")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}

func currentUser(c *gin.Context) *entities.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*entities.User); ok {
			return user
		}
	}
	return nil
}
