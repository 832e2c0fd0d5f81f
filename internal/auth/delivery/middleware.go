package delivery

import (
	"errors"
	"net/http"
	"strings"

	"itam-backend/internal/auth/usecase"
	"itam-backend/pkg/token"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware guards administrative routes with the session token
// issued at login.
func AdminMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		username, err := authUsecase.ValidateSession(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("username", username)
		c.Next()
	}
}

// FormTokenMiddleware verifies the capability token carried in the
// link's query component before a recipient-facing handler runs. The
// raw token is stashed for the handler; single-use enforcement happens
// against the store, not here.
func FormTokenMiddleware(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
			c.Abort()
			return
		}

		claims, err := issuer.Verify(tokenString)
		if err != nil {
			status := http.StatusUnauthorized
			msg := "invalid token"
			if errors.Is(err, token.ErrTokenExpired) {
				msg = "token expired"
			}
			c.JSON(status, gin.H{"error": msg})
			c.Abort()
			return
		}

		c.Set("formToken", tokenString)
		c.Set("formIdentifier", claims.Identifier)
		c.Next()
	}
}
