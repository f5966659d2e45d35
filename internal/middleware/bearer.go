package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/fee-tracker-console/internal/repository"
	"github.com/noah-isme/fee-tracker-console/pkg/logger"
)

// Bearer forwards a caller supplied credential to the fee service in place of
// the stored one. The token is never verified here; when it parses as a JWT its
// subject is attached to the request log. Requests without a token pass through.
func Bearer() gin.HandlerFunc {
	parser := jwt.NewParser()
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(repository.WithBearerToken(c.Request.Context(), token))

		claims := jwt.MapClaims{}
		if _, _, err := parser.ParseUnverified(token, claims); err == nil {
			if subject, err := claims.GetSubject(); err == nil && subject != "" {
				c.Set(logger.SubjectKey, subject)
			}
		}
		c.Next()
	}
}
