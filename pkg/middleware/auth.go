package middleware

import (
	"strings"

	"etegie-bot/backend/pkg/errors"
	"etegie-bot/backend/pkg/jwt"
	"etegie-bot/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TokenValidator is satisfied by *jwt.Service
type TokenValidator interface {
	ValidateToken(token string) (*jwt.JWTClaims, error)
}

// JWTAuthMiddleware checks that the request has a valid JWT and adds claims to the context
func JWTAuthMiddleware(validator TokenValidator, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.Error(errors.NewUnauthorizedError("AUTH_REQUIRED", "Authorization header is required"))
			c.Abort()
			return
		}

		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := validator.ValidateToken(token)
		if err != nil {
			log.Warn("Invalid JWT token", "error", err.Error())
			c.Error(errors.NewUnauthorizedError(errors.CodeInvalidToken, "Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("companyId", claims.CompanyID)

		c.Next()
	}
}

// RequireCompanyAccess rejects tokens issued for a company other than the one named by the path param
func RequireCompanyAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get("claims")
		if !exists {
			c.Error(errors.NewUnauthorizedError("AUTH_REQUIRED", "Authentication required"))
			c.Abort()
			return
		}

		claims, ok := raw.(*jwt.JWTClaims)
		if !ok {
			c.Error(errors.NewInternalServerError("INVALID_CLAIMS", "Invalid JWT claims format"))
			c.Abort()
			return
		}

		if !claims.CanAccess(c.Param(param)) {
			c.Error(errors.NewForbiddenError(errors.CodeForbidden, "Token does not grant access to this company"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// CompanyOrClientKey limits per tenant when the request names one, per IP otherwise
func CompanyOrClientKey(c *gin.Context) string {
	if id := c.GetString("companyId"); id != "" {
		return "company:" + id
	}
	if id := c.Param("companyId"); id != "" {
		return "company:" + id
	}
	return "ip:" + c.ClientIP()
}
