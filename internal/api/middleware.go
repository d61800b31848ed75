package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"maintenance-tracker/internal/auth"
	"maintenance-tracker/internal/model"
	"maintenance-tracker/internal/service"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// AuthRequired validates the bearer token and stores the caller identity
// on the request context.
func AuthRequired(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    string(service.CodeUnauthorized),
				"message": "missing bearer token",
			})
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    string(service.CodeUnauthorized),
				"message": "invalid or expired token",
			})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

func currentUserID(c *gin.Context) uint {
	id, _ := c.Get(ctxUserID)
	userID, _ := id.(uint)
	return userID
}

func currentRole(c *gin.Context) model.Role {
	value, _ := c.Get(ctxRole)
	role, _ := value.(model.Role)
	return role
}

// pathID parses a path segment as an unsigned integer id.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		writeError(c, &service.Error{Code: service.CodeValidation, Message: "invalid id " + raw})
		return 0, false
	}
	return uint(id), true
}

// writeError maps a domain error to its HTTP status and a {code, message}
// body.
func writeError(c *gin.Context, err error) {
	code := service.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case service.CodeNotFound:
		status = http.StatusNotFound
	case service.CodeUnauthorized:
		status = http.StatusForbidden
	case service.CodeValidation:
		status = http.StatusBadRequest
	}

	message := err.Error()
	if code == service.CodeServer {
		message = "internal server error"
	}
	c.JSON(status, gin.H{"code": string(code), "message": message})
}
