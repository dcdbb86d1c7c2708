package server

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	customerdomain "github.com/drivio/drivio/internal/customer/domain"
	"go.uber.org/zap"
)

// Identity headers are stamped by the auth gateway in front of this
// service; token verification never happens here.
const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"

	ctxUserID   = "identity.user_id"
	ctxUserRole = "identity.role"
)

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// IdentityRequired parses the gateway identity headers and rejects the
// request when they are absent or malformed.
func IdentityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(headerUserID))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		role := customerdomain.Role(strings.TrimSpace(c.GetHeader(headerUserRole)))
		if role == "" {
			role = customerdomain.RoleUser
		}

		c.Set(ctxUserID, id)
		c.Set(ctxUserRole, role)
		c.Next()
	}
}

func RoleRequired(roles ...customerdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actual := actorRole(c)
		for _, role := range roles {
			if actual == role {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

func actorID(c *gin.Context) snowflake.ID {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(snowflake.ID); ok {
			return id
		}
	}
	return 0
}

func actorRole(c *gin.Context) customerdomain.Role {
	if v, ok := c.Get(ctxUserRole); ok {
		if role, ok := v.(customerdomain.Role); ok {
			return role
		}
	}
	return customerdomain.RoleUser
}
