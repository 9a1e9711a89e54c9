package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// UserIDKey is the context key for the acting user's id.
	UserIDKey = "user_id"
	// UserIDHeader carries the authenticated user id, set by the upstream
	// gateway after it has verified the session. Authentication itself
	// happens before requests reach this service.
	UserIDHeader = "X-User-ID"
)

// Identity extracts the acting user id from the gateway header and stores it
// in the request context. Every record in the store is scoped to this id, so
// requests without a valid one are rejected before any handler runs.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			unauthorized(c, "Missing "+UserIDHeader+" header")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			unauthorized(c, "Invalid "+UserIDHeader+" header")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID retrieves the acting user id from the Gin context. Returns
// uuid.Nil if the Identity middleware has not run.
func GetUserID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(UserIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// unauthorized writes the error envelope inline: the errors package depends
// on this one, so it cannot be imported here.
func unauthorized(c *gin.Context, message string) {
	if log := GetLogger(c); log != nil {
		log.Warn("Request without valid identity", map[string]interface{}{
			"path":       c.Request.URL.Path,
			"request_id": GetRequestID(c),
		})
	}

	c.JSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":       "UNAUTHORIZED",
			"message":    message,
			"request_id": GetRequestID(c),
		},
	})
	c.Abort()
}
