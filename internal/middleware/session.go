package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ootdlab/ootd-backend/internal/logger"
	"github.com/ootdlab/ootd-backend/internal/repos"
	"github.com/ootdlab/ootd-backend/internal/requestdata"
)

// SessionMiddleware resolves the acting user from the X-User-ID header and
// attaches it to the request context. The user must already exist; the public
// POST /users endpoint is how one comes into being.
type SessionMiddleware struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewSessionMiddleware(log *logger.Logger, userRepo repos.UserRepo) *SessionMiddleware {
	middlewareLogger := log.With("Middleware", "SessionMiddleware")
	return &SessionMiddleware{log: middlewareLogger, userRepo: userRepo}
}

func (sm *SessionMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-ID header"})
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid X-User-ID header"})
			return
		}
		exists, err := sm.userRepo.Exists(c.Request.Context(), nil, userID)
		if err != nil {
			sm.log.Error("Failed to resolve user", "user_id", raw, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
			return
		}
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{UserID: userID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
