package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ludus-server/internal/auth"
	"ludus-server/internal/domain"
	"ludus-server/internal/service"
)

const principalKey = "principal"

// Principal returns the authenticated account attached to the request,
// if the token filter resolved one.
func Principal(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}

// tokenFilter runs once per request. No Authorization header means the
// request continues anonymously; a present header must carry a valid
// token whose subject resolves to an active account, or the request is
// aborted with a bare 403. No failure detail reaches the response body.
func tokenFilter(codec *auth.Codec, users service.UserService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := codec.Verify(token)
		if err != nil {
			logger.WithError(err).Warn("token rejected")
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		user, err := users.LoadActiveByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			logger.WithError(err).Warn("token principal rejected")
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

// requireAuthority gates a route on a derived authority. A request with
// no principal gets the entry-point treatment: 401 with a JSON message,
// distinct from the filter's bare 403 for invalid tokens.
func requireAuthority(required domain.Authority) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := Principal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Access denied. You need to log in to access this resource.",
			})
			return
		}
		for _, a := range domain.AuthoritiesFor(user.Role) {
			if a == required {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message": "Access denied. You do not have permission to access this resource.",
		})
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Writer.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		}).Info("request")
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
