package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/danisyahputra/taskapi/internal/domain/entity"
	repo "github.com/danisyahputra/taskapi/internal/domain/repository"
	"github.com/danisyahputra/taskapi/pkg/helpers"
	"github.com/danisyahputra/taskapi/pkg/response"
)

// Identity is the resolved requester plus the exact token the request
// presented, so a handler can revoke precisely that session on logout.
type Identity struct {
	User  *entity.User
	Token string
}

const identityKey = "auth.identity"

// CurrentIdentity returns the identity attached by RequireAuth.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// RequireAuth authenticates a request: extract the bearer token, verify its
// signature and expiry, load the user it names, and confirm the token is
// still in the user's allow-list. Every failure produces the same outward
// 401; the cause is only logged.
func RequireAuth(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) gin.HandlerFunc {
	reject := func(c *gin.Context, reason string) {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"reason":     reason,
				"request_id": c.GetString("request_id"),
			}).Debug("authentication rejected")
		}
		response.Error[any](c, http.StatusUnauthorized, "please authenticate", nil)
		c.Abort()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			reject(c, "missing credential")
			return
		}

		claims, err := jwt.Parse(token)
		if err != nil {
			reject(c, "invalid credential")
			return
		}

		uid, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			reject(c, "malformed subject")
			return
		}
		u, err := users.GetByID(c.Request.Context(), uid)
		if err != nil || u == nil {
			reject(c, "unknown user")
			return
		}

		// A signed token that was logged out is no longer a session.
		if !slices.Contains(u.Tokens, token) {
			reject(c, "revoked token")
			return
		}

		c.Set(identityKey, Identity{User: u, Token: token})
		c.Next()
	}
}
