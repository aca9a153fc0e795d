package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs3c/sports_content_server/internal/model"
	"github.com/qs3c/sports_content_server/internal/pkg/response"
	"github.com/qs3c/sports_content_server/internal/service"
)

const (
	UserIDKey = "userID"
	UserKey   = "user"
)

// Authenticator 根据 cookie 值解析用户
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Auth 会话认证中间件
func Auth(auth Authenticator, cookie *SessionCookie, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.Authenticate(c.Request.Context(), cookie.Read(c))
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				response.AuthError(c, "Not authenticated")
				return
			}
			logger.Error("session lookup failed", zap.Error(err))
			response.ServerError(c, "")
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}

// GetUser 从上下文获取当前用户
func GetUser(c *gin.Context) (*model.User, bool) {
	user, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}
