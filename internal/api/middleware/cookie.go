package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/sports_content_server/config"
)

// SessionCookie 会话 cookie 的读写
type SessionCookie struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

func NewSessionCookie(cfg config.SessionConfig) *SessionCookie {
	return &SessionCookie{
		Name:   cfg.CookieName,
		MaxAge: cfg.MaxAge,
		Secure: cfg.Secure,
	}
}

// Read 读取 cookie 值，不存在时返回空串
func (s *SessionCookie) Read(c *gin.Context) string {
	value, err := c.Cookie(s.Name)
	if err != nil {
		return ""
	}
	return value
}

// Set 写入会话 cookie
func (s *SessionCookie) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, token, int(s.MaxAge.Seconds()), "/", "", s.Secure, true)
}

// Clear 让浏览器删除会话 cookie
func (s *SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, "", -1, "/", "", s.Secure, true)
}
