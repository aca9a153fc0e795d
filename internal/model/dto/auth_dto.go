package dto

import (
	"time"

	"github.com/qs3c/sports_content_server/internal/model"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserInfo 用户信息（不含密码）
type UserInfo struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     *string `json:"email,omitempty"`
	Plan      string  `json:"plan"`
	CreatedAt string  `json:"createdAt"`
}

// NewUserInfo 从用户模型构造返回给前端的信息
func NewUserInfo(u *model.User) *UserInfo {
	return &UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Plan:      u.Plan,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// MessageResponse 简单消息
type MessageResponse struct {
	Message string `json:"message"`
}
