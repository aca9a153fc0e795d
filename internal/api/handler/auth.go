package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs3c/sports_content_server/internal/api/middleware"
	"github.com/qs3c/sports_content_server/internal/model/dto"
	"github.com/qs3c/sports_content_server/internal/pkg/response"
	"github.com/qs3c/sports_content_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	cookie      *middleware.SessionCookie
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, cookie *middleware.SessionCookie, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

// Register 用户注册
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Created(c, dto.NewUserInfo(user))
}

// Login 用户登录
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.cookie.Set(c, token)
	response.Success(c, dto.NewUserInfo(user))
}

// Logout 退出登录
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), h.cookie.Read(c)); err != nil {
		h.logger.Warn("failed to destroy session", zap.Error(err))
	}

	h.cookie.Clear(c)
	response.Success(c, dto.MessageResponse{Message: "Logged out successfully"})
}

// Me 获取当前登录用户
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.AuthError(c, "Not authenticated")
		return
	}

	response.Success(c, dto.NewUserInfo(user))
}

// GithubLogin 跳转到 GitHub 授权页
// GET /api/auth/github?returnTo=/history
func (h *AuthHandler) GithubLogin(c *gin.Context) {
	url, err := h.authService.GithubAuthURL(c.Request.Context(), c.Query("returnTo"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GithubCallback GitHub 授权回调
// GET /api/auth/github/callback
func (h *AuthHandler) GithubCallback(c *gin.Context) {
	user, token, returnTo, err := h.authService.GithubCallback(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("github login", zap.Int64("user_id", user.ID))
	h.cookie.Set(c, token)
	c.Redirect(http.StatusTemporaryRedirect, returnTo)
}
