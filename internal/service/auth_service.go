package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/sports_content_server/config"
	"github.com/qs3c/sports_content_server/internal/model"
	"github.com/qs3c/sports_content_server/internal/model/dto"
	"github.com/qs3c/sports_content_server/internal/pkg/oauth"
	"github.com/qs3c/sports_content_server/internal/pkg/session"
	"github.com/qs3c/sports_content_server/internal/repository"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("not authenticated")
	ErrOAuthDisabled      = errors.New("github login is not configured")
	ErrOAuthState         = errors.New("invalid or expired oauth state")
)

// GithubProvider GitHub 授权与资料读取
type GithubProvider interface {
	AuthURL(state string) string
	FetchProfile(ctx context.Context, code string) (*oauth.GithubProfile, error)
}

type AuthService struct {
	userRepo *repository.UserRepository
	sessions *session.Store
	states   *oauth.StateStore
	github   GithubProvider
	logger   *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, sessions *session.Store, states *oauth.StateStore, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		states:   states,
		logger:   logger,
	}
}

// WithGithub 启用 GitHub 登录
func (s *AuthService) WithGithub(provider GithubProvider) *AuthService {
	s.github = provider
	return s
}

// NewGithubFromConfig 按配置创建 GitHub 登录，未配置时返回 nil
func NewGithubFromConfig(cfg config.GithubOAuthConfig) GithubProvider {
	if !cfg.Enabled() {
		return nil
	}
	return oauth.NewGithubProvider(cfg)
}

// Register 用户注册
func (s *AuthService) Register(req *dto.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	// 检查用户名是否存在
	exists, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	// 检查邮箱是否存在
	exists, err = s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	// 加密密码
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	passwordStr := string(hashed)

	user := &model.User{
		Username:     username,
		Email:        &email,
		PasswordHash: &passwordStr,
		Plan:         config.PlanFree,
	}
	if err := s.userRepo.Create(user); err != nil {
		// 并发注册时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if taken, _ := s.userRepo.ExistsByEmail(email); taken {
				return nil, ErrEmailExists
			}
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login 用户登录，成功时返回用户和新会话的 cookie 值
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*model.User, string, error) {
	// 与注册时一致，用户名去除首尾空白
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	// 仅通过 GitHub 注册的用户没有密码
	if user.PasswordHash == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate 根据 cookie 值解析当前用户
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	sess, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(sess.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// Logout 销毁会话，会话不存在时同样视为成功
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, token)
}

// GithubAuthURL 生成 GitHub 授权地址
func (s *AuthService) GithubAuthURL(ctx context.Context, returnTo string) (string, error) {
	if s.github == nil {
		return "", ErrOAuthDisabled
	}

	state, err := s.states.Generate(ctx, safeReturnPath(returnTo))
	if err != nil {
		return "", err
	}
	return s.github.AuthURL(state), nil
}

// GithubCallback 处理 GitHub 回调，返回用户、cookie 值和登录后的跳转地址
func (s *AuthService) GithubCallback(ctx context.Context, state, code string) (*model.User, string, string, error) {
	if s.github == nil {
		return nil, "", "", ErrOAuthDisabled
	}

	returnTo, err := s.states.Consume(ctx, state)
	if err != nil {
		if errors.Is(err, oauth.ErrInvalidState) {
			return nil, "", "", ErrOAuthState
		}
		return nil, "", "", err
	}
	if code == "" {
		return nil, "", "", fmt.Errorf("%w: missing authorization code", ErrValidation)
	}

	profile, err := s.github.FetchProfile(ctx, code)
	if err != nil {
		return nil, "", "", fmt.Errorf("github login: %w", err)
	}

	user, err := s.findOrCreateGithubUser(profile)
	if err != nil {
		return nil, "", "", err
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", "", err
	}
	return user, token, returnTo, nil
}

func (s *AuthService) findOrCreateGithubUser(profile *oauth.GithubProfile) (*model.User, error) {
	githubID := fmt.Sprintf("%d", profile.ID)

	user, err := s.userRepo.GetByGithubID(githubID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	username, err := s.availableUsername(profile.Login, githubID)
	if err != nil {
		return nil, err
	}

	user = &model.User{
		Username: username,
		GithubID: &githubID,
		Plan:     config.PlanFree,
	}

	// 邮箱已被其他账号占用时不绑定
	if profile.Email != "" {
		taken, err := s.userRepo.ExistsByEmail(profile.Email)
		if err != nil {
			return nil, err
		}
		if !taken {
			email := profile.Email
			user.Email = &email
		}
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered via github", zap.Int64("user_id", user.ID), zap.String("github_id", githubID))
	return user, nil
}

func (s *AuthService) availableUsername(login, githubID string) (string, error) {
	candidates := []string{login, login + "_" + githubID, "github_" + githubID}
	for _, name := range candidates {
		if name == "" || len(name) > 50 {
			continue
		}
		exists, err := s.userRepo.ExistsByUsername(name)
		if err != nil {
			return "", err
		}
		if !exists {
			return name, nil
		}
	}
	return "", ErrUsernameExists
}

// safeReturnPath 只允许站内相对路径
func safeReturnPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, `\`) {
		return "/"
	}
	return p
}
