package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs3c/sports_content_server/internal/model/dto"
	"github.com/qs3c/sports_content_server/internal/pkg/oauth"
	"github.com/qs3c/sports_content_server/internal/pkg/session"
	"github.com/qs3c/sports_content_server/internal/repository"
	"github.com/qs3c/sports_content_server/internal/testutil"
)

type stubGithub struct {
	profile *oauth.GithubProfile
	err     error
}

func (s *stubGithub) AuthURL(state string) string {
	return "https://github.example/login?state=" + url.QueryEscape(state)
}

func (s *stubGithub) FetchProfile(ctx context.Context, code string) (*oauth.GithubProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	rdb, _ := testutil.SetupTestRedis(t)
	userRepo := repository.NewUserRepository(db)

	sessions := session.NewStore(rdb, "test-session-secret", time.Hour)
	service := NewAuthService(userRepo, sessions, oauth.NewStateStore(rdb), zap.NewNop())

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestAuthService_Register_Success(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	req := &dto.RegisterRequest{
		Email:    "newuser@example.com",
		Username: "newuser",
		Password: "password123",
	}

	user, err := service.Register(req)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "free", user.Plan)
	require.NotNil(t, user.PasswordHash)
	assert.NotEqual(t, "password123", *user.PasswordHash)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.Register(&dto.RegisterRequest{Username: "dup", Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = service.Register(&dto.RegisterRequest{Username: "dup", Email: "b@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()
	userRepo := repository.NewUserRepository(db)

	// First registration
	_, err := service.Register(&dto.RegisterRequest{Username: "user1", Email: "duplicate@example.com", Password: "password123"})
	require.NoError(t, err)

	// Second registration with same email
	_, err = service.Register(&dto.RegisterRequest{Username: "user2", Email: "duplicate@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailExists)

	exists, err := userRepo.ExistsByUsername("user2")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.Register(&dto.RegisterRequest{Username: "shorty", Email: "s@example.com", Password: "1234567"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Login_Success(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.Register(&dto.RegisterRequest{Username: "loginuser", Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)

	user, token, err := service.Login(context.Background(), &dto.LoginRequest{Username: "loginuser", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "loginuser", user.Username)
	assert.NotEmpty(t, token)

	current, err := service.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)
}

func TestAuthService_Login_UsernameWithSurroundingSpaces(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	registered, err := service.Register(&dto.RegisterRequest{Username: " bob ", Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "bob", registered.Username)

	for _, typed := range []string{" bob ", "bob"} {
		user, token, err := service.Login(context.Background(), &dto.LoginRequest{Username: typed, Password: "password123"})
		require.NoError(t, err, "login as %q", typed)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, token)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.Register(&dto.RegisterRequest{Username: "wrongpw", Email: "wrong@example.com", Password: "password123"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "wrongpw", "wrongpassword"},
		{"unknown user", "ghost", "password123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, token, err := service.Login(context.Background(), &dto.LoginRequest{Username: tt.username, Password: tt.password})
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Empty(t, token)
		})
	}
}

func TestAuthService_Login_OAuthOnlyUser(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()

	user := testutil.TestUser(t, db, testutil.WithGithubID("77"))

	_, _, err := service.Login(context.Background(), &dto.LoginRequest{Username: user.Username, Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Authenticate_Invalid(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = service.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Logout(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.Register(&dto.RegisterRequest{Username: "bye", Email: "bye@example.com", Password: "password123"})
	require.NoError(t, err)
	_, token, err := service.Login(context.Background(), &dto.LoginRequest{Username: "bye", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), token))

	_, err = service.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// 重复登出不报错
	assert.NoError(t, service.Logout(context.Background(), token))
	assert.NoError(t, service.Logout(context.Background(), ""))
}

func TestAuthService_Github_Disabled(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	_, err := service.GithubAuthURL(context.Background(), "/")
	assert.ErrorIs(t, err, ErrOAuthDisabled)
	_, _, _, err = service.GithubCallback(context.Background(), "state", "code")
	assert.ErrorIs(t, err, ErrOAuthDisabled)
}

func TestAuthService_GithubCallback_CreatesUser(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()
	userRepo := repository.NewUserRepository(db)

	service.WithGithub(&stubGithub{profile: &oauth.GithubProfile{ID: 9001, Login: "octo", Email: "octo@example.com"}})

	authURL, err := service.GithubAuthURL(context.Background(), "/history")
	require.NoError(t, err)
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)

	user, token, returnTo, err := service.GithubCallback(context.Background(), state, "code")
	require.NoError(t, err)
	assert.Equal(t, "octo", user.Username)
	assert.Equal(t, "/history", returnTo)
	assert.NotEmpty(t, token)

	found, err := userRepo.GetByGithubID("9001")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	require.NotNil(t, found.Email)
	assert.Equal(t, "octo@example.com", *found.Email)

	// state 只能使用一次
	_, _, _, err = service.GithubCallback(context.Background(), state, "code")
	assert.ErrorIs(t, err, ErrOAuthState)
}

func TestAuthService_GithubCallback_ExistingUserAndTakenUsername(t *testing.T) {
	service, db, cleanup := setupAuthService(t)
	defer cleanup()
	userRepo := repository.NewUserRepository(db)

	_, err := service.Register(&dto.RegisterRequest{Username: "octo", Email: "octo@example.com", Password: "password123"})
	require.NoError(t, err)

	service.WithGithub(&stubGithub{profile: &oauth.GithubProfile{ID: 42, Login: "octo", Email: "octo@example.com"}})

	login := func() (int64, string) {
		authURL, err := service.GithubAuthURL(context.Background(), "//evil.example")
		require.NoError(t, err)
		parsed, _ := url.Parse(authURL)
		user, _, returnTo, err := service.GithubCallback(context.Background(), parsed.Query().Get("state"), "code")
		require.NoError(t, err)
		return user.ID, returnTo
	}

	firstID, returnTo := login()
	assert.Equal(t, "/", returnTo)

	created, err := userRepo.GetByID(firstID)
	require.NoError(t, err)
	assert.Equal(t, "octo_42", created.Username)
	assert.Nil(t, created.Email)

	secondID, _ := login()
	assert.Equal(t, firstID, secondID)
}

func TestAuthService_GithubCallback_ProviderError(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	service.WithGithub(&stubGithub{err: errors.New("bad code")})

	authURL, err := service.GithubAuthURL(context.Background(), "/")
	require.NoError(t, err)
	parsed, _ := url.Parse(authURL)

	_, _, _, err = service.GithubCallback(context.Background(), parsed.Query().Get("state"), "code")
	assert.Error(t, err)
}

func TestSafeReturnPath(t *testing.T) {
	assert.Equal(t, "/history", safeReturnPath("/history"))
	assert.Equal(t, "/", safeReturnPath(""))
	assert.Equal(t, "/", safeReturnPath("https://evil.example"))
	assert.Equal(t, "/", safeReturnPath("//evil.example"))
	assert.Equal(t, "/", safeReturnPath(`/\evil.example`))
}
