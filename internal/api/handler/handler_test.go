package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs3c/sports_content_server/config"
	"github.com/qs3c/sports_content_server/internal/api/middleware"
	"github.com/qs3c/sports_content_server/internal/model"
	"github.com/qs3c/sports_content_server/internal/pkg/llm"
	"github.com/qs3c/sports_content_server/internal/pkg/oauth"
	"github.com/qs3c/sports_content_server/internal/pkg/response"
	"github.com/qs3c/sports_content_server/internal/pkg/session"
	"github.com/qs3c/sports_content_server/internal/repository"
	"github.com/qs3c/sports_content_server/internal/service"
	"github.com/qs3c/sports_content_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testCookie = &middleware.SessionCookie{Name: "sports_ai_session", MaxAge: time.Hour}

type testEnv struct {
	db      *gorm.DB
	fake    *testutil.FakeLLM
	auth    *service.AuthService
	content *service.ContentService
	topics  *service.TopicService
	quota   *service.QuotaService
	cfg     *config.Config
}

func setupEnv(t *testing.T, fake *testutil.FakeLLM) (*testEnv, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	rdb, _ := testutil.SetupTestRedis(t)
	logger := zap.NewNop()

	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	cfg := &config.Config{Plans: config.DefaultPlans()}
	client := llm.New(fake, config.OpenAIConfig{})

	quota := service.NewQuotaService(userRepo, contentRepo, cfg)
	env := &testEnv{
		db:      db,
		fake:    fake,
		auth:    service.NewAuthService(userRepo, session.NewStore(rdb, "handler-test-secret", time.Hour), oauth.NewStateStore(rdb), logger),
		content: service.NewContentService(contentRepo, userRepo, quota, client, logger),
		topics:  service.NewTopicService(client, logger),
		quota:   quota,
		cfg:     cfg,
	}

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return env, cleanup
}

// mockAuth 模拟已登录用户
func mockAuth(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		c.Set(middleware.UserKey, user)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	var body response.ErrorBody
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	return body
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}
