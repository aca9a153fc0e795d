package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/sports_content_server/internal/model"
)

// TestPassword 测试用户的明文密码
const TestPassword = "password123"

var (
	fixtureSeq   atomic.Int64
	passwordHash = mustHash(TestPassword)
)

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

// TestUser 创建测试用户，密码为 TestPassword
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := fixtureSeq.Add(1)
	email := fmt.Sprintf("test_%d@example.com", n)
	hash := passwordHash
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", n),
		Email:        &email,
		PasswordHash: &hash,
		Plan:         "free",
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithPlan 设置订阅套餐
func WithPlan(plan string) func(*model.User) {
	return func(u *model.User) {
		u.Plan = plan
	}
}

// WithGithubID 设置 GitHub 账号并去掉密码
func WithGithubID(githubID string) func(*model.User) {
	return func(u *model.User) {
		u.GithubID = &githubID
		u.PasswordHash = nil
	}
}

// TestContent 创建测试内容
func TestContent(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.ContentItem)) *model.ContentItem {
	t.Helper()

	item := &model.ContentItem{
		UserID:    userID,
		Topic:     fmt.Sprintf("Test Topic %d", fixtureSeq.Add(1)),
		Type:      model.ContentTypeArticle,
		SportType: "football",
		Prompt:    "Write an article",
		Content:   "Generated test content",
		Metadata: model.ContentMetadata{
			WordCount:     3,
			SuggestedTags: []string{"test"},
			Created:       time.Now().UTC().Format(time.RFC3339),
		},
	}

	for _, opt := range opts {
		opt(item)
	}

	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to create test content: %v", err)
	}

	return item
}

// WithContentType 设置内容类型
func WithContentType(contentType string) func(*model.ContentItem) {
	return func(c *model.ContentItem) {
		c.Type = contentType
	}
}

// WithTopic 设置话题
func WithTopic(topic string) func(*model.ContentItem) {
	return func(c *model.ContentItem) {
		c.Topic = topic
	}
}

// WithCreatedAt 设置创建时间
func WithCreatedAt(createdAt time.Time) func(*model.ContentItem) {
	return func(c *model.ContentItem) {
		c.CreatedAt = createdAt
	}
}
