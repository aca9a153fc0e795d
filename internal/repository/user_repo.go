package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/sports_content_server/internal/model"
)

// UserRepository 账号只会被创建和查询，不提供更新
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 唯一索引冲突时返回 gorm.ErrDuplicatedKey
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	return r.findOne("id = ?", id)
}

// GetByUsername 密码登录按用户名查找
func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	return r.findOne("username = ?", username)
}

// GetByGithubID GitHub 登录按 GitHub 账号 id 查找
func (r *UserRepository) GetByGithubID(githubID string) (*model.User, error) {
	return r.findOne("github_id = ?", githubID)
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	return r.exists("email = ?", email)
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	return r.exists("username = ?", username)
}

func (r *UserRepository) findOne(query string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.Where(query, arg).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) exists(query string, arg interface{}) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where(query, arg).Count(&count).Error
	return count > 0, err
}
