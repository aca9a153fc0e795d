package model

import (
	"time"
)

type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        *string   `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash *string   `gorm:"size:255" json:"-"`
	GithubID     *string   `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`
	Plan         string    `gorm:"size:20;not null;default:free" json:"plan"` // free, pro, enterprise
	CreatedAt    time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}
