package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// 内容类型
const (
	ContentTypeArticle = "article"
	ContentTypeScript  = "script"
)

// ContentMetadata 生成内容的元数据，以 JSON 列保存
type ContentMetadata struct {
	WordCount     int      `json:"wordCount"`
	SuggestedTags []string `json:"suggestedTags"`
	Created       string   `json:"created"`
}

func (m ContentMetadata) Value() (driver.Value, error) {
	if m.SuggestedTags == nil {
		m.SuggestedTags = []string{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (m *ContentMetadata) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*m = ContentMetadata{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported metadata type %T", value)
	}
}

type ContentItem struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	UserID    int64           `gorm:"not null;index" json:"userId"`
	Topic     string          `gorm:"size:500;not null" json:"topic"`
	Type      string          `gorm:"size:20;not null" json:"type"` // article, script
	SportType string          `gorm:"size:100;not null" json:"sportType"`
	Prompt    string          `gorm:"type:text;not null" json:"prompt"`
	Content   string          `gorm:"type:longtext;not null" json:"content"`
	Metadata  ContentMetadata `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time       `gorm:"index" json:"createdAt"`

	// 关联
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ContentItem) TableName() string {
	return "content_items"
}
