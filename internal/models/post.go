package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a blog entry owned by exactly one account for its whole life.
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Paragraph string    `gorm:"type:text;not null" json:"paragraph"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Post.
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PostEvent is published on every successful post mutation.
type PostEvent struct {
	Type   string `json:"type"`
	PostID string `json:"post_id"`
	UserID string `json:"user_id"`
	Title  string `json:"title,omitempty"`
}

// Post event types.
const (
	EventPostCreated = "blog.created"
	EventPostUpdated = "blog.updated"
	EventPostDeleted = "blog.deleted"
)
