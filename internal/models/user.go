package models

import (
	"time"
)

// User is a registered account. Login is by email.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
	Username     string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	FirstName    string    `gorm:"size:150;not null" json:"first_name"`
	LastName     string    `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
}

// Follow links a subscriber (User) to an author they follow.
type Follow struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_follow_user_author" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_follow_user_author;index" json:"author_id"`
	Author    *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
