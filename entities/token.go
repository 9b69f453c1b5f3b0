package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Token is the opaque bearer credential of a user. Each user has at most one.
type Token struct {
	Key       string    `gorm:"primaryKey;size:40" json:"token"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Token) BeforeCreate(tx *gorm.DB) (err error) {
	if t.Key == "" {
		t.Key = NewTokenKey()
	}
	return nil
}

// NewTokenKey returns 32 lowercase hex characters taken from a random UUID.
func NewTokenKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
