package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Username  string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Password  string    `gorm:"not null;column:password" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
