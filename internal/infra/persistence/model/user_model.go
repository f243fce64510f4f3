package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	Username     string    `gorm:"type:varchar(255);unique;not null"`
	FullName     string    `gorm:"type:varchar(100)"`
	AvatarPath   string    `gorm:"type:varchar(255)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Recipes   []RecipeModel   `gorm:"foreignKey:OwnerID"`
	Followers []FollowModel   `gorm:"foreignKey:FollowedID"`
	Following []FollowModel   `gorm:"foreignKey:FollowerID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// FollowModel mirrors the 'follows' table. The composite primary key makes
// a follower/followed pair unique at the database level.
type FollowModel struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	FollowedID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (FollowModel) TableName() string {
	return "follows"
}
