package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// StringList stores a slice of strings as a JSONB column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}

	data, err := json.Marshal(l)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal string list")
	}

	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = StringList{}

		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported string list source type %T", value)
	}

	return errors.Wrap(json.Unmarshal(data, l), "failed to unmarshal string list")
}

// GormDataType tells GORM which column type to use for migrations.
func (StringList) GormDataType() string {
	return "jsonb"
}

// RecipeModel mirrors the 'recipes' table. LikesCount is a denormalized
// counter maintained in the same transaction as the likes rows.
type RecipeModel struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerID             uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name                string     `gorm:"type:varchar(200);not null"`
	Description         string     `gorm:"type:text"`
	Instructions        StringList `gorm:"type:jsonb"`
	Cuisine             string     `gorm:"type:varchar(100);index"`
	Difficulty          string     `gorm:"type:varchar(20)"`
	CookingTime         int
	PreparationTime     int
	Servings            int
	DietaryRestrictions StringList `gorm:"type:jsonb"`
	Tags                StringList `gorm:"type:jsonb"`
	ImagePath           string     `gorm:"type:varchar(255)"`
	LikesCount          int        `gorm:"not null;default:0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Owner    *UserModel     `gorm:"foreignKey:OwnerID"`
	Likes    []LikeModel    `gorm:"foreignKey:RecipeID"`
	Comments []CommentModel `gorm:"foreignKey:RecipeID"`
}

// TableName explicitly sets the table name for GORM.
func (RecipeModel) TableName() string {
	return "recipes"
}

// LikeModel mirrors the 'likes' table. The composite primary key makes
// a user/recipe pair unique at the database level.
type LikeModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (LikeModel) TableName() string {
	return "likes"
}

// CommentModel mirrors the 'comments' table.
type CommentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CommentModel) TableName() string {
	return "comments"
}
