package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Moderation states shared by reviews and comments.
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationDenied   = "denied"
)

// Rating is a single user's 1-5 star rating of a recipe. One row per
// (user, recipe); repeat submissions overwrite via upsert.
type Rating struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_recipe;index" json:"recipe_id"`
	Stars     int       `gorm:"not null;check:stars >= 1 AND stars <= 5" json:"stars"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Review struct {
	ID         uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null" json:"user_id"`
	RecipeID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	Status     string         `gorm:"size:16;not null;default:'pending';index" json:"status"`
	ReviewedAt *time.Time     `json:"reviewed_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Comment struct {
	ID         uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null" json:"user_id"`
	RecipeID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	Status     string         `gorm:"size:16;not null;default:'pending';index" json:"status"`
	ReviewedAt *time.Time     `json:"reviewed_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// SavedRecipe is a user's bookmark of a recipe.
type SavedRecipe struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}
