package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category types, the axes a category classifies along.
const (
	CategoryMealType      = "meal_type"
	CategoryCuisine       = "cuisine"
	CategoryDiet          = "diet"
	CategoryOccasion      = "occasion"
	CategoryCookingMethod = "cooking_method"
)

type Category struct {
	ID        uuid.UUID  `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Slug      string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Name      string     `gorm:"size:120;not null" json:"name"`
	Type      string     `gorm:"size:32;not null;index" json:"type"`
	ParentID  *uuid.UUID `gorm:"type:uuid" json:"parent_id"`
	SortOrder int        `gorm:"not null;default:0" json:"sort_order"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// RecipeCategory links a recipe to a category. The authoring UI keeps at most
// one meal_type and one cuisine per recipe; the table does not enforce it.
type RecipeCategory struct {
	RecipeID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"recipe_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey" json:"category_id"`
}

func (RecipeCategory) TableName() string {
	return "recipe_categories"
}
