package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Recipe lifecycle states. Only published recipes appear in public listings.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Skill levels, as shown in the filter sidebar.
const (
	SkillEasy   = "lako"
	SkillMedium = "srednje"
	SkillHard   = "tesko"
)

// ValidSkillLevel reports whether level is one of the known skill levels.
func ValidSkillLevel(level string) bool {
	switch level {
	case SkillEasy, SkillMedium, SkillHard:
		return true
	}
	return false
}

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

type Recipe struct {
	ID              uuid.UUID        `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
	Slug            string           `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Title           string           `gorm:"size:255;not null" json:"title"`
	Description     string           `gorm:"type:text" json:"description"`
	WhyYoullLove    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"why_youll_love"`
	PrepTimeMinutes int              `gorm:"not null;default:0" json:"prep_time_minutes"`
	CookTimeMinutes int              `gorm:"not null;default:0" json:"cook_time_minutes"`
	Servings        int              `gorm:"not null;default:1" json:"servings"`
	SkillLevel      *string          `gorm:"size:16" json:"skill_level"`
	AuthorID        *uuid.UUID       `gorm:"type:uuid" json:"author_id"`
	AuthorName      string           `gorm:"size:120" json:"author_name"`
	ImageURL        string           `gorm:"size:512" json:"image_url"`
	Status          string           `gorm:"size:16;not null;default:'published';index" json:"status"`
	Embedding       pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TotalTimeMinutes is the derived prep + cook sum. It is never stored.
func (r *Recipe) TotalTimeMinutes() int {
	return r.PrepTimeMinutes + r.CookTimeMinutes
}

type Ingredient struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Amount    string    `gorm:"size:50" json:"amount"`
	Unit      string    `gorm:"size:50" json:"unit"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Direction struct {
	ID          uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	StepNumber  int       `gorm:"not null" json:"step_number"`
	Instruction string    `gorm:"type:text;not null" json:"instruction"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
}

func (d *Direction) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// RecipeNutrition holds optional per-recipe nutrition facts, one row per recipe.
type RecipeNutrition struct {
	RecipeID uuid.UUID `gorm:"type:uuid;primarykey" json:"recipe_id"`
	Calories *float64  `json:"calories"`
	FatG     *float64  `json:"fat_g"`
	CarbsG   *float64  `json:"carbs_g"`
	ProteinG *float64  `json:"protein_g"`
}
