package types

import "github.com/google/uuid"

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type IngredientInput struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
	Name   string `json:"name" binding:"required"`
}

type DirectionInput struct {
	Instruction string `json:"instruction" binding:"required"`
	ImageURL    string `json:"image_url"`
}

type NutritionInput struct {
	Calories *float64 `json:"calories"`
	FatG     *float64 `json:"fat_g"`
	CarbsG   *float64 `json:"carbs_g"`
	ProteinG *float64 `json:"protein_g"`
}

// CreateRecipeRequest carries everything an author submits for a new recipe.
// Ingredients and directions are ordered; their position is the sort order.
type CreateRecipeRequest struct {
	Title           string            `json:"title" binding:"required"`
	Description     string            `json:"description"`
	WhyYoullLove    []string          `json:"why_youll_love"`
	PrepTimeMinutes int               `json:"prep_time_minutes" binding:"gte=0"`
	CookTimeMinutes int               `json:"cook_time_minutes" binding:"gte=0"`
	Servings        int               `json:"servings" binding:"required,gte=1"`
	SkillLevel      string            `json:"skill_level" binding:"omitempty,oneof=lako srednje tesko"`
	ImageURL        string            `json:"image_url"`
	CategoryIDs     []uuid.UUID       `json:"category_ids"`
	Ingredients     []IngredientInput `json:"ingredients" binding:"required,min=1,dive"`
	Directions      []DirectionInput  `json:"directions" binding:"required,min=1,dive"`
	Nutrition       *NutritionInput   `json:"nutrition"`
}

// UpdateRecipeRequest has the same shape as create; ingredients, directions
// and category links are fully replaced on every update.
type UpdateRecipeRequest = CreateRecipeRequest

type RateRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	Stars    int       `json:"stars" binding:"required,min=1,max=5"`
}

type ReviewRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	Content  string    `json:"content" binding:"required"`
}

type CommentRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	Content  string    `json:"content" binding:"required"`
}

type ModerateRequest struct {
	Action string `json:"action" binding:"required,oneof=approve deny"`
}
