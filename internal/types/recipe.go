package types

import (
	"time"

	"github.com/google/uuid"
)

// CategorySummary is the category shape attached to listing rows.
type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Slug string    `json:"slug"`
	Name string    `json:"name"`
}

// RatingStats aggregates the live rating rows of a recipe. Average is nil
// when the recipe has no ratings, so "unrated" is distinguishable from a
// zero average.
type RatingStats struct {
	Count   int      `json:"rating_count"`
	Average *float64 `json:"rating_avg"`
}

// RecipeSummary is a listing row: the recipe plus its categories and rating
// stats. TotalTimeMinutes is always derived, never read from storage.
type RecipeSummary struct {
	ID               uuid.UUID         `json:"id"`
	Slug             string            `json:"slug"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	PrepTimeMinutes  int               `json:"prep_time_minutes"`
	CookTimeMinutes  int               `json:"cook_time_minutes"`
	TotalTimeMinutes int               `json:"total_time_minutes"`
	Servings         int               `json:"servings"`
	SkillLevel       *string           `json:"skill_level"`
	AuthorName       string            `json:"author_name"`
	ImageURL         string            `json:"image_url"`
	CreatedAt        time.Time         `json:"created_at"`
	Categories       []CategorySummary `json:"categories"`
	RatingStats
}

// RelatedRecipe is a related-listing row: a recipe sharing at least one
// category with the source recipe, tagged with the first-seen category name.
type RelatedRecipe struct {
	ID               uuid.UUID `json:"id"`
	Slug             string    `json:"slug"`
	Title            string    `json:"title"`
	ImageURL         string    `json:"image_url"`
	PrepTimeMinutes  int       `json:"prep_time_minutes"`
	CookTimeMinutes  int       `json:"cook_time_minutes"`
	TotalTimeMinutes int       `json:"total_time_minutes"`
	CategoryName     string    `json:"category_name"`
	RatingStats
}

// FeaturedRecipe is a recent recipe with one representative review quote.
// The quote is nil when the recipe has no approved reviews.
type FeaturedRecipe struct {
	ID              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	ImageURL        string    `json:"image_url"`
	PrepTimeMinutes int       `json:"prep_time_minutes"`
	CookTimeMinutes int       `json:"cook_time_minutes"`
	AuthorName      string    `json:"author_name"`
	ReviewQuote     *string   `json:"review_quote"`
	RatingStats
}

// IngredientView mirrors a stored ingredient row in display order.
type IngredientView struct {
	ID        uuid.UUID `json:"id"`
	Amount    string    `json:"amount"`
	Unit      string    `json:"unit"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
}

// DirectionView mirrors a stored direction row in display order.
type DirectionView struct {
	ID          uuid.UUID `json:"id"`
	StepNumber  int       `json:"step_number"`
	Instruction string    `json:"instruction"`
	ImageURL    string    `json:"image_url"`
	SortOrder   int       `json:"sort_order"`
}

// NutritionView is the optional nutrition facts block of a recipe.
type NutritionView struct {
	Calories *float64 `json:"calories"`
	FatG     *float64 `json:"fat_g"`
	CarbsG   *float64 `json:"carbs_g"`
	ProteinG *float64 `json:"protein_g"`
}

// RecipeDetail is the full detail-page shape of a published recipe.
type RecipeDetail struct {
	RecipeSummary
	WhyYoullLove []string         `json:"why_youll_love"`
	Ingredients  []IngredientView `json:"ingredients"`
	Directions   []DirectionView  `json:"directions"`
	Nutrition    *NutritionView   `json:"nutrition"`
	ReviewCount  int64            `json:"review_count"`
}
