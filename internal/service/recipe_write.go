package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mojirecepti/backend/internal/models"
	"github.com/mojirecepti/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotRecipeAuthor = errors.New("recipe belongs to another author")
	ErrRecipeNotFound  = errors.New("recipe not found")
)

// RecipeWriteService handles the authoring side. Every multi-table write runs
// in a single transaction, so a failure partway leaves no partial recipe.
type RecipeWriteService struct {
	db *gorm.DB
}

// NewRecipeWriteService creates a new RecipeWriteService instance
func NewRecipeWriteService(db *gorm.DB) *RecipeWriteService {
	return &RecipeWriteService{db: db}
}

// Create inserts a recipe with its ingredients, directions, category links
// and nutrition in one transaction. The slug is derived from the title and
// uniquified on collision.
func (s *RecipeWriteService) Create(ctx context.Context, author *models.User, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	slug, err := s.uniqueSlug(ctx, Slugify(req.Title))
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Slug:            slug,
		Title:           req.Title,
		Description:     req.Description,
		WhyYoullLove:    nonEmpty(req.WhyYoullLove),
		PrepTimeMinutes: req.PrepTimeMinutes,
		CookTimeMinutes: req.CookTimeMinutes,
		Servings:        req.Servings,
		ImageURL:        req.ImageURL,
		Status:          models.StatusPublished,
		Embedding:       GenerateEmbedding(req.Title + " " + req.Description),
	}
	if author != nil {
		recipe.AuthorID = &author.ID
		recipe.AuthorName = author.Name
	}
	if models.ValidSkillLevel(req.SkillLevel) {
		level := req.SkillLevel
		recipe.SkillLevel = &level
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if err := insertChildren(tx, recipe.ID, req); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// Update rewrites a recipe's fields and fully replaces its ingredients,
// directions and category links (delete-then-insert, never a partial patch).
// Only the author, or an admin, may update.
func (s *RecipeWriteService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	recipe, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":             req.Title,
		"description":       req.Description,
		"why_youll_love":    nonEmpty(req.WhyYoullLove),
		"prep_time_minutes": req.PrepTimeMinutes,
		"cook_time_minutes": req.CookTimeMinutes,
		"servings":          req.Servings,
		"embedding":         GenerateEmbedding(req.Title + " " + req.Description),
	}
	if req.ImageURL != "" {
		updates["image_url"] = req.ImageURL
	}
	if models.ValidSkillLevel(req.SkillLevel) {
		updates["skill_level"] = req.SkillLevel
	} else {
		updates["skill_level"] = nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		for _, child := range []interface{}{&models.Ingredient{}, &models.Direction{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeCategory{}).Error; err != nil {
			return err
		}
		return insertChildren(tx, id, req)
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).First(recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// Delete removes a recipe and its dependent rows. Only the author, or an
// admin, may delete.
func (s *RecipeWriteService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.Ingredient{}, &models.Direction{}, &models.RecipeCategory{},
			&models.RecipeNutrition{}, &models.Rating{}, &models.Review{},
			&models.Comment{}, &models.SavedRecipe{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

func (s *RecipeWriteService) authorize(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if actor == nil {
		return nil, ErrNotRecipeAuthor
	}
	if actor.IsAdmin {
		return &recipe, nil
	}
	if recipe.AuthorID == nil || *recipe.AuthorID != actor.ID {
		return nil, ErrNotRecipeAuthor
	}
	return &recipe, nil
}

// uniqueSlug appends -2, -3, ... until the slug is free. Slugs never change
// on update, so published URLs stay stable.
func (s *RecipeWriteService) uniqueSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "recept"
	}
	slug := base
	for i := 2; ; i++ {
		// Soft-deleted recipes still hold their slug under the unique index.
		var count int64
		err := s.db.WithContext(ctx).Model(&models.Recipe{}).Unscoped().
			Where("slug = ?", slug).
			Count(&count).Error
		if err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func insertChildren(tx *gorm.DB, recipeID uuid.UUID, req *types.CreateRecipeRequest) error {
	ingredients := make([]models.Ingredient, 0, len(req.Ingredients))
	for i, ing := range req.Ingredients {
		ingredients = append(ingredients, models.Ingredient{
			RecipeID:  recipeID,
			Amount:    ing.Amount,
			Unit:      ing.Unit,
			Name:      ing.Name,
			SortOrder: i,
		})
	}
	if len(ingredients) > 0 {
		if err := tx.Create(&ingredients).Error; err != nil {
			return fmt.Errorf("failed to insert ingredients: %w", err)
		}
	}

	directions := make([]models.Direction, 0, len(req.Directions))
	for i, dir := range req.Directions {
		directions = append(directions, models.Direction{
			RecipeID:    recipeID,
			StepNumber:  i + 1,
			Instruction: dir.Instruction,
			ImageURL:    dir.ImageURL,
			SortOrder:   i,
		})
	}
	if len(directions) > 0 {
		if err := tx.Create(&directions).Error; err != nil {
			return fmt.Errorf("failed to insert directions: %w", err)
		}
	}

	if len(req.CategoryIDs) > 0 {
		links := make([]models.RecipeCategory, 0, len(req.CategoryIDs))
		for _, categoryID := range req.CategoryIDs {
			links = append(links, models.RecipeCategory{RecipeID: recipeID, CategoryID: categoryID})
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("failed to link categories: %w", err)
		}
	}

	if req.Nutrition != nil {
		nutrition := models.RecipeNutrition{
			RecipeID: recipeID,
			Calories: req.Nutrition.Calories,
			FatG:     req.Nutrition.FatG,
			CarbsG:   req.Nutrition.CarbsG,
			ProteinG: req.Nutrition.ProteinG,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipe_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"calories", "fat_g", "carbs_g", "protein_g"}),
		}).Create(&nutrition).Error
		if err != nil {
			return fmt.Errorf("failed to upsert nutrition: %w", err)
		}
	}
	return nil
}

func nonEmpty(items []string) models.JSONBStringArray {
	cleaned := make(models.JSONBStringArray, 0, len(items))
	for _, item := range items {
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}
