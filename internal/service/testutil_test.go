package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mojirecepti/backend/internal/models"
	"github.com/mojirecepti/backend/internal/service"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.Ingredient{},
		&models.Direction{},
		&models.RecipeNutrition{},
		&models.Category{},
		&models.RecipeCategory{},
		&models.Rating{},
		&models.Review{},
		&models.Comment{},
		&models.SavedRecipe{},
	))
	return db
}

type recipeOpt func(*models.Recipe)

func withTimes(prep, cook int) recipeOpt {
	return func(r *models.Recipe) {
		r.PrepTimeMinutes = prep
		r.CookTimeMinutes = cook
	}
}

func withSkill(level string) recipeOpt {
	return func(r *models.Recipe) {
		r.SkillLevel = &level
	}
}

func withStatus(status string) recipeOpt {
	return func(r *models.Recipe) {
		r.Status = status
	}
}

func withCreatedAt(at time.Time) recipeOpt {
	return func(r *models.Recipe) {
		r.CreatedAt = at
	}
}

func withAuthor(id uuid.UUID) recipeOpt {
	return func(r *models.Recipe) {
		r.AuthorID = &id
	}
}

func createRecipe(t *testing.T, db *gorm.DB, title string, opts ...recipeOpt) models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		Slug:        service.Slugify(title),
		Title:       title,
		Description: "test recipe",
		Servings:    4,
		Status:      models.StatusPublished,
	}
	for _, opt := range opts {
		opt(&recipe)
	}
	require.NoError(t, db.Create(&recipe).Error)
	return recipe
}

func createCategory(t *testing.T, db *gorm.DB, name, categoryType string) models.Category {
	t.Helper()
	category := models.Category{
		Slug: service.Slugify(name),
		Name: name,
		Type: categoryType,
	}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func linkCategory(t *testing.T, db *gorm.DB, recipeID, categoryID uuid.UUID) {
	t.Helper()
	require.NoError(t, db.Create(&models.RecipeCategory{RecipeID: recipeID, CategoryID: categoryID}).Error)
}

func addIngredient(t *testing.T, db *gorm.DB, recipeID uuid.UUID, name string, sortOrder int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Ingredient{
		RecipeID:  recipeID,
		Name:      name,
		SortOrder: sortOrder,
	}).Error)
}

func addRating(t *testing.T, db *gorm.DB, recipeID uuid.UUID, stars int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Rating{
		UserID:   uuid.New(),
		RecipeID: recipeID,
		Stars:    stars,
	}).Error)
}

func createUser(t *testing.T, db *gorm.DB, name string, admin bool) models.User {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", service.Slugify(name+uuid.NewString()[:8])),
		PasswordHash: "x",
		IsAdmin:      admin,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}
