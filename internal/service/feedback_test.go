package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojirecepti/backend/internal/models"
	"github.com/mojirecepti/backend/internal/service"
)

func TestRateRecipeUpsert(t *testing.T) {
	db := newTestDB(t)
	feedback := service.NewFeedbackService(db)
	ctx := context.Background()

	recipe := createRecipe(t, db, "Kifle")
	userID := uuid.New()

	require.NoError(t, feedback.RateRecipe(ctx, userID, recipe.ID, 3))
	require.NoError(t, feedback.RateRecipe(ctx, userID, recipe.ID, 5))

	// Re-rating replaces the row instead of adding one.
	var count int64
	require.NoError(t, db.Model(&models.Rating{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	stars, err := feedback.UserRating(ctx, userID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stars)
}

func TestRateRecipeRejectsOutOfRange(t *testing.T) {
	db := newTestDB(t)
	feedback := service.NewFeedbackService(db)
	ctx := context.Background()

	recipe := createRecipe(t, db, "Proja")
	assert.Error(t, feedback.RateRecipe(ctx, uuid.New(), recipe.ID, 0))
	assert.Error(t, feedback.RateRecipe(ctx, uuid.New(), recipe.ID, 6))
}

func TestUserRatingDefaultsToZero(t *testing.T) {
	db := newTestDB(t)
	feedback := service.NewFeedbackService(db)

	stars, err := feedback.UserRating(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, stars)
}

func TestRecipeRatingAggregate(t *testing.T) {
	db := newTestDB(t)
	feedback := service.NewFeedbackService(db)
	ctx := context.Background()

	recipe := createRecipe(t, db, "Vanilice")
	require.NoError(t, feedback.RateRecipe(ctx, uuid.New(), recipe.ID, 4))
	require.NoError(t, feedback.RateRecipe(ctx, uuid.New(), recipe.ID, 5))

	stats, err := feedback.RecipeRating(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Count)
	require.NotNil(t, stats.Average)
	assert.InDelta(t, 4.5, *stats.Average, 0.001)

	empty, err := feedback.RecipeRating(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Nil(t, empty.Average)
}

func TestReviewsStartPending(t *testing.T) {
	db := newTestDB(t)
	feedback := service.NewFeedbackService(db)
	ctx := context.Background()

	recipe := createRecipe(t, db, "Krofne")
	review, err := feedback.AddReview(ctx, uuid.New(), recipe.ID, "Odlične krofne!")
	require.NoError(t, err)
	assert.Equal(t, models.ModerationPending, review.Status)

	// Pending reviews are invisible on the recipe page.
	approved, err := feedback.ApprovedReviews(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, approved)
}

func TestModerateReview(t *testing.T) {
	db := newTestDB(t)
	feedback := service.NewFeedbackService(db)
	ctx := context.Background()

	recipe := createRecipe(t, db, "Štrudla")
	review, err := feedback.AddReview(ctx, uuid.New(), recipe.ID, "Savršena")
	require.NoError(t, err)

	require.NoError(t, feedback.ModerateReview(ctx, review.ID, true))

	var stored models.Review
	require.NoError(t, db.First(&stored, "id = ?", review.ID).Error)
	assert.Equal(t, models.ModerationApproved, stored.Status)
	assert.NotNil(t, stored.ReviewedAt)

	approved, err := feedback.ApprovedReviews(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	require.NoError(t, feedback.ModerateReview(ctx, review.ID, false))
	require.NoError(t, db.First(&stored, "id = ?", review.ID).Error)
	assert.Equal(t, models.ModerationDenied, stored.Status)
}

func TestModerateMissingReview(t *testing.T) {
	db := newTestDB(t)
	feedback := service.NewFeedbackService(db)

	err := feedback.ModerateReview(context.Background(), uuid.New(), true)
	assert.Error(t, err)
}

func TestModerateComment(t *testing.T) {
	db := newTestDB(t)
	feedback := service.NewFeedbackService(db)
	ctx := context.Background()

	recipe := createRecipe(t, db, "Kačamak")
	comment, err := feedback.AddComment(ctx, uuid.New(), recipe.ID, "Može li bez sira?")
	require.NoError(t, err)
	assert.Equal(t, models.ModerationPending, comment.Status)

	require.NoError(t, feedback.ModerateComment(ctx, comment.ID, true))

	approved, err := feedback.ApprovedComments(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "Može li bez sira?", approved[0].Content)
}

func TestListReviewsByStatus(t *testing.T) {
	db := newTestDB(t)
	feedback := service.NewFeedbackService(db)
	ctx := context.Background()

	recipe := createRecipe(t, db, "Pihtije")
	first, err := feedback.AddReview(ctx, uuid.New(), recipe.ID, "Prva")
	require.NoError(t, err)
	_, err = feedback.AddReview(ctx, uuid.New(), recipe.ID, "Druga")
	require.NoError(t, err)
	require.NoError(t, feedback.ModerateReview(ctx, first.ID, true))

	pending, err := feedback.ListReviews(ctx, models.ModerationPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Druga", pending[0].Content)

	all, err := feedback.ListReviews(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSaveUnsaveRecipe(t *testing.T) {
	db := newTestDB(t)
	feedback := service.NewFeedbackService(db)
	ctx := context.Background()

	recipe := createRecipe(t, db, "Ajvar")
	userID := uuid.New()

	saved, err := feedback.IsSaved(ctx, userID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	require.NoError(t, feedback.SaveRecipe(ctx, userID, recipe.ID))
	// Saving twice is a no-op.
	require.NoError(t, feedback.SaveRecipe(ctx, userID, recipe.ID))

	var count int64
	require.NoError(t, db.Model(&models.SavedRecipe{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	saved, err = feedback.IsSaved(ctx, userID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	require.NoError(t, feedback.UnsaveRecipe(ctx, userID, recipe.ID))
	saved, err = feedback.IsSaved(ctx, userID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, saved)
}
