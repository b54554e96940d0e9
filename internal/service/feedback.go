package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mojirecepti/backend/internal/models"
	"github.com/mojirecepti/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedbackService handles ratings, reviews, comments, bookmarks and the
// admin moderation workflow.
type FeedbackService struct {
	db *gorm.DB
}

// NewFeedbackService creates a new FeedbackService instance
func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// RateRecipe records a user's star rating. The write is an upsert keyed on
// (user_id, recipe_id): submitting twice leaves one row with the later value.
func (s *FeedbackService) RateRecipe(ctx context.Context, userID, recipeID uuid.UUID, stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("stars must be between 1 and 5, got %d", stars)
	}
	rating := models.Rating{
		UserID:   userID,
		RecipeID: recipeID,
		Stars:    stars,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stars", "updated_at"}),
	}).Create(&rating).Error
	if err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}
	return nil
}

// UserRating returns the stars a user previously gave a recipe, or 0.
func (s *FeedbackService) UserRating(ctx context.Context, userID, recipeID uuid.UUID) (int, error) {
	var rating models.Rating
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&rating).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rating.Stars, nil
}

// RecipeRating computes the live rating stats for a single recipe.
func (s *FeedbackService) RecipeRating(ctx context.Context, recipeID uuid.UUID) (types.RatingStats, error) {
	var ratings []models.Rating
	err := s.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Find(&ratings).Error
	if err != nil {
		return types.RatingStats{}, err
	}
	stats := types.RatingStats{Count: len(ratings)}
	if stats.Count > 0 {
		var sum int
		for _, r := range ratings {
			sum += r.Stars
		}
		avg := float64(sum) / float64(stats.Count)
		stats.Average = &avg
	}
	return stats, nil
}

// AddReview stores a review pending moderation.
func (s *FeedbackService) AddReview(ctx context.Context, userID, recipeID uuid.UUID, content string) (*models.Review, error) {
	review := &models.Review{
		UserID:   userID,
		RecipeID: recipeID,
		Content:  content,
		Status:   models.ModerationPending,
	}
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

// AddComment stores a comment pending moderation.
func (s *FeedbackService) AddComment(ctx context.Context, userID, recipeID uuid.UUID, content string) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:   userID,
		RecipeID: recipeID,
		Content:  content,
		Status:   models.ModerationPending,
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ApprovedReviews lists a recipe's approved reviews, newest first.
func (s *FeedbackService) ApprovedReviews(ctx context.Context, recipeID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND status = ?", recipeID, models.ModerationApproved).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// ApprovedComments lists a recipe's approved comments, newest first.
func (s *FeedbackService) ApprovedComments(ctx context.Context, recipeID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND status = ?", recipeID, models.ModerationApproved).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// ListReviews lists reviews for moderation, optionally filtered by status,
// newest first.
func (s *FeedbackService) ListReviews(ctx context.Context, status string) ([]models.Review, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var reviews []models.Review
	err := query.Find(&reviews).Error
	return reviews, err
}

// ListComments lists comments for moderation, optionally filtered by status,
// newest first.
func (s *FeedbackService) ListComments(ctx context.Context, status string) ([]models.Comment, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var comments []models.Comment
	err := query.Find(&comments).Error
	return comments, err
}

// ModerateReview approves or denies a review and stamps reviewed_at.
func (s *FeedbackService) ModerateReview(ctx context.Context, id uuid.UUID, approve bool) error {
	return s.moderate(ctx, &models.Review{}, id, approve)
}

// ModerateComment approves or denies a comment and stamps reviewed_at.
func (s *FeedbackService) ModerateComment(ctx context.Context, id uuid.UUID, approve bool) error {
	return s.moderate(ctx, &models.Comment{}, id, approve)
}

func (s *FeedbackService) moderate(ctx context.Context, model interface{}, id uuid.UUID, approve bool) error {
	status := models.ModerationDenied
	if approve {
		status = models.ModerationApproved
	}
	now := time.Now()
	result := s.db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_at": &now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update moderation status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}

// SaveRecipe bookmarks a recipe for a user. Saving twice is a no-op.
func (s *FeedbackService) SaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	saved := models.SavedRecipe{UserID: userID, RecipeID: recipeID}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&saved).Error
}

// UnsaveRecipe removes a user's bookmark.
func (s *FeedbackService) UnsaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.SavedRecipe{}).Error
}

// IsSaved reports whether a user has bookmarked a recipe.
func (s *FeedbackService) IsSaved(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.SavedRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}
