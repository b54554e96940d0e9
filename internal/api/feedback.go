package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mojirecepti/backend/internal/models"
	"github.com/mojirecepti/backend/internal/service"
	"github.com/mojirecepti/backend/internal/types"
)

type FeedbackHandler struct {
	feedback *service.FeedbackService
	recipes  *service.RecipeService
}

func NewFeedbackHandler(feedback *service.FeedbackService, recipes *service.RecipeService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, recipes: recipes}
}

func (h *FeedbackHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/recipes/:slug/reviews", h.RecipeReviews)
	router.GET("/recipes/:slug/comments", h.RecipeComments)
}

func (h *FeedbackHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.POST("/ratings", h.RateRecipe)
	router.GET("/ratings/:id", h.UserRating)
	router.POST("/reviews", h.AddReview)
	router.POST("/comments", h.AddComment)
	router.POST("/saved", h.SaveRecipe)
	router.DELETE("/saved/:id", h.UnsaveRecipe)
	router.GET("/saved/:id", h.IsSaved)
}

func (h *FeedbackHandler) RecipeReviews(c *gin.Context) {
	recipeID, ok := h.recipeIDBySlug(c)
	if !ok {
		return
	}
	reviews, err := h.feedback.ApprovedReviews(c.Request.Context(), recipeID)
	if err != nil {
		log.Printf("list reviews: %v", err)
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *FeedbackHandler) RecipeComments(c *gin.Context) {
	recipeID, ok := h.recipeIDBySlug(c)
	if !ok {
		return
	}
	comments, err := h.feedback.ApprovedComments(c.Request.Context(), recipeID)
	if err != nil {
		log.Printf("list comments: %v", err)
		comments = []models.Comment{}
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// RateRecipe records or replaces the caller's star rating for a recipe.
func (h *FeedbackHandler) RateRecipe(c *gin.Context) {
	var req types.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.feedback.RateRecipe(c.Request.Context(), userID, req.RecipeID, req.Stars); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating"})
		return
	}

	stats, err := h.feedback.RecipeRating(c.Request.Context(), req.RecipeID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "Rating saved"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating saved", "rating": stats})
}

func (h *FeedbackHandler) UserRating(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	stars, err := h.feedback.UserRating(c.Request.Context(), userID, recipeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rating"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stars": stars})
}

func (h *FeedbackHandler) AddReview(c *gin.Context) {
	var req types.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	review, err := h.feedback.AddReview(c.Request.Context(), userID, req.RecipeID, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit review"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

func (h *FeedbackHandler) AddComment(c *gin.Context) {
	var req types.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	comment, err := h.feedback.AddComment(c.Request.Context(), userID, req.RecipeID, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit comment"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *FeedbackHandler) SaveRecipe(c *gin.Context) {
	var req struct {
		RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.feedback.SaveRecipe(c.Request.Context(), userID, req.RecipeID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recipe"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe saved"})
}

func (h *FeedbackHandler) UnsaveRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.feedback.UnsaveRecipe(c.Request.Context(), userID, recipeID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove saved recipe"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe removed from saved"})
}

func (h *FeedbackHandler) IsSaved(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	saved, err := h.feedback.IsSaved(c.Request.Context(), userID, recipeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check saved state"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

func (h *FeedbackHandler) recipeIDBySlug(c *gin.Context) (uuid.UUID, bool) {
	detail, err := h.recipes.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return uuid.Nil, false
	}
	return detail.ID, true
}
