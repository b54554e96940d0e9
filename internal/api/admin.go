package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mojirecepti/backend/internal/models"
	"github.com/mojirecepti/backend/internal/service"
	"github.com/mojirecepti/backend/internal/types"
)

// AdminHandler exposes the moderation queue. All routes require an
// authenticated admin.
type AdminHandler struct {
	feedback *service.FeedbackService
}

func NewAdminHandler(feedback *service.FeedbackService) *AdminHandler {
	return &AdminHandler{feedback: feedback}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.GET("/reviews", h.ListReviews)
		admin.POST("/reviews/:id/moderate", h.ModerateReview)
		admin.GET("/comments", h.ListComments)
		admin.POST("/comments/:id/moderate", h.ModerateComment)
	}
}

func (h *AdminHandler) ListReviews(c *gin.Context) {
	status := c.DefaultQuery("status", models.ModerationPending)
	reviews, err := h.feedback.ListReviews(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *AdminHandler) ListComments(c *gin.Context) {
	status := c.DefaultQuery("status", models.ModerationPending)
	comments, err := h.feedback.ListComments(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *AdminHandler) ModerateReview(c *gin.Context) {
	id, req, ok := h.moderationInput(c)
	if !ok {
		return
	}
	if err := h.feedback.ModerateReview(c.Request.Context(), id, req.Action == "approve"); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review moderated", "id": id})
}

func (h *AdminHandler) ModerateComment(c *gin.Context) {
	id, req, ok := h.moderationInput(c)
	if !ok {
		return
	}
	if err := h.feedback.ModerateComment(c.Request.Context(), id, req.Action == "approve"); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment moderated", "id": id})
}

func (h *AdminHandler) moderationInput(c *gin.Context) (uuid.UUID, types.ModerateRequest, bool) {
	var req types.ModerateRequest
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return uuid.Nil, req, false
	}
	return id, req, true
}
