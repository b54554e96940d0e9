package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mojirecepti/backend/internal/models"
	"github.com/mojirecepti/backend/internal/service"
	"github.com/mojirecepti/backend/internal/types"
)

type RecipeHandler struct {
	recipes *service.RecipeService
	writes  *service.RecipeWriteService
	auth    *service.AuthService
}

func NewRecipeHandler(recipes *service.RecipeService, writes *service.RecipeWriteService, auth *service.AuthService) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		writes:  writes,
		auth:    auth,
	}
}

func (h *RecipeHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/count", h.CountRecipes)
		recipes.GET("/featured", h.FeaturedRecipes)
		recipes.GET("/:slug", h.GetRecipe)
		recipes.GET("/:slug/related", h.RelatedRecipes)
	}
	router.GET("/categories", h.FilterCategories)
	router.GET("/ingredients", h.IngredientNames)
}

func (h *RecipeHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.POST("/recipes", h.CreateRecipe)
	router.PUT("/recipes/:id", h.UpdateRecipe)
	router.DELETE("/recipes/:id", h.DeleteRecipe)
	router.GET("/my/recipes", h.MyRecipes)
	router.GET("/my/saved", h.SavedRecipes)
}

// ListRecipes resolves the sidebar filters to a page of published recipes.
// Read failures degrade to an empty list so the page still renders.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	limit := queryInt(c, "limit", 12)
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	if q := c.Query("q"); q != "" {
		recipes, err := h.recipes.Search(c.Request.Context(), q, limit)
		if err != nil {
			log.Printf("search recipes: %v", err)
			recipes = []types.RecipeSummary{}
		}
		c.JSON(http.StatusOK, gin.H{"recipes": recipes})
		return
	}

	filters := service.RecipeFilters{
		CategorySlug:    c.Query("kategorija"),
		CuisineSlug:     c.Query("kuhinja"),
		SkillLevel:      c.Query("tezina"),
		IngredientQuery: c.Query("sastojak"),
	}
	filters.MaxTimeMinutes, filters.MinTimeMinutes = timeBounds(c.Query("vreme"))

	recipes, err := h.recipes.ListPublished(c.Request.Context(), limit, offset, filters)
	if err != nil {
		log.Printf("list recipes: %v", err)
		recipes = []types.RecipeSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// timeBounds maps the vreme filter buckets to total-time bounds in minutes.
func timeBounds(vreme string) (max, min int) {
	switch vreme {
	case "do-30":
		return 30, 0
	case "do-60":
		return 60, 0
	case "do-120":
		return 120, 0
	case "120-plus":
		return 0, 121
	}
	return 0, 0
}

func (h *RecipeHandler) CountRecipes(c *gin.Context) {
	count, err := h.recipes.CountPublished(c.Request.Context())
	if err != nil {
		log.Printf("count recipes: %v", err)
		count = 0
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *RecipeHandler) FeaturedRecipes(c *gin.Context) {
	recipes, err := h.recipes.Featured(c.Request.Context(), queryInt(c, "limit", 6))
	if err != nil {
		log.Printf("featured recipes: %v", err)
		recipes = []types.FeaturedRecipe{}
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	detail, err := h.recipes.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) RelatedRecipes(c *gin.Context) {
	limit := queryInt(c, "limit", 8)
	empty := []types.RelatedRecipe{}

	detail, err := h.recipes.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"recipes": empty})
		return
	}

	categoryIDs := make([]uuid.UUID, 0, len(detail.Categories))
	for _, cat := range detail.Categories {
		categoryIDs = append(categoryIDs, cat.ID)
	}

	related, err := h.recipes.Related(c.Request.Context(), detail.ID, categoryIDs, limit)
	if err != nil {
		log.Printf("related recipes: %v", err)
		related = empty
	}
	c.JSON(http.StatusOK, gin.H{"recipes": related})
}

func (h *RecipeHandler) FilterCategories(c *gin.Context) {
	categories, err := h.recipes.FilterCategories(c.Request.Context())
	if err != nil {
		log.Printf("filter categories: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *RecipeHandler) IngredientNames(c *gin.Context) {
	names, err := h.recipes.DistinctIngredientNames(c.Request.Context(), queryInt(c, "limit", 80))
	if err != nil {
		log.Printf("ingredient names: %v", err)
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": names})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, ok := h.currentUser(c)
	if !ok {
		return
	}

	recipe, err := h.writes.Create(c.Request.Context(), author, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	recipe, err := h.writes.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		writeRecipeError(c, err, "Failed to update recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.writes.Delete(c.Request.Context(), actor, id); err != nil {
		writeRecipeError(c, err, "Failed to delete recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully", "id": id})
}

func (h *RecipeHandler) MyRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	recipes, err := h.recipes.ListByAuthor(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) SavedRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	recipes, err := h.recipes.ListSaved(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saved recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// currentUser loads the authenticated user. It writes the error response
// itself when the user is missing.
func (h *RecipeHandler) currentUser(c *gin.Context) (*models.User, bool) {
	userID, found := currentUserID(c)
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}
	loaded, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil, false
	}
	return loaded, true
}

func writeRecipeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
	case errors.Is(err, service.ErrNotRecipeAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "recipe belongs to another author"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value := c.Query(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
