package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mojirecepti/backend/internal/models"
	"github.com/mojirecepti/backend/internal/types"
	"gorm.io/gorm"
)

// DefaultListingScanCap bounds how many candidate rows a filtered listing
// fetches before narrowing in memory. Total-time and ingredient filters
// cannot be expressed as a single store predicate, so the listing fetches a
// recency-ordered superset up to this cap and filters it here. A very
// selective filter over a catalogue larger than the cap can therefore return
// fewer rows than truly match; raise the cap via config if that matters.
const DefaultListingScanCap = 500

// RecipeFilters are the optional listing criteria. Zero values mean "no
// constraint".
type RecipeFilters struct {
	CategorySlug    string
	CuisineSlug     string
	SkillLevel      string
	MaxTimeMinutes  int
	MinTimeMinutes  int
	IngredientQuery string
}

func (f RecipeFilters) hasInMemoryFilters() bool {
	return strings.TrimSpace(f.IngredientQuery) != "" || f.MaxTimeMinutes > 0 || f.MinTimeMinutes > 0
}

// RecipeService handles the read side: listing, filtering, aggregation and
// the related/featured selectors.
type RecipeService struct {
	db      *gorm.DB
	scanCap int
}

// NewRecipeService creates a new RecipeService instance. scanCap bounds the
// in-memory filter oversample; pass 0 for the default.
func NewRecipeService(db *gorm.DB, scanCap int) *RecipeService {
	if scanCap <= 0 {
		scanCap = DefaultListingScanCap
	}
	return &RecipeService{db: db, scanCap: scanCap}
}

// ListPublished resolves the filter set to a page of published recipes,
// newest first, enriched with categories and rating stats.
func (s *RecipeService) ListPublished(ctx context.Context, limit, offset int, filters RecipeFilters) ([]types.RecipeSummary, error) {
	if limit <= 0 {
		limit = 12
	}
	if offset < 0 {
		offset = 0
	}

	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("status = ?", models.StatusPublished).
		Order("created_at DESC")

	// Category and cuisine slugs resolve to recipe-id in-lists. An existing
	// category with no associated recipes short-circuits to an empty page.
	for _, sel := range []struct {
		slug         string
		categoryType string
	}{
		{filters.CategorySlug, ""},
		{filters.CuisineSlug, models.CategoryCuisine},
	} {
		if sel.slug == "" {
			continue
		}
		ids, found, err := s.recipeIDsForCategorySlug(ctx, sel.slug, sel.categoryType)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		if len(ids) == 0 {
			return []types.RecipeSummary{}, nil
		}
		query = query.Where("id IN ?", ids)
	}

	// Unrecognized skill levels are treated as absent.
	if models.ValidSkillLevel(filters.SkillLevel) {
		query = query.Where("skill_level = ?", filters.SkillLevel)
	}

	inMemory := filters.hasInMemoryFilters()
	fetchLimit, fetchOffset := limit, offset
	if inMemory {
		fetchLimit, fetchOffset = s.scanCap, 0
	}

	var recipes []models.Recipe
	if err := query.Limit(fetchLimit).Offset(fetchOffset).Find(&recipes).Error; err != nil {
		return nil, err
	}

	if term := strings.TrimSpace(filters.IngredientQuery); term != "" {
		matched, err := s.recipeIDsWithIngredient(ctx, term)
		if err != nil {
			return nil, err
		}
		recipes = filterRecipes(recipes, func(r models.Recipe) bool {
			_, ok := matched[r.ID]
			return ok
		})
	}
	if filters.MaxTimeMinutes > 0 {
		recipes = filterRecipes(recipes, func(r models.Recipe) bool {
			return r.TotalTimeMinutes() <= filters.MaxTimeMinutes
		})
	}
	if filters.MinTimeMinutes > 0 {
		recipes = filterRecipes(recipes, func(r models.Recipe) bool {
			return r.TotalTimeMinutes() >= filters.MinTimeMinutes
		})
	}

	// Pagination happens after narrowing when any in-memory filter ran.
	if inMemory {
		if offset >= len(recipes) {
			recipes = nil
		} else {
			end := offset + limit
			if end > len(recipes) {
				end = len(recipes)
			}
			recipes = recipes[offset:end]
		}
	}

	return s.enrich(ctx, recipes)
}

// ListByAuthor returns an author's own recipes regardless of status.
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]types.RecipeSummary, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, recipes)
}

// ListSaved returns the recipes a user has bookmarked, most recently saved
// first. Unpublished recipes drop out of the list.
func (s *RecipeService) ListSaved(ctx context.Context, userID uuid.UUID) ([]types.RecipeSummary, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Joins("JOIN saved_recipes ON saved_recipes.recipe_id = recipes.id").
		Where("saved_recipes.user_id = ?", userID).
		Where("recipes.status = ?", models.StatusPublished).
		Order("saved_recipes.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, recipes)
}

// CountPublished returns the number of published recipes without fetching rows.
func (s *RecipeService) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("status = ?", models.StatusPublished).
		Count(&count).Error
	return count, err
}

// GetBySlug loads a published recipe with its full detail: ingredients and
// directions in sort order, categories, rating stats and the approved review
// count. Ingredients and directions are independent fetches and run
// concurrently.
func (s *RecipeService) GetBySlug(ctx context.Context, slug string) (*types.RecipeDetail, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, models.StatusPublished).
		First(&recipe).Error
	if err != nil {
		return nil, err
	}

	var (
		wg          sync.WaitGroup
		ingredients []models.Ingredient
		directions  []models.Direction
		ingErr      error
		dirErr      error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		ingErr = s.db.WithContext(ctx).
			Where("recipe_id = ?", recipe.ID).
			Order("sort_order").
			Find(&ingredients).Error
	}()
	go func() {
		defer wg.Done()
		dirErr = s.db.WithContext(ctx).
			Where("recipe_id = ?", recipe.ID).
			Order("sort_order").
			Find(&directions).Error
	}()
	wg.Wait()
	if ingErr != nil {
		return nil, ingErr
	}
	if dirErr != nil {
		return nil, dirErr
	}

	summaries, err := s.enrich(ctx, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}

	var reviewCount int64
	err = s.db.WithContext(ctx).Model(&models.Review{}).
		Where("recipe_id = ? AND status = ?", recipe.ID, models.ModerationApproved).
		Count(&reviewCount).Error
	if err != nil {
		return nil, err
	}

	detail := &types.RecipeDetail{
		RecipeSummary: summaries[0],
		WhyYoullLove:  recipe.WhyYoullLove,
		Ingredients:   make([]types.IngredientView, 0, len(ingredients)),
		Directions:    make([]types.DirectionView, 0, len(directions)),
		ReviewCount:   reviewCount,
	}
	for _, ing := range ingredients {
		detail.Ingredients = append(detail.Ingredients, types.IngredientView{
			ID: ing.ID, Amount: ing.Amount, Unit: ing.Unit, Name: ing.Name, SortOrder: ing.SortOrder,
		})
	}
	for _, dir := range directions {
		detail.Directions = append(detail.Directions, types.DirectionView{
			ID: dir.ID, StepNumber: dir.StepNumber, Instruction: dir.Instruction,
			ImageURL: dir.ImageURL, SortOrder: dir.SortOrder,
		})
	}

	var nutrition models.RecipeNutrition
	err = s.db.WithContext(ctx).Where("recipe_id = ?", recipe.ID).First(&nutrition).Error
	if err == nil {
		detail.Nutrition = &types.NutritionView{
			Calories: nutrition.Calories, FatG: nutrition.FatG,
			CarbsG: nutrition.CarbsG, ProteinG: nutrition.ProteinG,
		}
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	return detail, nil
}

// Related returns up to limit other published recipes sharing at least one of
// the given categories. A recipe appearing under several shared categories is
// returned once, tagged with the first-seen category name.
func (s *RecipeService) Related(ctx context.Context, recipeID uuid.UUID, categoryIDs []uuid.UUID, limit int) ([]types.RelatedRecipe, error) {
	if len(categoryIDs) == 0 {
		return []types.RelatedRecipe{}, nil
	}
	if limit <= 0 {
		limit = 8
	}

	type relatedRow struct {
		ID              uuid.UUID
		Slug            string
		Title           string
		ImageURL        string
		PrepTimeMinutes int
		CookTimeMinutes int
		CategoryName    string
	}
	var rows []relatedRow
	// Oversample 4x so the post-dedupe set can still fill the limit.
	err := s.db.WithContext(ctx).Table("recipe_categories").
		Select("recipes.id, recipes.slug, recipes.title, recipes.image_url, recipes.prep_time_minutes, recipes.cook_time_minutes, categories.name AS category_name").
		Joins("JOIN recipes ON recipes.id = recipe_categories.recipe_id").
		Joins("JOIN categories ON categories.id = recipe_categories.category_id").
		Where("recipe_categories.category_id IN ?", categoryIDs).
		Where("recipe_categories.recipe_id <> ?", recipeID).
		Where("recipes.status = ?", models.StatusPublished).
		Limit(limit * 4).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	related := make([]types.RelatedRecipe, 0, limit)
	index := make(map[uuid.UUID]int)
	for _, row := range rows {
		if _, seen := index[row.ID]; seen {
			continue
		}
		if len(related) >= limit {
			break
		}
		index[row.ID] = len(related)
		related = append(related, types.RelatedRecipe{
			ID:               row.ID,
			Slug:             row.Slug,
			Title:            row.Title,
			ImageURL:         row.ImageURL,
			PrepTimeMinutes:  row.PrepTimeMinutes,
			CookTimeMinutes:  row.CookTimeMinutes,
			TotalTimeMinutes: row.PrepTimeMinutes + row.CookTimeMinutes,
			CategoryName:     row.CategoryName,
		})
	}
	if len(related) == 0 {
		return related, nil
	}

	ids := make([]uuid.UUID, 0, len(related))
	for _, r := range related {
		ids = append(ids, r.ID)
	}
	stats, err := s.ratingStats(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range related {
		related[i].RatingStats = stats[related[i].ID]
	}
	return related, nil
}

// Featured returns the newest limit published recipes, each with its most
// recent approved review as a quote and its rating stats. "Featured" is a
// display-time label; there is no stored flag.
func (s *RecipeService) Featured(ctx context.Context, limit int) ([]types.FeaturedRecipe, error) {
	if limit <= 0 {
		limit = 6
	}

	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("status = ?", models.StatusPublished).
		Order("created_at DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return []types.FeaturedRecipe{}, nil
	}

	ids := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}

	var reviews []models.Review
	err = s.db.WithContext(ctx).
		Where("recipe_id IN ? AND status = ?", ids, models.ModerationApproved).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	quoteByRecipe := make(map[uuid.UUID]string)
	for _, review := range reviews {
		if _, ok := quoteByRecipe[review.RecipeID]; !ok {
			quoteByRecipe[review.RecipeID] = review.Content
		}
	}

	stats, err := s.ratingStats(ctx, ids)
	if err != nil {
		return nil, err
	}

	featured := make([]types.FeaturedRecipe, 0, len(recipes))
	for _, r := range recipes {
		item := types.FeaturedRecipe{
			ID:              r.ID,
			Slug:            r.Slug,
			Title:           r.Title,
			ImageURL:        r.ImageURL,
			PrepTimeMinutes: r.PrepTimeMinutes,
			CookTimeMinutes: r.CookTimeMinutes,
			AuthorName:      r.AuthorName,
			RatingStats:     stats[r.ID],
		}
		if quote, ok := quoteByRecipe[r.ID]; ok {
			item.ReviewQuote = &quote
		}
		featured = append(featured, item)
	}
	return featured, nil
}

// FilterCategories returns the categories shown in the listing sidebar
// (meal types and cuisines), grouped by type in their sort order.
func (s *RecipeService) FilterCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).
		Where("type IN ?", []string{models.CategoryMealType, models.CategoryCuisine}).
		Order("type").
		Order("sort_order").
		Find(&categories).Error
	return categories, err
}

// DistinctIngredientNames returns up to limit distinct ingredient names,
// alphabetically, for the search suggestions.
func (s *RecipeService) DistinctIngredientNames(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 80
	}
	var names []string
	err := s.db.WithContext(ctx).Model(&models.Ingredient{}).
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(names))
	distinct := make([]string, 0, limit)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		distinct = append(distinct, name)
		if len(distinct) == limit {
			break
		}
	}
	return distinct, nil
}

// CategoryIDs returns the category ids linked to a recipe, used to seed the
// related selector.
func (s *RecipeService) CategoryIDs(ctx context.Context, recipeID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.RecipeCategory{}).
		Where("recipe_id = ?", recipeID).
		Pluck("category_id", &ids).Error
	return ids, err
}

// enrich attaches categories and rating stats to recipe rows in bulk,
// preserving input order. Empty input skips all secondary fetches.
func (s *RecipeService) enrich(ctx context.Context, recipes []models.Recipe) ([]types.RecipeSummary, error) {
	summaries := make([]types.RecipeSummary, 0, len(recipes))
	if len(recipes) == 0 {
		return summaries, nil
	}

	ids := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}

	type categoryRow struct {
		RecipeID uuid.UUID
		ID       uuid.UUID
		Slug     string
		Name     string
	}
	var rows []categoryRow
	err := s.db.WithContext(ctx).Table("recipe_categories").
		Select("recipe_categories.recipe_id, categories.id, categories.slug, categories.name").
		Joins("JOIN categories ON categories.id = recipe_categories.category_id").
		Where("recipe_categories.recipe_id IN ?", ids).
		Order("categories.sort_order").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	categoriesByRecipe := make(map[uuid.UUID][]types.CategorySummary)
	for _, row := range rows {
		categoriesByRecipe[row.RecipeID] = append(categoriesByRecipe[row.RecipeID], types.CategorySummary{
			ID: row.ID, Slug: row.Slug, Name: row.Name,
		})
	}

	stats, err := s.ratingStats(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, r := range recipes {
		categories := categoriesByRecipe[r.ID]
		if categories == nil {
			categories = []types.CategorySummary{}
		}
		summaries = append(summaries, types.RecipeSummary{
			ID:               r.ID,
			Slug:             r.Slug,
			Title:            r.Title,
			Description:      r.Description,
			PrepTimeMinutes:  r.PrepTimeMinutes,
			CookTimeMinutes:  r.CookTimeMinutes,
			TotalTimeMinutes: r.TotalTimeMinutes(),
			Servings:         r.Servings,
			SkillLevel:       r.SkillLevel,
			AuthorName:       r.AuthorName,
			ImageURL:         r.ImageURL,
			CreatedAt:        r.CreatedAt,
			Categories:       categories,
			RatingStats:      stats[r.ID],
		})
	}
	return summaries, nil
}

// ratingStats computes count and mean stars per recipe from the live rating
// rows in one batch. Recipes without ratings get a zero count and nil average.
func (s *RecipeService) ratingStats(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]types.RatingStats, error) {
	stats := make(map[uuid.UUID]types.RatingStats, len(ids))
	if len(ids) == 0 {
		return stats, nil
	}

	var ratings []models.Rating
	err := s.db.WithContext(ctx).
		Where("recipe_id IN ?", ids).
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[uuid.UUID]int, len(ids))
	counts := make(map[uuid.UUID]int, len(ids))
	for _, rating := range ratings {
		sums[rating.RecipeID] += rating.Stars
		counts[rating.RecipeID]++
	}
	for _, id := range ids {
		entry := types.RatingStats{Count: counts[id]}
		if entry.Count > 0 {
			avg := float64(sums[id]) / float64(entry.Count)
			entry.Average = &avg
		}
		stats[id] = entry
	}
	return stats, nil
}

// recipeIDsForCategorySlug resolves a category slug (optionally constrained
// to a category type) to the recipe ids linked to it. found is false when no
// such category exists, in which case the filter is treated as absent.
func (s *RecipeService) recipeIDsForCategorySlug(ctx context.Context, slug, categoryType string) ([]uuid.UUID, bool, error) {
	query := s.db.WithContext(ctx).Where("slug = ?", slug)
	if categoryType != "" {
		query = query.Where("type = ?", categoryType)
	}
	var category models.Category
	if err := query.First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.RecipeCategory{}).
		Where("category_id = ?", category.ID).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

// recipeIDsWithIngredient returns the set of recipe ids having at least one
// ingredient whose name contains term, case-insensitively.
func (s *RecipeService) recipeIDsWithIngredient(ctx context.Context, term string) (map[uuid.UUID]struct{}, error) {
	like := "%" + strings.ToLower(term) + "%"
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Ingredient{}).
		Where("LOWER(name) LIKE ?", like).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	matched := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		matched[id] = struct{}{}
	}
	return matched, nil
}

func filterRecipes(recipes []models.Recipe, keep func(models.Recipe) bool) []models.Recipe {
	filtered := recipes[:0]
	for _, r := range recipes {
		if keep(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
