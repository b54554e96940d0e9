package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojirecepti/backend/internal/models"
	"github.com/mojirecepti/backend/internal/service"
	"github.com/mojirecepti/backend/internal/types"
)

func createRequest(title string) *types.CreateRecipeRequest {
	return &types.CreateRecipeRequest{
		Title:           title,
		Description:     "opis",
		PrepTimeMinutes: 10,
		CookTimeMinutes: 20,
		Servings:        4,
		SkillLevel:      models.SkillEasy,
		Ingredients: []types.IngredientInput{
			{Amount: "200", Unit: "g", Name: "brašno"},
			{Amount: "2", Unit: "kom", Name: "jaja"},
		},
		Directions: []types.DirectionInput{
			{Instruction: "Umutiti jaja."},
			{Instruction: "Dodati brašno."},
		},
	}
}

func TestCreateRecipe(t *testing.T) {
	db := newTestDB(t)
	writes := service.NewRecipeWriteService(db)
	author := createUser(t, db, "Mira", false)

	recipe, err := writes.Create(context.Background(), &author, createRequest("Palačinke"))
	require.NoError(t, err)
	assert.Equal(t, "palacinke", recipe.Slug)
	assert.Equal(t, models.StatusPublished, recipe.Status)
	require.NotNil(t, recipe.AuthorID)
	assert.Equal(t, author.ID, *recipe.AuthorID)
	assert.Equal(t, "Mira", recipe.AuthorName)
	require.NotNil(t, recipe.SkillLevel)
	assert.Equal(t, models.SkillEasy, *recipe.SkillLevel)

	var ingredients []models.Ingredient
	require.NoError(t, db.Where("recipe_id = ?", recipe.ID).Order("sort_order").Find(&ingredients).Error)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "brašno", ingredients[0].Name)

	var directions []models.Direction
	require.NoError(t, db.Where("recipe_id = ?", recipe.ID).Order("sort_order").Find(&directions).Error)
	require.Len(t, directions, 2)
	assert.Equal(t, 1, directions[0].StepNumber)
	assert.Equal(t, 2, directions[1].StepNumber)
}

func TestCreateRecipeSlugCollision(t *testing.T) {
	db := newTestDB(t)
	writes := service.NewRecipeWriteService(db)
	author := createUser(t, db, "Mira", false)
	ctx := context.Background()

	first, err := writes.Create(ctx, &author, createRequest("Gibanica"))
	require.NoError(t, err)
	second, err := writes.Create(ctx, &author, createRequest("Gibanica"))
	require.NoError(t, err)
	third, err := writes.Create(ctx, &author, createRequest("Gibanica"))
	require.NoError(t, err)

	assert.Equal(t, "gibanica", first.Slug)
	assert.Equal(t, "gibanica-2", second.Slug)
	assert.Equal(t, "gibanica-3", third.Slug)
}

func TestCreateRecipeInvalidSkillStoredAsNull(t *testing.T) {
	db := newTestDB(t)
	writes := service.NewRecipeWriteService(db)
	author := createUser(t, db, "Mira", false)

	req := createRequest("Pita")
	req.SkillLevel = "expert"
	recipe, err := writes.Create(context.Background(), &author, req)
	require.NoError(t, err)
	assert.Nil(t, recipe.SkillLevel)
}

func TestUpdateRecipeReplacesChildren(t *testing.T) {
	db := newTestDB(t)
	writes := service.NewRecipeWriteService(db)
	author := createUser(t, db, "Mira", false)
	ctx := context.Background()

	recipe, err := writes.Create(ctx, &author, createRequest("Musaka"))
	require.NoError(t, err)

	update := createRequest("Musaka")
	update.Ingredients = []types.IngredientInput{{Amount: "1", Unit: "kg", Name: "krompir"}}
	update.Directions = []types.DirectionInput{{Instruction: "Sve ispeći."}}
	update.SkillLevel = ""

	updated, err := writes.Update(ctx, &author, recipe.ID, update)
	require.NoError(t, err)
	assert.Equal(t, recipe.Slug, updated.Slug, "slug must survive updates")
	assert.Nil(t, updated.SkillLevel)

	// The old rows are gone; exactly the replacement set remains.
	var ingredients []models.Ingredient
	require.NoError(t, db.Where("recipe_id = ?", recipe.ID).Find(&ingredients).Error)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "krompir", ingredients[0].Name)

	var directions []models.Direction
	require.NoError(t, db.Where("recipe_id = ?", recipe.ID).Find(&directions).Error)
	require.Len(t, directions, 1)
	assert.Equal(t, "Sve ispeći.", directions[0].Instruction)
}

func TestUpdateRecipeAuthorization(t *testing.T) {
	db := newTestDB(t)
	writes := service.NewRecipeWriteService(db)
	author := createUser(t, db, "Mira", false)
	stranger := createUser(t, db, "Joca", false)
	admin := createUser(t, db, "Admin", true)
	ctx := context.Background()

	recipe, err := writes.Create(ctx, &author, createRequest("Prebranac"))
	require.NoError(t, err)

	_, err = writes.Update(ctx, &stranger, recipe.ID, createRequest("Prebranac"))
	assert.ErrorIs(t, err, service.ErrNotRecipeAuthor)

	_, err = writes.Update(ctx, &admin, recipe.ID, createRequest("Prebranac"))
	assert.NoError(t, err)

	err = writes.Delete(ctx, &stranger, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotRecipeAuthor)
}

func TestDeleteRecipeRemovesDependents(t *testing.T) {
	db := newTestDB(t)
	writes := service.NewRecipeWriteService(db)
	author := createUser(t, db, "Mira", false)
	ctx := context.Background()

	recipe, err := writes.Create(ctx, &author, createRequest("Podvarak"))
	require.NoError(t, err)
	addRating(t, db, recipe.ID, 5)

	require.NoError(t, writes.Delete(ctx, &author, recipe.ID))

	for _, model := range []interface{}{
		&models.Recipe{}, &models.Ingredient{}, &models.Direction{}, &models.Rating{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}

	err = writes.Delete(ctx, &author, recipe.ID)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestUpdateMissingRecipe(t *testing.T) {
	db := newTestDB(t)
	writes := service.NewRecipeWriteService(db)
	author := createUser(t, db, "Mira", false)

	_, err := writes.Update(context.Background(), &author, uuid.New(), createRequest("Fantom"))
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}
