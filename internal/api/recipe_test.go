package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojirecepti/backend/internal/models"
)

func createRecipeViaAPI(t *testing.T, engine *gin.Engine, token, title string) map[string]interface{} {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/v1/recipes", token, sampleRecipeBody(title))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	recipe, ok := decodeBody(t, w)["recipe"].(map[string]interface{})
	require.True(t, ok)
	return recipe
}

func TestCreateAndFetchRecipe(t *testing.T) {
	engine, _ := setupServer(t)
	token := registerUser(t, engine, "Mira", "mira@example.com")

	created := createRecipeViaAPI(t, engine, token, "Projara sa sirom")
	assert.Equal(t, "projara-sa-sirom", created["slug"])

	w := doJSON(t, engine, http.MethodGet, "/api/v1/recipes/projara-sa-sirom", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Projara sa sirom", body["title"])
	assert.Equal(t, float64(30), body["total_time_minutes"])
	assert.Equal(t, "Mira", body["author_name"])

	w = doJSON(t, engine, http.MethodGet, "/api/v1/recipes/nepostojeci", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRecipesFilterParams(t *testing.T) {
	engine, db := setupServer(t)
	token := registerUser(t, engine, "Mira", "mira@example.com")

	quick := createRecipeViaAPI(t, engine, token, "Brza užina")

	slow := sampleRecipeBody("Sporo kuvanje")
	slow["prep_time_minutes"] = 30
	slow["cook_time_minutes"] = 120
	slow["skill_level"] = "tesko"
	w := doJSON(t, engine, http.MethodPost, "/api/v1/recipes", token, slow)
	require.Equal(t, http.StatusCreated, w.Code)

	listSlugs := func(query string) []string {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/recipes"+query, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		raw, ok := decodeBody(t, w)["recipes"].([]interface{})
		require.True(t, ok)
		slugs := make([]string, 0, len(raw))
		for _, item := range raw {
			slugs = append(slugs, item.(map[string]interface{})["slug"].(string))
		}
		return slugs
	}

	assert.Len(t, listSlugs(""), 2)
	assert.Equal(t, []string{"brza-uzina"}, listSlugs("?vreme=do-30"))
	assert.Equal(t, []string{"sporo-kuvanje"}, listSlugs("?vreme=120-plus"))
	assert.Equal(t, []string{"sporo-kuvanje"}, listSlugs("?tezina=tesko"))
	assert.Len(t, listSlugs("?tezina=izmisljeno"), 2)
	assert.Equal(t, []string{"brza-uzina"}, listSlugs("?sastojak=brašno&vreme=do-60"))

	// Category filter over a seeded category.
	category := models.Category{Slug: "dezert", Name: "Dezert", Type: models.CategoryMealType}
	require.NoError(t, db.Create(&category).Error)
	var recipeID string = quick["id"].(string)
	require.NoError(t, db.Exec(
		"INSERT INTO recipe_categories (recipe_id, category_id) VALUES (?, ?)",
		recipeID, category.ID,
	).Error)
	assert.Equal(t, []string{"brza-uzina"}, listSlugs("?kategorija=dezert"))
}

func TestRecipeCountAndFeatured(t *testing.T) {
	engine, _ := setupServer(t)
	token := registerUser(t, engine, "Mira", "mira@example.com")
	createRecipeViaAPI(t, engine, token, "Prvi")
	createRecipeViaAPI(t, engine, token, "Drugi")

	w := doJSON(t, engine, http.MethodGet, "/api/v1/recipes/count", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["count"])

	w = doJSON(t, engine, http.MethodGet, "/api/v1/recipes/featured", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	featured, ok := decodeBody(t, w)["recipes"].([]interface{})
	require.True(t, ok)
	assert.Len(t, featured, 2)
}

func TestUpdateRecipeOwnership(t *testing.T) {
	engine, _ := setupServer(t)
	owner := registerUser(t, engine, "Mira", "mira@example.com")
	other := registerUser(t, engine, "Joca", "joca@example.com")

	created := createRecipeViaAPI(t, engine, owner, "Gibanica")
	id := created["id"].(string)

	update := sampleRecipeBody("Gibanica")
	update["description"] = "novi opis"

	w := doJSON(t, engine, http.MethodPut, "/api/v1/recipes/"+id, other, update)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, engine, http.MethodPut, "/api/v1/recipes/"+id, owner, update)
	require.Equal(t, http.StatusOK, w.Code)
	recipe := decodeBody(t, w)["recipe"].(map[string]interface{})
	assert.Equal(t, "novi opis", recipe["description"])

	w = doJSON(t, engine, http.MethodDelete, "/api/v1/recipes/"+id, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, engine, http.MethodDelete, "/api/v1/recipes/"+id, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/recipes/gibanica", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMyRecipesAndSaved(t *testing.T) {
	engine, _ := setupServer(t)
	author := registerUser(t, engine, "Mira", "mira@example.com")
	reader := registerUser(t, engine, "Joca", "joca@example.com")

	created := createRecipeViaAPI(t, engine, author, "Komplet lepinja")
	id := created["id"].(string)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/my/recipes", author, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decodeBody(t, w)["recipes"].([]interface{})
	assert.Len(t, mine, 1)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/my/recipes", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["recipes"])

	w = doJSON(t, engine, http.MethodPost, "/api/v1/saved", reader, map[string]string{"recipe_id": id})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/saved/"+id, reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["saved"])

	w = doJSON(t, engine, http.MethodGet, "/api/v1/my/saved", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["recipes"], 1)

	w = doJSON(t, engine, http.MethodDelete, "/api/v1/saved/"+id, reader, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/saved/"+id, reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["saved"])
}
