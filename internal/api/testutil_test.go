package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mojirecepti/backend/config"
	"github.com/mojirecepti/backend/internal/models"
	"github.com/mojirecepti/backend/internal/router"
)

func setupServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	engine := router.SetupRouter(router.Deps{
		DB: db,
		Config: &config.Config{
			JWTSecret:      "test-secret",
			ListingScanCap: 500,
		},
	})
	return engine, db
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registerUser(t *testing.T, engine *gin.Engine, name, email string) string {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "lozinka123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

func loginUser(t *testing.T, engine *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "lozinka123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

// Admin status lives in the token claims, so callers must log in again after
// promotion to pick it up.
func promoteToAdmin(t *testing.T, db *gorm.DB, email string) {
	t.Helper()
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", email).
		Update("is_admin", true).Error)
}

func sampleRecipeBody(title string) gin.H {
	return gin.H{
		"title":             title,
		"description":       "opis",
		"prep_time_minutes": 10,
		"cook_time_minutes": 20,
		"servings":          4,
		"skill_level":       "lako",
		"ingredients":       []gin.H{{"amount": "200", "unit": "g", "name": "brašno"}},
		"directions":        []gin.H{{"instruction": "Umesiti testo."}},
	}
}
