package service

import (
	"context"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
	"github.com/mojirecepti/backend/internal/models"
	"github.com/mojirecepti/backend/internal/types"
	"gorm.io/gorm/clause"
)

// GenerateEmbedding returns a small deterministic embedding for the given
// text: total length, vowel count and consonant count. It is computed at
// write time from title and description and used to order search results on
// Postgres.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var vowels, consonants float32
	for _, r := range text {
		if strings.ContainsRune("aeiou", r) {
			vowels++
		} else if r >= 'a' && r <= 'z' {
			consonants++
		}
	}
	return pgvector.NewVector([]float32{float32(len(text)), vowels, consonants})
}

// Search performs a free-text search over published recipe titles and
// descriptions. On Postgres the keyword matches are ordered by embedding
// distance to the query; elsewhere plain recency order applies.
func (s *RecipeService) Search(ctx context.Context, query string, limit int) ([]types.RecipeSummary, error) {
	if limit <= 0 {
		limit = 12
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []types.RecipeSummary{}, nil
	}

	like := "%" + strings.ToLower(query) + "%"
	dbQuery := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("status = ?", models.StatusPublished).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)

	if s.db.Dialector.Name() == "postgres" {
		vec := GenerateEmbedding(query)
		dbQuery = dbQuery.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
		})
	} else {
		dbQuery = dbQuery.Order("created_at DESC")
	}

	var recipes []models.Recipe
	if err := dbQuery.Limit(limit).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return s.enrich(ctx, recipes)
}
