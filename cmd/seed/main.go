package main

import (
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mojirecepti/backend/config"
	"github.com/mojirecepti/backend/internal/database"
	"github.com/mojirecepti/backend/internal/models"
	"github.com/mojirecepti/backend/internal/service"
)

type seedCategory struct {
	Name string
	Type string
}

var seedCategories = []seedCategory{
	{"Doručak", models.CategoryMealType},
	{"Ručak", models.CategoryMealType},
	{"Večera", models.CategoryMealType},
	{"Dezert", models.CategoryMealType},
	{"Užina", models.CategoryMealType},
	{"Srpska", models.CategoryCuisine},
	{"Italijanska", models.CategoryCuisine},
	{"Meksička", models.CategoryCuisine},
	{"Azijska", models.CategoryCuisine},
	{"Mediteranska", models.CategoryCuisine},
	{"Vegetarijanska", models.CategoryDiet},
	{"Posna", models.CategoryDiet},
	{"Bez glutena", models.CategoryDiet},
	{"Slava", models.CategoryOccasion},
	{"Praznici", models.CategoryOccasion},
	{"Pečenje", models.CategoryCookingMethod},
	{"Kuvanje", models.CategoryCookingMethod},
	{"Roštilj", models.CategoryCookingMethod},
}

type seedRecipe struct {
	Title        string
	Description  string
	PrepTime     int
	CookTime     int
	Servings     int
	SkillLevel   string
	Categories   []string
	Ingredients  []models.Ingredient
	Directions   []string
	WhyYoullLove []string
}

var seedRecipes = []seedRecipe{
	{
		Title:       "Sarma",
		Description: "Tradicionalna sarma od kiselog kupusa sa mlevenim mesom i pirinčem.",
		PrepTime:    30,
		CookTime:    150,
		Servings:    6,
		SkillLevel:  models.SkillMedium,
		Categories:  []string{"Ručak", "Srpska", "Kuvanje"},
		Ingredients: []models.Ingredient{
			{Amount: "1", Unit: "kg", Name: "kiseli kupus"},
			{Amount: "500", Unit: "g", Name: "mleveno meso"},
			{Amount: "100", Unit: "g", Name: "pirinač"},
			{Amount: "1", Unit: "kom", Name: "crni luk"},
			{Amount: "200", Unit: "g", Name: "suvo meso"},
		},
		Directions: []string{
			"Propržiti sitno iseckan luk, pa dodati mleveno meso.",
			"Umešati opran pirinač i začine, pa ohladiti fil.",
			"Uviti fil u listove kiselog kupusa.",
			"Složiti sarme u lonac sa suvim mesom i kuvati dva i po sata.",
		},
		WhyYoullLove: []string{
			"Nezaobilazno zimsko jelo",
			"Još bolja podgrejana sutradan",
		},
	},
	{
		Title:       "Šopska salata",
		Description: "Sveža salata od paradajza, krastavca i sira, gotova za deset minuta.",
		PrepTime:    10,
		CookTime:    0,
		Servings:    4,
		SkillLevel:  models.SkillEasy,
		Categories:  []string{"Užina", "Srpska"},
		Ingredients: []models.Ingredient{
			{Amount: "4", Unit: "kom", Name: "paradajz"},
			{Amount: "1", Unit: "kom", Name: "krastavac"},
			{Amount: "200", Unit: "g", Name: "beli sir"},
			{Amount: "1", Unit: "kom", Name: "crni luk"},
		},
		Directions: []string{
			"Iseckati povrće na kockice i posoliti.",
			"Preliti uljem i izrendati sir preko salate.",
		},
		WhyYoullLove: []string{
			"Gotova za deset minuta",
			"Bez kuvanja",
		},
	},
	{
		Title:       "Punjene paprike",
		Description: "Paprike punjene mlevenim mesom i pirinčem, kuvane u paradajz sosu.",
		PrepTime:    25,
		CookTime:    60,
		Servings:    4,
		SkillLevel:  models.SkillMedium,
		Categories:  []string{"Ručak", "Srpska", "Kuvanje"},
		Ingredients: []models.Ingredient{
			{Amount: "8", Unit: "kom", Name: "paprika"},
			{Amount: "500", Unit: "g", Name: "mleveno meso"},
			{Amount: "100", Unit: "g", Name: "pirinač"},
			{Amount: "500", Unit: "ml", Name: "paradajz sok"},
		},
		Directions: []string{
			"Očistiti paprike i pripremiti fil od mesa i pirinča.",
			"Napuniti paprike i složiti ih u šerpu.",
			"Naliti paradajz sokom i kuvati sat vremena.",
		},
		WhyYoullLove: []string{
			"Klasik domaće kuhinje",
		},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := seed(db); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}

func seed(db *gorm.DB) error {
	categoryIDs := make(map[string][]models.Category)

	for i, sc := range seedCategories {
		category := models.Category{
			Slug:      service.Slugify(sc.Name),
			Name:      sc.Name,
			Type:      sc.Type,
			SortOrder: i,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&category).Error
		if err != nil {
			return err
		}
		// Reload so we hold the persisted id even when the row existed.
		var persisted models.Category
		if err := db.Where("slug = ?", category.Slug).First(&persisted).Error; err != nil {
			return err
		}
		categoryIDs[sc.Name] = append(categoryIDs[sc.Name], persisted)
	}

	for _, sr := range seedRecipes {
		slug := service.Slugify(sr.Title)

		var count int64
		if err := db.Model(&models.Recipe{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			log.Printf("Recipe already seeded: %s", slug)
			continue
		}

		skill := sr.SkillLevel
		recipe := models.Recipe{
			Slug:            slug,
			Title:           sr.Title,
			Description:     sr.Description,
			WhyYoullLove:    models.JSONBStringArray(sr.WhyYoullLove),
			PrepTimeMinutes: sr.PrepTime,
			CookTimeMinutes: sr.CookTime,
			Servings:        sr.Servings,
			SkillLevel:      &skill,
			AuthorName:      "Moji Recepti",
			Status:          models.StatusPublished,
			Embedding:       service.GenerateEmbedding(sr.Title + " " + sr.Description),
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&recipe).Error; err != nil {
				return err
			}
			for i := range sr.Ingredients {
				ing := sr.Ingredients[i]
				ing.RecipeID = recipe.ID
				ing.SortOrder = i
				if err := tx.Create(&ing).Error; err != nil {
					return err
				}
			}
			for i, instruction := range sr.Directions {
				dir := models.Direction{
					RecipeID:    recipe.ID,
					StepNumber:  i + 1,
					Instruction: instruction,
					SortOrder:   i,
				}
				if err := tx.Create(&dir).Error; err != nil {
					return err
				}
			}
			for _, name := range sr.Categories {
				for _, category := range categoryIDs[name] {
					link := models.RecipeCategory{RecipeID: recipe.ID, CategoryID: category.ID}
					if err := tx.Create(&link).Error; err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		log.Printf("Seeded recipe: %s", slug)
	}

	return nil
}
