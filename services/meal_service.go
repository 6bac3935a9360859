package services

import (
	"errors"
	"fmt"

	"github.com/iamkhush/weekly-meals/models"

	"gorm.io/gorm"
)

type MealService struct {
	db *gorm.DB
}

func NewMealService(db *gorm.DB) *MealService {
	return &MealService{db: db}
}

type RecipeInput struct {
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	PrepTime     uint   `json:"prep_time"`
	CookTime     uint   `json:"cook_time"`
	Servings     uint   `json:"servings"`
	Difficulty   string `json:"difficulty"`
}

type NutritionInput struct {
	CaloriesPerServing *uint    `json:"calories_per_serving"`
	ProteinGrams       *float64 `json:"protein_grams"`
	CarbsGrams         *float64 `json:"carbs_grams"`
	FatGrams           *float64 `json:"fat_grams"`
	FiberGrams         *float64 `json:"fiber_grams"`
	SugarGrams         *float64 `json:"sugar_grams"`
	SodiumMg           *float64 `json:"sodium_mg"`
}

type MealInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	MealType    string          `json:"meal_type" binding:"required"`
	Recipe      *RecipeInput    `json:"recipe"`
	Nutrition   *NutritionInput `json:"nutrition"`
}

func (s *MealService) CreateMeal(userID uint, input MealInput) (*models.Meal, error) {
	if !models.ValidMealCategory(input.MealType) {
		return nil, fmt.Errorf("unknown meal type %q: %w", input.MealType, ErrValidation)
	}
	if err := s.checkNameFree(userID, input.Name, 0); err != nil {
		return nil, err
	}

	meal := &models.Meal{
		Name:        input.Name,
		Description: input.Description,
		MealType:    input.MealType,
		CreatedByID: userID,
	}
	if err := s.db.Create(meal).Error; err != nil {
		return nil, err
	}

	if input.Recipe != nil {
		recipe := recipeFromInput(meal.ID, input.Recipe)
		if err := s.db.Create(recipe).Error; err != nil {
			return nil, err
		}
	}
	if input.Nutrition != nil {
		nutrition := nutritionFromInput(meal.ID, input.Nutrition)
		if err := s.db.Create(nutrition).Error; err != nil {
			return nil, err
		}
	}

	return s.GetMeal(userID, meal.ID)
}

func (s *MealService) ListMeals(userID uint) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.
		Preload("Recipe").
		Preload("Nutrition").
		Where("created_by_id = ?", userID).
		Order("created_at DESC").
		Find(&meals).Error
	return meals, err
}

func (s *MealService) GetMeal(userID, mealID uint) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.
		Preload("Recipe").
		Preload("Nutrition").
		Where("id = ? AND created_by_id = ?", mealID, userID).
		First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("meal %d: %w", mealID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

func (s *MealService) UpdateMeal(userID, mealID uint, input MealInput) (*models.Meal, error) {
	if !models.ValidMealCategory(input.MealType) {
		return nil, fmt.Errorf("unknown meal type %q: %w", input.MealType, ErrValidation)
	}

	meal, err := s.GetMeal(userID, mealID)
	if err != nil {
		return nil, err
	}
	if err := s.checkNameFree(userID, input.Name, meal.ID); err != nil {
		return nil, err
	}

	meal.Name = input.Name
	meal.Description = input.Description
	meal.MealType = input.MealType
	if err := s.db.Save(meal).Error; err != nil {
		return nil, err
	}

	// Replace the nested records wholesale; an omitted block removes
	// the stored one. The deletes bypass soft delete: a tombstone
	// would keep holding the meal_id unique index and block the
	// replacement row.
	if err := s.db.Unscoped().Where("meal_id = ?", meal.ID).Delete(&models.Recipe{}).Error; err != nil {
		return nil, err
	}
	if input.Recipe != nil {
		if err := s.db.Create(recipeFromInput(meal.ID, input.Recipe)).Error; err != nil {
			return nil, err
		}
	}
	if err := s.db.Unscoped().Where("meal_id = ?", meal.ID).Delete(&models.Nutrition{}).Error; err != nil {
		return nil, err
	}
	if input.Nutrition != nil {
		if err := s.db.Create(nutritionFromInput(meal.ID, input.Nutrition)).Error; err != nil {
			return nil, err
		}
	}

	return s.GetMeal(userID, meal.ID)
}

// DeleteMeal removes a meal together with its recipe, nutrition record
// and any plan entries that reference it. The cascade hard-deletes:
// the (name, created_by_id) unique index must free the name for reuse,
// and a soft-deleted row would keep holding it.
func (s *MealService) DeleteMeal(userID, mealID uint) error {
	meal, err := s.GetMeal(userID, mealID)
	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Where("meal_id = ?", meal.ID).Delete(&models.MealPlanEntry{}).Error; err != nil {
		return err
	}
	if err := s.db.Unscoped().Where("meal_id = ?", meal.ID).Delete(&models.Recipe{}).Error; err != nil {
		return err
	}
	if err := s.db.Unscoped().Where("meal_id = ?", meal.ID).Delete(&models.Nutrition{}).Error; err != nil {
		return err
	}
	return s.db.Unscoped().Delete(&models.Meal{}, meal.ID).Error
}

func (s *MealService) checkNameFree(userID uint, name string, excludeID uint) error {
	var count int64
	q := s.db.Model(&models.Meal{}).
		Where("created_by_id = ? AND name = ?", userID, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("meal name %q already in use: %w", name, ErrValidation)
	}
	return nil
}

func recipeFromInput(mealID uint, in *RecipeInput) *models.Recipe {
	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = "easy"
	}
	servings := in.Servings
	if servings == 0 {
		servings = 1
	}
	return &models.Recipe{
		MealID:       mealID,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
		PrepTime:     in.PrepTime,
		CookTime:     in.CookTime,
		Servings:     servings,
		Difficulty:   difficulty,
	}
}

func nutritionFromInput(mealID uint, in *NutritionInput) *models.Nutrition {
	return &models.Nutrition{
		MealID:             mealID,
		CaloriesPerServing: in.CaloriesPerServing,
		ProteinGrams:       in.ProteinGrams,
		CarbsGrams:         in.CarbsGrams,
		FatGrams:           in.FatGrams,
		FiberGrams:         in.FiberGrams,
		SugarGrams:         in.SugarGrams,
		SodiumMg:           in.SodiumMg,
	}
}
