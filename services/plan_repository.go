package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/iamkhush/weekly-meals/models"

	"gorm.io/gorm"
)

// PlanRepository is the persistence surface the plan and suggestion
// services depend on. The gorm implementation below is the real one;
// tests substitute fakes.
type PlanRepository interface {
	GetMeal(id, ownerID uint) (*models.Meal, error)
	GetOrCreatePlan(ownerID uint, year, week int, defaultName string) (*models.WeeklyMealPlan, error)
	GetPlan(ownerID uint, year, week int) (*models.WeeklyMealPlan, error)
	ListEntries(planID uint) ([]models.MealPlanEntry, error)
	ListHistorySince(ownerID uint, since time.Time) ([]HistoryEntry, error)
	FindEntryForSlot(planID uint, day int, mealType string) (*models.MealPlanEntry, error)
	CreateEntry(entry *models.MealPlanEntry) error
	SaveEntry(entry *models.MealPlanEntry) error
	DeleteEntry(planID, entryID uint) error
}

// HistoryEntry is one scheduled meal from a past plan, flattened for
// prompt rendering.
type HistoryEntry struct {
	PlanName  string `json:"plan_name"`
	DayOfWeek int    `json:"day_of_week"`
	MealType  string `json:"meal_type"`
	MealName  string `json:"meal_name"`
}

type gormPlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &gormPlanRepository{db: db}
}

func (r *gormPlanRepository) GetMeal(id, ownerID uint) (*models.Meal, error) {
	var meal models.Meal
	err := r.db.
		Preload("Recipe").
		Preload("Nutrition").
		Where("id = ? AND created_by_id = ?", id, ownerID).
		First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("meal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

// GetOrCreatePlan is the upsert behind week navigation. The composite
// unique index on (user_id, year, week_number) makes concurrent
// creation race to a single row: if our insert loses, the refetch
// returns the winner.
func (r *gormPlanRepository) GetOrCreatePlan(ownerID uint, year, week int, defaultName string) (*models.WeeklyMealPlan, error) {
	var plan models.WeeklyMealPlan
	err := r.db.
		Where("user_id = ? AND year = ? AND week_number = ?", ownerID, year, week).
		First(&plan).Error
	if err == nil {
		return &plan, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	plan = models.WeeklyMealPlan{
		UserID:     ownerID,
		Year:       year,
		WeekNumber: week,
		Name:       defaultName,
	}
	if createErr := r.db.Create(&plan).Error; createErr != nil {
		// Likely a duplicate-key loss against a concurrent request.
		var existing models.WeeklyMealPlan
		if refetchErr := r.db.
			Where("user_id = ? AND year = ? AND week_number = ?", ownerID, year, week).
			First(&existing).Error; refetchErr == nil {
			return &existing, nil
		}
		return nil, createErr
	}
	return &plan, nil
}

func (r *gormPlanRepository) GetPlan(ownerID uint, year, week int) (*models.WeeklyMealPlan, error) {
	var plan models.WeeklyMealPlan
	err := r.db.
		Where("user_id = ? AND year = ? AND week_number = ?", ownerID, year, week).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("plan %d/%d: %w", year, week, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormPlanRepository) ListEntries(planID uint) ([]models.MealPlanEntry, error) {
	var entries []models.MealPlanEntry
	err := r.db.
		Preload("Meal").
		Where("meal_plan_id = ?", planID).
		Order("created_at").
		Find(&entries).Error
	return entries, err
}

func (r *gormPlanRepository) ListHistorySince(ownerID uint, since time.Time) ([]HistoryEntry, error) {
	var rows []HistoryEntry
	err := r.db.
		Table("meal_plan_entries").
		Select("weekly_meal_plans.name AS plan_name, meal_plan_entries.day_of_week, meal_plan_entries.meal_type, meals.name AS meal_name").
		Joins("JOIN weekly_meal_plans ON weekly_meal_plans.id = meal_plan_entries.meal_plan_id").
		Joins("JOIN meals ON meals.id = meal_plan_entries.meal_id").
		Where("weekly_meal_plans.user_id = ? AND weekly_meal_plans.created_at >= ?", ownerID, since).
		Where("meal_plan_entries.deleted_at IS NULL AND weekly_meal_plans.deleted_at IS NULL").
		Order("weekly_meal_plans.created_at, meal_plan_entries.day_of_week, meal_plan_entries.meal_type").
		Scan(&rows).Error
	return rows, err
}

func (r *gormPlanRepository) FindEntryForSlot(planID uint, day int, mealType string) (*models.MealPlanEntry, error) {
	var entry models.MealPlanEntry
	err := r.db.
		Where("meal_plan_id = ? AND day_of_week = ? AND meal_type = ?", planID, day, mealType).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *gormPlanRepository) CreateEntry(entry *models.MealPlanEntry) error {
	return r.db.Create(entry).Error
}

func (r *gormPlanRepository) SaveEntry(entry *models.MealPlanEntry) error {
	return r.db.Save(entry).Error
}

func (r *gormPlanRepository) DeleteEntry(planID, entryID uint) error {
	res := r.db.
		Where("id = ? AND meal_plan_id = ?", entryID, planID).
		Delete(&models.MealPlanEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("entry %d: %w", entryID, ErrNotFound)
	}
	return nil
}
