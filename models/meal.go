package models

import (
    "gorm.io/gorm"
)

// Meal categories. "lunch" and "dinner" used to be a single
// "lunch or dinner" category; migrated rows keep the split values.
const (
    MealCategoryBreakfast = "breakfast"
    MealCategoryLunch     = "lunch"
    MealCategoryDinner    = "dinner"
    MealCategorySnack     = "snack"
)

var MealCategories = []string{
    MealCategoryBreakfast,
    MealCategoryLunch,
    MealCategoryDinner,
    MealCategorySnack,
}

func ValidMealCategory(t string) bool {
    for _, c := range MealCategories {
        if c == t {
            return true
        }
    }
    return false
}

// Meal is a catalog entry owned by one user. Name is unique within
// that user's catalog. Recipe and Nutrition are optional one-to-one
// records owned by the meal's lifecycle.
type Meal struct {
    gorm.Model
    Name        string `gorm:"size:200;not null;uniqueIndex:idx_meals_owner_name"`
    Description string `gorm:"type:text"`
    MealType    string `gorm:"size:20;not null"`
    CreatedByID uint   `gorm:"not null;uniqueIndex:idx_meals_owner_name"`

    Recipe    *Recipe    `gorm:"constraint:OnDelete:CASCADE"`
    Nutrition *Nutrition `gorm:"constraint:OnDelete:CASCADE"`
}

type Recipe struct {
    gorm.Model
    MealID       uint   `gorm:"uniqueIndex;not null"`
    Ingredients  string `gorm:"type:text"`
    Instructions string `gorm:"type:text"`
    PrepTime     uint   // minutes
    CookTime     uint   // minutes
    Servings     uint   `gorm:"default:1"`
    Difficulty   string `gorm:"size:20;default:'easy'"` // easy|medium|hard
}

func (r *Recipe) TotalTime() uint {
    return r.PrepTime + r.CookTime
}

// Nutrition values are per serving. Nil means unknown, not zero.
type Nutrition struct {
    gorm.Model
    MealID             uint `gorm:"uniqueIndex;not null"`
    CaloriesPerServing *uint
    ProteinGrams       *float64
    CarbsGrams         *float64
    FatGrams           *float64
    FiberGrams         *float64
    SugarGrams         *float64
    SodiumMg           *float64
}
