package models

import (
    "gorm.io/gorm"
)

// WeeklyMealPlan is identified by the ISO (year, week number) pair.
// At most one plan exists per user and week; the composite unique
// index backs the get-or-create upsert in the plan repository.
type WeeklyMealPlan struct {
    gorm.Model
    UserID     uint   `gorm:"not null;uniqueIndex:idx_plans_user_week"`
    Year       int    `gorm:"not null;uniqueIndex:idx_plans_user_week"`
    WeekNumber int    `gorm:"not null;uniqueIndex:idx_plans_user_week"`
    Name       string `gorm:"size:100;default:'Weekly Meal Plan'"`

    Entries []MealPlanEntry `gorm:"foreignKey:MealPlanID;constraint:OnDelete:CASCADE"`
}

// Days of the week, 0 = Monday … 6 = Sunday.
var DayNames = [7]string{
    "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// MealPlanEntry schedules one meal into a (day, meal type) slot of a
// plan. Slot uniqueness is a service-level policy, not a DB
// constraint, because the relaxed policy allows several entries per
// slot.
type MealPlanEntry struct {
    gorm.Model
    MealPlanID uint `gorm:"index;not null"`
    MealID     uint `gorm:"not null"`
    Meal       Meal
    DayOfWeek  int    `gorm:"not null"` // 0=Monday … 6=Sunday
    MealType   string `gorm:"size:20;not null"`
    Notes      string `gorm:"type:text"`
}
