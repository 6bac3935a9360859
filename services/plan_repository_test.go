package services

import (
	"errors"
	"testing"
	"time"

	"github.com/iamkhush/weekly-meals/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Meal{},
		&models.Recipe{},
		&models.Nutrition{},
		&models.WeeklyMealPlan{},
		&models.MealPlanEntry{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedMeal(t *testing.T, db *gorm.DB, ownerID uint, name string) *models.Meal {
	t.Helper()
	m := &models.Meal{Name: name, MealType: models.MealCategoryDinner, CreatedByID: ownerID}
	require.NoError(t, db.Create(m).Error)
	return m
}

func TestGetOrCreatePlanIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlanRepository(db)
	user := seedUser(t, db, "a@example.com")

	first, err := repo.GetOrCreatePlan(user.ID, 2024, 10, "Week of 2024-03-04")
	require.NoError(t, err)
	second, err := repo.GetOrCreatePlan(user.ID, 2024, 10, "ignored on refetch")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Week of 2024-03-04", second.Name)

	var count int64
	require.NoError(t, db.Model(&models.WeeklyMealPlan{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreatePlanSeparatesUsersAndWeeks(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlanRepository(db)
	a := seedUser(t, db, "a@example.com")
	b := seedUser(t, db, "b@example.com")

	p1, err := repo.GetOrCreatePlan(a.ID, 2024, 10, "a w10")
	require.NoError(t, err)
	p2, err := repo.GetOrCreatePlan(b.ID, 2024, 10, "b w10")
	require.NoError(t, err)
	p3, err := repo.GetOrCreatePlan(a.ID, 2024, 11, "a w11")
	require.NoError(t, err)

	assert.NotEqual(t, p1.ID, p2.ID)
	assert.NotEqual(t, p1.ID, p3.ID)
}

func TestGetMealEnforcesOwnership(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlanRepository(db)
	owner := seedUser(t, db, "a@example.com")
	other := seedUser(t, db, "b@example.com")
	meal := seedMeal(t, db, owner.ID, "Pasta")

	got, err := repo.GetMeal(meal.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", got.Name)

	_, err = repo.GetMeal(meal.ID, other.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEntrySlotLookupAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlanRepository(db)
	user := seedUser(t, db, "a@example.com")
	meal := seedMeal(t, db, user.ID, "Pasta")
	plan, err := repo.GetOrCreatePlan(user.ID, 2024, 10, "w10")
	require.NoError(t, err)

	found, err := repo.FindEntryForSlot(plan.ID, 0, models.MealCategoryDinner)
	require.NoError(t, err)
	assert.Nil(t, found)

	entry := &models.MealPlanEntry{
		MealPlanID: plan.ID,
		MealID:     meal.ID,
		DayOfWeek:  0,
		MealType:   models.MealCategoryDinner,
		Notes:      "with garlic bread",
	}
	require.NoError(t, repo.CreateEntry(entry))

	found, err = repo.FindEntryForSlot(plan.ID, 0, models.MealCategoryDinner)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entry.ID, found.ID)

	entries, err := repo.ListEntries(plan.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Pasta", entries[0].Meal.Name, "meal preloaded for grid cells")

	require.NoError(t, repo.DeleteEntry(plan.ID, entry.ID))
	err = repo.DeleteEntry(plan.ID, entry.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListHistorySince(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlanRepository(db)
	user := seedUser(t, db, "a@example.com")
	stranger := seedUser(t, db, "b@example.com")
	pasta := seedMeal(t, db, user.ID, "Pasta")
	curry := seedMeal(t, db, user.ID, "Curry")
	foreign := seedMeal(t, db, stranger.ID, "Foreign Feast")

	oldPlan := &models.WeeklyMealPlan{UserID: user.ID, Year: 2023, WeekNumber: 40, Name: "stale"}
	require.NoError(t, db.Create(oldPlan).Error)
	require.NoError(t, db.Model(oldPlan).UpdateColumn("created_at", time.Now().AddDate(0, 0, -60)).Error)

	recent, err := repo.GetOrCreatePlan(user.ID, 2024, 10, "Week of 2024-03-04")
	require.NoError(t, err)
	strangerPlan, err := repo.GetOrCreatePlan(stranger.ID, 2024, 10, "not mine")
	require.NoError(t, err)

	for _, e := range []*models.MealPlanEntry{
		{MealPlanID: oldPlan.ID, MealID: pasta.ID, DayOfWeek: 0, MealType: models.MealCategoryDinner},
		{MealPlanID: recent.ID, MealID: curry.ID, DayOfWeek: 4, MealType: models.MealCategoryLunch},
		{MealPlanID: recent.ID, MealID: pasta.ID, DayOfWeek: 0, MealType: models.MealCategoryDinner},
		{MealPlanID: strangerPlan.ID, MealID: foreign.ID, DayOfWeek: 1, MealType: models.MealCategoryDinner},
	} {
		require.NoError(t, repo.CreateEntry(e))
	}

	rows, err := repo.ListHistorySince(user.ID, time.Now().AddDate(0, 0, -28))
	require.NoError(t, err)

	require.Len(t, rows, 2, "only own entries inside the window")
	assert.Equal(t, HistoryEntry{
		PlanName: "Week of 2024-03-04", DayOfWeek: 0,
		MealType: models.MealCategoryDinner, MealName: "Pasta",
	}, rows[0], "ordered by day within the plan")
	assert.Equal(t, "Curry", rows[1].MealName)
}
