package config

import (
	"fmt"
	"log"
	"os"

	"github.com/iamkhush/weekly-meals/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	var dialector gorm.Dialector
	if os.Getenv("DB_DRIVER") == "sqlite" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "weekly_meals.db"
		}
		dialector = sqlite.Open(path)
	} else {
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
		)
		dialector = postgres.Open(dsn)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Meal{},
		&models.Recipe{},
		&models.Nutrition{},
		&models.WeeklyMealPlan{},
		&models.MealPlanEntry{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// StrictPlanSlots reports whether each (day, meal type) slot of a plan
// holds at most one entry. The relaxed policy keeps every insert and
// lets the newest entry win when the grid is rendered.
func StrictPlanSlots() bool {
	return os.Getenv("RELAXED_PLAN_SLOTS") != "true"
}
