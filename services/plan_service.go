package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/iamkhush/weekly-meals/models"
	"github.com/iamkhush/weekly-meals/utils"
)

// WeekRef names an ISO 8601 week.
type WeekRef struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// WeekGrid holds one cell per (day, meal type) slot. Index 0 is
// Monday. A nil cell means nothing is planned for that slot.
type WeekGrid [7]map[string]*models.MealPlanEntry

type WeekNavigation struct {
	Previous      WeekRef `json:"previous"`
	Next          WeekRef `json:"next"`
	IsCurrentWeek bool    `json:"is_current_week"`
}

type WeekGridResult struct {
	Plan       *models.WeeklyMealPlan `json:"plan"`
	WeekStart  time.Time              `json:"week_start"`
	Grid       WeekGrid               `json:"grid"`
	Navigation WeekNavigation         `json:"navigation"`
}

type PlanService struct {
	repo        PlanRepository
	strictSlots bool

	// Now is the clock used for "current week" resolution; tests pin it.
	Now func() time.Time
}

func NewPlanService(repo PlanRepository, strictSlots bool) *PlanService {
	return &PlanService{repo: repo, strictSlots: strictSlots, Now: time.Now}
}

// BuildWeekGrid resolves a week to its plan and lays the plan's
// entries out as a 7x4 grid. A nil ref means the week containing
// today. The plan is created on first visit; that is the only write.
//
// The caller must hand in a valid ISO week (utils.ValidISOWeek); the
// builder does not re-check.
func (s *PlanService) BuildWeekGrid(userID uint, ref *WeekRef) (*WeekGridResult, error) {
	now := s.Now()
	if ref == nil {
		y, w := now.ISOWeek()
		ref = &WeekRef{Year: y, Week: w}
	}

	weekStart := utils.ISOWeekStart(ref.Year, ref.Week)
	defaultName := fmt.Sprintf("Week of %s", weekStart.Format("2006-01-02"))

	plan, err := s.repo.GetOrCreatePlan(userID, ref.Year, ref.Week, defaultName)
	if err != nil {
		return nil, fmt.Errorf("resolving plan for week %d/%d: %w", ref.Year, ref.Week, err)
	}

	entries, err := s.repo.ListEntries(plan.ID)
	if err != nil {
		return nil, fmt.Errorf("loading entries for plan %d: %w", plan.ID, err)
	}

	var grid WeekGrid
	for day := range grid {
		grid[day] = make(map[string]*models.MealPlanEntry, len(models.MealCategories))
		for _, mt := range models.MealCategories {
			grid[day][mt] = nil
		}
	}
	// Later entries overwrite earlier ones in the same slot. Under the
	// relaxed slot policy that makes the newest insert win.
	for i := range entries {
		e := &entries[i]
		if e.DayOfWeek < 0 || e.DayOfWeek > 6 || !models.ValidMealCategory(e.MealType) {
			continue
		}
		grid[e.DayOfWeek][e.MealType] = e
	}

	prevYear, prevWeek := weekStart.AddDate(0, 0, -7).ISOWeek()
	nextYear, nextWeek := weekStart.AddDate(0, 0, 7).ISOWeek()
	nowYear, nowWeek := now.ISOWeek()

	return &WeekGridResult{
		Plan:      plan,
		WeekStart: weekStart,
		Grid:      grid,
		Navigation: WeekNavigation{
			Previous:      WeekRef{Year: prevYear, Week: prevWeek},
			Next:          WeekRef{Year: nextYear, Week: nextWeek},
			IsCurrentWeek: ref.Year == nowYear && ref.Week == nowWeek,
		},
	}, nil
}

// UpsertEntry schedules a meal into a slot of the given plan. Under
// the strict slot policy an occupied slot is updated in place, so a
// slot never holds two entries; under the relaxed policy every call
// inserts.
func (s *PlanService) UpsertEntry(userID uint, plan *models.WeeklyMealPlan, day int, mealType string, mealID uint, notes string) (*models.MealPlanEntry, error) {
	if day < 0 || day > 6 {
		return nil, fmt.Errorf("day of week %d out of range: %w", day, ErrValidation)
	}
	if !models.ValidMealCategory(mealType) {
		return nil, fmt.Errorf("unknown meal type %q: %w", mealType, ErrValidation)
	}
	if plan.UserID != userID {
		return nil, fmt.Errorf("plan %d: %w", plan.ID, ErrNotFound)
	}

	meal, err := s.repo.GetMeal(mealID, userID)
	if err != nil {
		return nil, err
	}

	if s.strictSlots {
		existing, err := s.repo.FindEntryForSlot(plan.ID, day, mealType)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			existing.MealID = meal.ID
			existing.Notes = notes
			if err := s.repo.SaveEntry(existing); err != nil {
				return nil, err
			}
			existing.Meal = *meal
			return existing, nil
		}
	}

	entry := &models.MealPlanEntry{
		MealPlanID: plan.ID,
		MealID:     meal.ID,
		DayOfWeek:  day,
		MealType:   mealType,
		Notes:      notes,
	}
	if err := s.repo.CreateEntry(entry); err != nil {
		return nil, err
	}
	entry.Meal = *meal
	return entry, nil
}

func (s *PlanService) RemoveEntry(userID uint, plan *models.WeeklyMealPlan, entryID uint) error {
	if plan.UserID != userID {
		return fmt.Errorf("plan %d: %w", plan.ID, ErrNotFound)
	}
	return s.repo.DeleteEntry(plan.ID, entryID)
}

func (s *PlanService) GetPlan(userID uint, year, week int) (*models.WeeklyMealPlan, error) {
	return s.repo.GetPlan(userID, year, week)
}

// RenderPlanText renders a week grid as plain text, one day per
// section, for the plan email.
func (s *PlanService) RenderPlanText(res *WeekGridResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (week %d of %d)\n", res.Plan.Name, res.Plan.WeekNumber, res.Plan.Year)
	for day := range res.Grid {
		date := res.WeekStart.AddDate(0, 0, day)
		fmt.Fprintf(&sb, "\n%s %s\n", models.DayNames[day], date.Format("2006-01-02"))
		for _, mt := range models.MealCategories {
			entry := res.Grid[day][mt]
			if entry == nil {
				continue
			}
			fmt.Fprintf(&sb, "  %s: %s", mealTypeLabel(mt), entry.Meal.Name)
			if entry.Notes != "" {
				fmt.Fprintf(&sb, " (%s)", entry.Notes)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func mealTypeLabel(mealType string) string {
	if mealType == "" {
		return mealType
	}
	return strings.ToUpper(mealType[:1]) + mealType[1:]
}
