package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	rows []HistoryEntry
	err  error

	gotOwner uint
	gotSince time.Time
}

func (f *fakeHistory) ListHistorySince(ownerID uint, since time.Time) ([]HistoryEntry, error) {
	f.gotOwner = ownerID
	f.gotSince = since
	return f.rows, f.err
}

type fakeClient struct {
	completion *Completion
	err        error

	gotPrompt string
}

func (f *fakeClient) Complete(ctx context.Context, prompt string) (*Completion, error) {
	f.gotPrompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return f.completion, nil
}

func pinnedSuggestionService(history PlanHistory, client GenAIClient) *SuggestionService {
	svc := NewSuggestionService(history, client, nil)
	svc.Now = func() time.Time {
		return time.Date(2024, time.March, 6, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestSuggestPlanEmptyHistoryUsesSentinel(t *testing.T) {
	history := &fakeHistory{}
	client := &fakeClient{completion: &Completion{Text: "Monday: pancakes"}}
	svc := pinnedSuggestionService(history, client)

	res := svc.SuggestPlan(context.Background(), 42, "something vegetarian")

	assert.Empty(t, res.Error)
	assert.Equal(t, "Monday: pancakes", res.Suggestion)

	assert.Contains(t, client.gotPrompt, "No recent meal data found.")
	assert.Contains(t, client.gotPrompt, `"something vegetarian"`)
	assert.Contains(t, client.gotPrompt, "generate a 7-day meal plan for next week (Monday to Sunday)")

	assert.Equal(t, uint(42), history.gotOwner)
	assert.Equal(t, "2024-02-07", history.gotSince.Format("2006-01-02"), "trailing 4-week window")
}

func TestSuggestPlanRendersHistoryLines(t *testing.T) {
	history := &fakeHistory{rows: []HistoryEntry{
		{PlanName: "Week of 2024-02-12", DayOfWeek: 0, MealType: "dinner", MealName: "Pasta"},
		{PlanName: "Week of 2024-02-19", DayOfWeek: 6, MealType: "breakfast", MealName: "Shakshuka"},
	}}
	client := &fakeClient{completion: &Completion{Text: "ok"}}
	svc := pinnedSuggestionService(history, client)

	res := svc.SuggestPlan(context.Background(), 1, "more fish")
	require.Empty(t, res.Error)

	assert.Contains(t, client.gotPrompt, "- Week of 2024-02-12, Monday, Dinner: Pasta\n")
	assert.Contains(t, client.gotPrompt, "- Week of 2024-02-19, Sunday, Breakfast: Shakshuka\n")
	assert.NotContains(t, client.gotPrompt, "No recent meal data found.")
}

func TestSuggestPlanReturnsRawModelText(t *testing.T) {
	raw := "  **Week Plan**\nMonday:\n - Breakfast: eggs\n"
	client := &fakeClient{completion: &Completion{Text: raw}}
	svc := pinnedSuggestionService(&fakeHistory{}, client)

	res := svc.SuggestPlan(context.Background(), 1, "")
	assert.Equal(t, raw, res.Suggestion, "no trimming or parsing of the model output")
}

func TestSuggestPlanMapsClientFailureToResult(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}
	svc := pinnedSuggestionService(&fakeHistory{}, client)

	res := svc.SuggestPlan(context.Background(), 1, "anything")

	assert.Empty(t, res.Suggestion)
	assert.Contains(t, res.Error, "An error occurred while generating the meal plan")
	assert.Contains(t, res.Error, "quota exceeded")
}

func TestSuggestPlanMapsHistoryFailureToResult(t *testing.T) {
	history := &fakeHistory{err: errors.New("db down")}
	client := &fakeClient{completion: &Completion{Text: "unused"}}
	svc := pinnedSuggestionService(history, client)

	res := svc.SuggestPlan(context.Background(), 1, "anything")

	assert.Empty(t, res.Suggestion)
	assert.Contains(t, res.Error, "An error occurred while generating the meal plan")
	assert.Empty(t, client.gotPrompt, "no model call when history loading fails")
}
