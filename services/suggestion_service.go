package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iamkhush/weekly-meals/models"
)

const noHistorySentinel = "No recent meal data found."

// SuggestionResult is what the page renders: either the model's text
// or an inline error message. SuggestPlan never returns an error to
// its caller; an unreachable model must not break the page.
type SuggestionResult struct {
	Suggestion string `json:"suggestion,omitempty"`
	Error      string `json:"error,omitempty"`
}

// PlanHistory is the slice of the repository the suggester needs.
type PlanHistory interface {
	ListHistorySince(ownerID uint, since time.Time) ([]HistoryEntry, error)
}

type SuggestionService struct {
	history PlanHistory
	client  GenAIClient
	hub     *TraceHub

	Now func() time.Time
}

func NewSuggestionService(history PlanHistory, client GenAIClient, hub *TraceHub) *SuggestionService {
	return &SuggestionService{history: history, client: client, hub: hub, Now: time.Now}
}

// SuggestPlan builds a completion prompt from the user's request and
// their trailing four weeks of planned meals, makes a single model
// call, and returns the raw response text. The output is presentation
// only; nothing is parsed back into plan entries.
func (s *SuggestionService) SuggestPlan(ctx context.Context, userID uint, userPrompt string) SuggestionResult {
	since := s.Now().AddDate(0, 0, -28)

	rows, err := s.history.ListHistorySince(userID, since)
	if err != nil {
		return s.fail(userID, "", err)
	}

	fullPrompt := buildPrompt(renderHistory(rows), userPrompt)

	completion, err := s.client.Complete(ctx, fullPrompt)
	if err != nil {
		return s.fail(userID, fullPrompt, err)
	}

	s.publish(userID, TraceEvent{
		Kind:   "suggestion.trace",
		Prompt: fullPrompt,
		Output: completion.Text,
		Usage:  completion.Usage,
	})
	return SuggestionResult{Suggestion: completion.Text}
}

func (s *SuggestionService) fail(userID uint, prompt string, err error) SuggestionResult {
	msg := fmt.Sprintf("An error occurred while generating the meal plan: %v", err)
	s.publish(userID, TraceEvent{
		Kind:   "suggestion.trace",
		Prompt: prompt,
		Error:  msg,
	})
	return SuggestionResult{Error: msg}
}

func (s *SuggestionService) publish(userID uint, ev TraceEvent) {
	if s.hub == nil {
		return
	}
	ev.At = s.Now()
	s.hub.Publish(userID, ev)
}

func renderHistory(rows []HistoryEntry) string {
	if len(rows) == 0 {
		return noHistorySentinel
	}
	var sb strings.Builder
	for _, r := range rows {
		day := ""
		if r.DayOfWeek >= 0 && r.DayOfWeek < len(models.DayNames) {
			day = models.DayNames[r.DayOfWeek]
		}
		fmt.Fprintf(&sb, "- %s, %s, %s: %s\n", r.PlanName, day, mealTypeLabel(r.MealType), r.MealName)
	}
	return sb.String()
}

func buildPrompt(history, userPrompt string) string {
	return fmt.Sprintf(`Here is my meal planning history for the last 4 weeks:
%s

Here is my request for next week's meal plan:
%q

Based on my history and my request, please generate a 7-day meal plan for next week (Monday to Sunday) with Breakfast, Lunch, and Dinner.
Please provide the output in a clear, easy-to-read format.`, history, userPrompt)
}
