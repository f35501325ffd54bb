package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "grana/internal/errors"
	"grana/internal/logger"
	"grana/internal/models"
)

// adviceTransactionLimit bounds the recent slice of occurrences sent to the
// model.
const adviceTransactionLimit = 50

// maxAdviceItems caps how many advice items are returned to the client.
const maxAdviceItems = 5

// AdviceCategory tags an advice item with one of a fixed set of themes.
type AdviceCategory string

const (
	AdviceCategorySpending AdviceCategory = "spending"
	AdviceCategoryBudget   AdviceCategory = "budget"
	AdviceCategorySavings  AdviceCategory = "savings"
	AdviceCategoryGoal     AdviceCategory = "goal"
	AdviceCategoryGeneral  AdviceCategory = "general"
)

// AdviceItem is one structured piece of financial advice.
type AdviceItem struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    AdviceCategory `json:"category"`
	Steps       []string       `json:"steps"`
}

// AdviceGenerator produces raw model output for a prompt. Implementations
// live in internal/insights; tests substitute fakes.
type AdviceGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// insightService builds advice prompts from the user's recent financial data
// and parses the model's response. The model is advisory only: any failure
// degrades to a static fallback list, never an error to the caller.
type insightService struct {
	db  *gorm.DB
	gen AdviceGenerator
}

// NewInsightService creates a new InsightServicer.
func NewInsightService(db *gorm.DB, gen AdviceGenerator) InsightServicer {
	return &insightService{db: db, gen: gen}
}

// GetAdvice returns a short list of advice items for the user.
func (s *insightService) GetAdvice(ctx context.Context, userID string) ([]AdviceItem, error) {
	var transactions []models.Transaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(adviceTransactionLimit).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	prompt := buildAdvicePrompt(transactions, budgets, goals)

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		logger.Get().Warnw("advice generation failed, using fallback", "error", err)
		return fallbackAdvice(), nil
	}

	items, err := parseAdvice(raw)
	if err != nil {
		logger.Get().Warnw("advice response unparseable, using fallback", "error", err)
		return fallbackAdvice(), nil
	}
	return items, nil
}

func buildAdvicePrompt(transactions []models.Transaction, budgets []models.Budget, goals []models.Goal) string {
	var b strings.Builder

	b.WriteString("You are a personal finance advisor.\n\n" +
		"Task:\n" +
		"- Analyze the user's recent transactions, budgets, and savings goals below.\n" +
		"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
		"- Output a JSON array of at most " + fmt.Sprint(maxAdviceItems) + " advice objects.\n\n" +
		"Each object must have these fields:\n" +
		"- \"title\": string, short headline\n" +
		"- \"description\": string, one or two sentences\n" +
		"- \"category\": string, one of \"spending\", \"budget\", \"savings\", \"goal\", \"general\"\n" +
		"- \"steps\": array of strings, concrete ordered actions\n\n")

	b.WriteString("Recent transactions (newest first):\n")
	for _, tx := range transactions {
		fmt.Fprintf(&b, "- %s | %s | %s | %.2f | %s | paid=%v\n",
			tx.Date.Format("2006-01-02"), tx.Type, tx.Category, tx.Amount, tx.Description, tx.Paid)
	}

	b.WriteString("\nBudgets:\n")
	for _, budget := range budgets {
		fmt.Fprintf(&b, "- %s | limit %.2f | carry_over=%v\n", budget.Category, budget.Limit, budget.CarryOver)
	}

	b.WriteString("\nGoals:\n")
	for _, goal := range goals {
		deadline := "none"
		if goal.Deadline != nil {
			deadline = goal.Deadline.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "- %s | target %.2f | current %.2f | deadline %s\n",
			goal.Name, goal.Target, goal.Current, deadline)
	}

	b.WriteString("\nReturn ONLY valid raw JSON.\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Output must begin with \"[\" and end with \"]\".\n")

	return b.String()
}

// parseAdvice decodes the model output, tolerating Markdown fences the model
// was told not to emit, and normalizes categories outside the fixed set.
func parseAdvice(raw string) ([]AdviceItem, error) {
	clean := stripCodeFences(raw)

	var items []AdviceItem
	if err := json.Unmarshal([]byte(clean), &items); err != nil {
		return nil, fmt.Errorf("decoding advice response: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("empty advice response")
	}
	if len(items) > maxAdviceItems {
		items = items[:maxAdviceItems]
	}

	for i := range items {
		switch items[i].Category {
		case AdviceCategorySpending, AdviceCategoryBudget, AdviceCategorySavings, AdviceCategoryGoal, AdviceCategoryGeneral:
		default:
			items[i].Category = AdviceCategoryGeneral
		}
		if items[i].Steps == nil {
			items[i].Steps = []string{}
		}
	}
	return items, nil
}

func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// fallbackAdvice is returned whenever the model is unavailable or its output
// cannot be used.
func fallbackAdvice() []AdviceItem {
	return []AdviceItem{
		{
			Title:       "Review your recurring expenses",
			Description: "Recurring charges quietly add up. Go through your monthly subscriptions and cancel what you no longer use.",
			Category:    AdviceCategorySpending,
			Steps: []string{
				"List every recurring transaction from the last three months",
				"Cancel the ones you have not used recently",
			},
		},
		{
			Title:       "Set a budget for your top category",
			Description: "A single spending limit on your biggest category is the fastest way to regain control.",
			Category:    AdviceCategoryBudget,
			Steps: []string{
				"Find the category with the highest spend this month",
				"Create a budget about 10% below that amount",
			},
		},
		{
			Title:       "Automate your savings",
			Description: "Contributing to a goal right after payday makes saving the default instead of an afterthought.",
			Category:    AdviceCategorySavings,
			Steps: []string{
				"Pick one savings goal",
				"Schedule a contribution on every payday",
			},
		},
	}
}
