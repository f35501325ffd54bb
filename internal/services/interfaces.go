package services

import (
	"context"
	"time"

	"grana/internal/models"
	"grana/internal/pagination"
	"grana/internal/series"
	"grana/internal/store"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID string, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// TransactionServicer defines the contract for transaction-related business
// logic: expanding user entries into occurrence series, propagating edits
// across a series, and keeping the in-memory ledger in sync with storage.
type TransactionServicer interface {
	CreateFromEntry(ctx context.Context, userID string, entry series.Entry) ([]models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter store.Filter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	EditTransaction(ctx context.Context, userID, transactionID string, upd series.Update, applyToSeries bool) ([]models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// BudgetUpdateFields holds optional budget fields for partial updates.
type BudgetUpdateFields struct {
	Category  *string
	Limit     *float64
	CarryOver *bool
}

// BudgetProgress contains spending vs limit data for one budget and month.
type BudgetProgress struct {
	BudgetID   string  `json:"budget_id"`
	Category   string  `json:"category"`
	Limit      float64 `json:"limit"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, category string, limit float64, carryOver bool) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, fields BudgetUpdateFields) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string, month time.Time) (*BudgetProgress, error)
}

// GoalUpdateFields holds optional goal fields for partial updates.
type GoalUpdateFields struct {
	Name     *string
	Target   *float64
	Current  *float64
	Deadline *time.Time
}

// GoalServicer defines the contract for savings-goal business logic.
type GoalServicer interface {
	CreateGoal(userID, name string, target, current float64, deadline *time.Time) (*models.Goal, error)
	GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(userID, goalID string) (*models.Goal, error)
	UpdateGoal(userID, goalID string, fields GoalUpdateFields) (*models.Goal, error)
	DeleteGoal(userID, goalID string) error
	Contribute(userID, goalID string, amount float64) (*models.Goal, error)
}

// InsightServicer defines the contract for AI-generated financial advice.
type InsightServicer interface {
	GetAdvice(ctx context.Context, userID string) ([]AdviceItem, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
