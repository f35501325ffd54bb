package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "grana/internal/errors"
	"grana/internal/models"
	"grana/internal/pagination"
)

// budgetService handles budget-related business logic. Budgets are simple
// value records; the only derived data is the per-month spent figure.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a monthly spending limit for a category.
func (s *budgetService) CreateBudget(userID, category string, limit float64, carryOver bool) (*models.Budget, error) {
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if limit <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be greater than zero")
	}

	budget := &models.Budget{
		UserID:    userID,
		Category:  category,
		Limit:     limit,
		CarryOver: carryOver,
	}
	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// GetUserBudgets retrieves a paginated list of the user's budgets.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).
		Order("category ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID retrieves a budget by ID for a specific user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget applies the present fields and returns the updated budget.
func (s *budgetService) UpdateBudget(userID, budgetID string, fields BudgetUpdateFields) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if fields.Category != nil {
		if *fields.Category == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category cannot be empty")
		}
		updates["category"] = *fields.Category
	}
	if fields.Limit != nil {
		if *fields.Limit <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be greater than zero")
		}
		updates["limit_amount"] = *fields.Limit
	}
	if fields.CarryOver != nil {
		updates["carry_over"] = *fields.CarryOver
	}
	if len(updates) == 0 {
		return budget, nil
	}

	if err := s.db.Model(budget).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetBudgetByID(userID, budgetID)
}

// DeleteBudget removes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress computes spending against the budget's limit for the
// calendar month containing the given time. Only paid expense occurrences in
// the budget's category count as spent.
func (s *budgetService) GetBudgetProgress(userID, budgetID string, month time.Time) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var spent float64
	if err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND category = ? AND paid = ? AND date >= ? AND date < ?",
			userID, models.TransactionTypeExpense, budget.Category, true, monthStart, monthEnd).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&spent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	progress := &BudgetProgress{
		BudgetID:  budget.ID,
		Category:  budget.Category,
		Limit:     budget.Limit,
		Spent:     spent,
		Remaining: budget.Limit - spent,
	}
	if budget.Limit > 0 {
		progress.Percentage = spent / budget.Limit * 100
	}
	return progress, nil
}
