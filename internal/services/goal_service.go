package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "grana/internal/errors"
	"grana/internal/models"
	"grana/internal/pagination"
)

// goalService handles savings-goal business logic.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a savings goal.
func (s *goalService) CreateGoal(userID, name string, target, current float64, deadline *time.Time) (*models.Goal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if target <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target must be greater than zero")
	}
	if current < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current amount cannot be negative")
	}

	goal := &models.Goal{
		UserID:   userID,
		Name:     name,
		Target:   target,
		Current:  current,
		Deadline: deadline,
	}
	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetUserGoals retrieves a paginated list of the user's goals.
func (s *goalService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	page.Defaults()

	base := s.db.Model(&models.Goal{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID retrieves a goal by ID for a specific user.
func (s *goalService) GetGoalByID(userID, goalID string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal applies the present fields and returns the updated goal.
func (s *goalService) UpdateGoal(userID, goalID string, fields GoalUpdateFields) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if fields.Name != nil {
		if *fields.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name cannot be empty")
		}
		updates["name"] = *fields.Name
	}
	if fields.Target != nil {
		if *fields.Target <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target must be greater than zero")
		}
		updates["target"] = *fields.Target
	}
	if fields.Current != nil {
		if *fields.Current < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current amount cannot be negative")
		}
		updates["current"] = *fields.Current
	}
	if fields.Deadline != nil {
		updates["deadline"] = *fields.Deadline
	}
	if len(updates) == 0 {
		return goal, nil
	}

	if err := s.db.Model(goal).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetGoalByID(userID, goalID)
}

// DeleteGoal removes a goal.
func (s *goalService) DeleteGoal(userID, goalID string) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Contribute adds an amount to the goal's current balance.
func (s *goalService) Contribute(userID, goalID string, amount float64) (*models.Goal, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(goal).
		Update("current", gorm.Expr("current + ?", amount)).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetGoalByID(userID, goalID)
}
