package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "grana/internal/errors"
	"grana/internal/models"
	"grana/internal/pagination"
	"grana/internal/services"
)

// --- mock goal service ---

type mockGoalService struct {
	createGoalFn   func(userID, name string, target, current float64, deadline *time.Time) (*models.Goal, error)
	getUserGoalsFn func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	getGoalByIDFn  func(userID, goalID string) (*models.Goal, error)
	updateGoalFn   func(userID, goalID string, fields services.GoalUpdateFields) (*models.Goal, error)
	deleteGoalFn   func(userID, goalID string) error
	contributeFn   func(userID, goalID string, amount float64) (*models.Goal, error)
}

func (m *mockGoalService) CreateGoal(userID, name string, target, current float64, deadline *time.Time) (*models.Goal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(userID, name, target, current, deadline)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	if m.getUserGoalsFn != nil {
		return m.getUserGoalsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Goal{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockGoalService) GetGoalByID(userID, goalID string) (*models.Goal, error) {
	if m.getGoalByIDFn != nil {
		return m.getGoalByIDFn(userID, goalID)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) UpdateGoal(userID, goalID string, fields services.GoalUpdateFields) (*models.Goal, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(userID, goalID, fields)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) DeleteGoal(userID, goalID string) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(userID, goalID)
	}
	return nil
}

func (m *mockGoalService) Contribute(userID, goalID string, amount float64) (*models.Goal, error) {
	if m.contributeFn != nil {
		return m.contributeFn(userID, goalID, amount)
	}
	return &models.Goal{}, nil
}

var _ services.GoalServicer = (*mockGoalService)(nil)

func setupGoalRouter(handler *GoalHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/goals", handler.CreateGoal)
	auth.GET("/goals", handler.GetGoals)
	auth.GET("/goals/:id", handler.GetGoal)
	auth.PUT("/goals/:id", handler.UpdateGoal)
	auth.DELETE("/goals/:id", handler.DeleteGoal)
	auth.POST("/goals/:id/contribute", handler.Contribute)
	return r
}

const testGoalID = "018f6f70-0000-7000-8000-000000000004"

func TestGoalHandler_CreateGoal(t *testing.T) {
	t.Run("returns 201 with parsed deadline", func(t *testing.T) {
		var gotDeadline *time.Time
		svc := &mockGoalService{
			createGoalFn: func(userID, name string, target, current float64, deadline *time.Time) (*models.Goal, error) {
				gotDeadline = deadline
				return &models.Goal{Base: models.Base{ID: testGoalID}, UserID: userID, Name: name, Target: target}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Viagem","target":10000,"deadline":"2025-12-31"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotDeadline == nil || gotDeadline.Year() != 2025 {
			t.Errorf("deadline not parsed: %v", gotDeadline)
		}
	})

	t.Run("returns 400 on missing target", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals", `{"name":"Viagem"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestGoalHandler_Contribute(t *testing.T) {
	t.Run("returns 200 with updated goal", func(t *testing.T) {
		svc := &mockGoalService{
			contributeFn: func(_, goalID string, amount float64) (*models.Goal, error) {
				return &models.Goal{Base: models.Base{ID: goalID}, Current: 100 + amount}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/contribute", `{"amount":250}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		goal := result["goal"].(map[string]interface{})
		if goal["current"].(float64) != 350 {
			t.Errorf("expected current 350, got %v", goal["current"])
		}
	})

	t.Run("returns 400 on missing amount", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/contribute", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 for missing goal", func(t *testing.T) {
		svc := &mockGoalService{
			contributeFn: func(_, _ string, _ float64) (*models.Goal, error) {
				return nil, apperrors.ErrGoalNotFound
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/contribute", `{"amount":250}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
