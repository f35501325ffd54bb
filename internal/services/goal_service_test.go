package services

import (
	"testing"
	"time"

	"grana/internal/pagination"
	"grana/internal/testutil"
)

func TestCreateGoal(t *testing.T) {
	t.Run("creates_goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)

		deadline := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
		goal, err := svc.CreateGoal(user.ID, "Viagem", 10000, 500, &deadline)
		testutil.AssertNoError(t, err)

		if goal.ID == "" {
			t.Error("expected goal ID to be set")
		}
		if goal.Target != 10000 || goal.Current != 500 {
			t.Errorf("unexpected goal amounts: %+v", goal)
		}
	})

	t.Run("rejects_invalid_amounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGoal(user.ID, "Viagem", 0, 0, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateGoal(user.ID, "Viagem", 1000, -1, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateGoal(user.ID, "", 1000, 0, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateGoal(t *testing.T) {
	t.Run("applies_partial_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID)

		updated, err := svc.UpdateGoal(user.ID, goal.ID, GoalUpdateFields{Target: floatPtr(8000)})
		testutil.AssertNoError(t, err)

		if updated.Target != 8000 {
			t.Errorf("expected target 8000, got %v", updated.Target)
		}
		if updated.Name != goal.Name {
			t.Errorf("name changed unexpectedly: %q", updated.Name)
		}
	})

	t.Run("returns_not_found_for_other_users_goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewGoalService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, owner.ID)

		_, err := svc.UpdateGoal(intruder.ID, goal.ID, GoalUpdateFields{Target: floatPtr(1)})
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestGetUserGoals(t *testing.T) {
	t.Run("lists_only_own_goals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestGoal(t, db, user.ID)
		testutil.CreateTestGoal(t, db, user.ID)
		testutil.CreateTestGoal(t, db, other.ID)

		page, err := svc.GetUserGoals(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 2 {
			t.Errorf("expected 2 goals, got %d", page.TotalItems)
		}
	})
}

func TestContribute(t *testing.T) {
	t.Run("adds_to_current_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID)

		updated, err := svc.Contribute(user.ID, goal.ID, 250)
		testutil.AssertNoError(t, err)

		if updated.Current != goal.Current+250 {
			t.Errorf("expected current %v, got %v", goal.Current+250, updated.Current)
		}
	})

	t.Run("rejects_non_positive_amounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID)

		_, err := svc.Contribute(user.ID, goal.ID, 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteGoal(t *testing.T) {
	t.Run("deletes_goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID)

		err := svc.DeleteGoal(user.ID, goal.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.GetGoalByID(user.ID, goal.ID)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}
