package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"grana/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a paid occurrence dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, amount float64) *models.Transaction {
	t.Helper()

	n := nextID()
	tx := &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Category:    fmt.Sprintf("Categoria %d", n),
		Description: fmt.Sprintf("Lançamento %d", n),
		Date:        time.Now(),
		Paid:        true,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestSeries creates n installment occurrences sharing a group ID,
// one calendar month apart, described as "desc (i/n)". Only the first is paid.
func CreateTestSeries(t *testing.T, db *gorm.DB, userID, groupID, category, desc string, n int) []models.Transaction {
	t.Helper()

	rows := make([]models.Transaction, 0, n)
	for i := 1; i <= n; i++ {
		g := groupID
		tx := models.Transaction{
			UserID:      userID,
			Type:        models.TransactionTypeExpense,
			Amount:      100,
			Category:    category,
			Description: fmt.Sprintf("%s (%d/%d)", desc, i, n),
			Date:        time.Date(2024, time.Month(i), 15, 0, 0, 0, 0, time.UTC),
			GroupID:     &g,
			Paid:        i == 1,
		}
		if err := db.Create(&tx).Error; err != nil {
			t.Fatalf("failed to create test series occurrence: %v", err)
		}
		rows = append(rows, tx)
	}
	return rows
}

// CreateTestBudget creates a budget for the given category.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, category string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:   userID,
		Category: category,
		Limit:    1000,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestGoal creates a savings goal with a small starting balance.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:  userID,
		Name:    fmt.Sprintf("Meta %d", nextID()),
		Target:  5000,
		Current: 100,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}
