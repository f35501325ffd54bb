package models

import "time"

// TransactionType represents the flow direction of a transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents one concrete, dated financial occurrence. Occurrences
// generated from a single user entry (an installment plan or a recurring
// schedule) share a GroupID; one-off entries and legacy rows have none.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      float64         `gorm:"not null" json:"amount"`
	Category    string          `gorm:"not null" json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	GroupID     *string         `gorm:"type:uuid;index" json:"group_id,omitempty"`
	Recurring   bool            `gorm:"default:false" json:"recurring"`
	Paid        bool            `json:"paid"`
}
