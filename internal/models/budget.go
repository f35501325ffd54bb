package models

// Budget represents a monthly spending limit for a category.
// Spent is derived from expense transactions at read time, never stored.
type Budget struct {
	Base
	UserID    string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Category  string  `gorm:"not null" json:"category"`
	Limit     float64 `gorm:"column:limit_amount;not null" json:"limit"`
	CarryOver bool    `gorm:"default:false" json:"carry_over"`
}
