package models

import "time"

// Goal represents a savings goal with a target amount and optional deadline.
type Goal struct {
	Base
	UserID   string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Name     string     `gorm:"not null" json:"name"`
	Target   float64    `gorm:"not null" json:"target"`
	Current  float64    `gorm:"default:0" json:"current"`
	Deadline *time.Time `json:"deadline,omitempty"`
}
