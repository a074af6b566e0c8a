package domain

import (
	"time"

	"gorm.io/gorm"
)

// Meal is a dish that can be planned for lunch or dinner.
type Meal struct {
	gorm.Model
	Name     string `gorm:"not null"`
	Duration *int   // minutes
	Costs    *float64
}

// MealPlan pairs a lunch and a dinner with a calendar day. There is at most
// one plan per day.
type MealPlan struct {
	ID       uint      `gorm:"primaryKey"`
	Date     time.Time `gorm:"type:date;uniqueIndex;not null"`
	LunchID  *uint
	Lunch    *Meal `gorm:"constraint:OnDelete:SET NULL"`
	DinnerID *uint
	Dinner   *Meal `gorm:"constraint:OnDelete:SET NULL"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
