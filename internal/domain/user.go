package domain

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email          string  `gorm:"uniqueIndex;not null"`
	PasswordHash   string  `gorm:"not null"`
	ResetToken     *string `gorm:"index"`
	ResetExpiresAt *time.Time
}

// Session is a bearer token handed out on sign in.
type Session struct {
	Token     string    `gorm:"primaryKey;size:36"`
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

// Preference is a per-user boolean UI flag such as "showMealPlan".
type Preference struct {
	UserID uint   `gorm:"primaryKey"`
	Key    string `gorm:"primaryKey;size:64"`
	Value  bool   `gorm:"not null"`
}

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{
		&User{},
		&Session{},
		&Preference{},
		&Appointment{},
		&Todo{},
		&Meal{},
		&MealPlan{},
		&GroceryItem{},
	}
}
