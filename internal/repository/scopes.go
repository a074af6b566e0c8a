package repository

import (
	"strings"
	"time"

	"github.com/Tomlord1122/planner-backend/internal/domain"

	"gorm.io/gorm"
)

// visibleTo limits a query to rows the user may see: shared rows (no owner)
// and the user's own rows.
func visibleTo(userID uint) func(*gorm.DB) *gorm.DB {
	return assignedTo(userID, domain.AssignmentAll)
}

// assignedTo narrows visibility further according to the assignment tab.
func assignedTo(userID uint, a domain.Assignment) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch a {
		case domain.AssignmentMine:
			return db.Where("user_id = ?", userID)
		case domain.AssignmentShared:
			return db.Where("user_id IS NULL")
		default:
			return db.Where("user_id IS NULL OR user_id = ?", userID)
		}
	}
}

// undatedOrFrom keeps rows without a date and rows on or after from.
func undatedOrFrom(from time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(`"date" IS NULL OR "date" >= ?`, from)
	}
}

// nameContains is a case-insensitive substring match. Blank text matches all.
func nameContains(text string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		text = strings.TrimSpace(text)
		if text == "" {
			return db
		}
		return db.Where("name ILIKE ? ESCAPE '\\'", "%"+escapeLike(text)+"%")
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
