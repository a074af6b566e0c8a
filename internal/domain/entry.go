package domain

import (
	"time"

	"gorm.io/gorm"
)

// EntryType tells appointments and todos apart once they are merged into one list.
type EntryType int

const (
	EntryAppointment EntryType = 1
	EntryTodo        EntryType = 2
)

// Assignment selects entries by owner. Entries without an owner are shared
// with the whole household.
type Assignment int

const (
	AssignmentAll    Assignment = iota // shared entries and my own
	AssignmentMine                     // only my own
	AssignmentShared                   // only shared entries
)

func (a Assignment) Valid() bool {
	return a >= AssignmentAll && a <= AssignmentShared
}

type Appointment struct {
	gorm.Model
	Name   string     `gorm:"not null"`
	Date   *time.Time `gorm:"type:date;index"`
	Time   *string    `gorm:"size:5"`
	Notes  string
	Order  int   `gorm:"column:sort_order;not null;default:0"`
	UserID *uint `gorm:"index"` // nil: shared
}

type Todo struct {
	gorm.Model
	Name   string     `gorm:"not null"`
	Date   *time.Time `gorm:"type:date;index"`
	Time   *string    `gorm:"size:5"`
	Done   bool       `gorm:"not null;default:false"`
	Order  int        `gorm:"column:sort_order;not null;default:0"`
	UserID *uint      `gorm:"index"`
}
