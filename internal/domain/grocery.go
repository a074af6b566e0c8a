package domain

import "gorm.io/gorm"

type GroceryItem struct {
	gorm.Model
	Name   string `gorm:"not null"`
	Amount string
	Done   bool  `gorm:"not null;default:false"`
	Order  int   `gorm:"column:sort_order;not null;default:0"`
	UserID *uint `gorm:"index"`
}
