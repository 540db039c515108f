package models

import (
	"time"

	"gorm.io/gorm"
)

// BookStatus indicates whether a book is the one currently on sale
type BookStatus string

const (
	BookStatusActive BookStatus = "active"
	BookStatusClosed BookStatus = "closed"
)

// LotteryBook represents one generation cycle's full set of 20 tickets.
// At most one book is active at any time; generating a new book closes
// the previous one. Books are never deleted.
type LotteryBook struct {
	ID    string `gorm:"primaryKey;type:uuid" json:"id"`
	Title string `gorm:"not null" json:"title"`
	Slug  string `gorm:"index;not null" json:"slug"`

	// The partial unique index lets the schema itself reject a second
	// active row, so two racing generations can never both commit.
	Status BookStatus `gorm:"not null;default:'active';index:idx_lottery_books_one_active,unique,where:status = 'active'" json:"status"`

	Tickets []LotteryTicket `gorm:"foreignKey:BookID" json:"tickets,omitempty"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
