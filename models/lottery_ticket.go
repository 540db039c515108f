package models

import (
	"time"

	"gorm.io/gorm"
)

// PrizeTier is one of 7 prize ranks. Tiers 1-6 carry fixed amounts,
// tier 7 is randomized per ticket at generation time.
type PrizeTier int

const (
	PrizeTierFirst PrizeTier = iota + 1
	PrizeTierSecond
	PrizeTierThird
	PrizeTierFourth
	PrizeTierFifth
	PrizeTierSixth
	PrizeTierSeventh
)

// LotteryTicket is a single prize slot belonging to exactly one book.
// Created in bulk by book generation, mutated exactly once at redemption,
// never deleted. Once Scratched is true, the winner fields and ScratchAt
// are set and PrizeTier/PrizeAmount never change again.
type LotteryTicket struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	BookID      string    `gorm:"type:uuid;not null;index" json:"book_id"`
	PrizeTier   PrizeTier `gorm:"not null" json:"prize_tier"`
	PrizeAmount int       `gorm:"not null" json:"prize_amount"`

	// Breakdown is a 24-slot randomized split of PrizeAmount, used only
	// for the scratch-pattern presentation.
	Breakdown []int `gorm:"serializer:json;type:text" json:"breakdown"`

	// Position preserves the shuffled presentation order within the book
	// so listings stay stable across reads.
	Position int `gorm:"not null;default:0" json:"position"`

	Scratched    bool       `gorm:"not null;default:false;index" json:"scratched"`
	ScratchAt    *time.Time `json:"scratch_at,omitempty"`
	WinnerID     *string    `json:"winner_id,omitempty"`
	WinnerName   *string    `json:"winner_name,omitempty"`
	WinnerAvatar *string    `json:"winner_avatar,omitempty"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
