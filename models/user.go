package models

import (
	"time"
)

// User is the points ledger row the exchange engine debits and credits.
// Profile data beyond nickname/avatar lives in the profile service; only
// what redemption needs is mirrored here. The check constraint keeps the
// balance from ever going negative, on top of the conditional updates in
// the services layer.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Nickname string `gorm:"size:255" json:"nickname"`
	Avatar   string `gorm:"type:text" json:"avatar"`
	Points   int    `gorm:"not null;default:0;check:points >= 0" json:"points"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
