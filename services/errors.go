package services

import (
	"errors"
	"strings"
)

// Sentinel errors for the lottery core. Handlers map these onto HTTP
// statuses; anything else is a storage failure and surfaces as a 500.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrTicketScratched    = errors.New("ticket already redeemed")
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrExchangeConflict means concurrency control rejected the
	// transaction. The caller may safely retry.
	ErrExchangeConflict = errors.New("exchange conflict, retry")

	// ErrBookConflict means a concurrent generation won the race for
	// the single active-book slot. The caller may retry or re-read the
	// active book.
	ErrBookConflict = errors.New("book generation conflict, retry")
)

// isRetryableConflict recognizes storage-level concurrency rejections:
// SQLite busy/locked states and Postgres serialization or deadlock
// failures (SQLSTATE 40001 / 40P01).
func isRetryableConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{
		"database is locked",
		"database table is locked",
		"could not serialize access",
		"deadlock detected",
		"SQLSTATE 40001",
		"SQLSTATE 40P01",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// isUniqueViolation recognizes unique-constraint rejections from the
// SQLite and Postgres drivers. During book generation this is the
// one-active-book index firing against a concurrent generation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{
		"UNIQUE constraint failed",
		"duplicate key value violates unique constraint",
		"SQLSTATE 23505",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
