package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"lottery-ticket-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type LotteryService struct {
	DB        *gorm.DB
	Allocator *PrizeAllocator
}

// NewLotteryService wires the service with a time-seeded allocator.
// Tests swap in NewPrizeAllocator with a pinned source instead.
func NewLotteryService(db *gorm.DB) *LotteryService {
	return &LotteryService{DB: db, Allocator: NewPrizeAllocator(nil)}
}

// GenerateNewBook creates the next book in one transaction: every
// currently active book is closed, a fresh active book is created, and
// its 20 tickets are bulk-inserted. Any failure rolls the whole thing
// back — a partial book is never visible. Each call is an explicit
// reset, so calling twice simply supersedes the first book.
//
// The one-active-book invariant is backed by a partial unique index on
// status='active': if two generations race, the close-then-create of
// the loser cannot see the winner's uncommitted row, its insert trips
// the index instead, and the whole transaction rolls back with the
// retryable ErrBookConflict.
func (s *LotteryService) GenerateNewBook() (*models.LotteryBook, error) {
	var book *models.LotteryBook

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.LotteryBook{}).
			Where("status = ?", models.BookStatusActive).
			Update("status", models.BookStatusClosed).Error; err != nil {
			return fmt.Errorf("close active books: %w", err)
		}

		title := time.Now().Format("January 2006") + " Scratch Book"
		book = &models.LotteryBook{
			ID:     uuid.NewString(),
			Title:  title,
			Slug:   slug.Make(title) + "-" + uuid.NewString()[:8],
			Status: models.BookStatusActive,
		}
		if err := tx.Create(book).Error; err != nil {
			return fmt.Errorf("create book: %w", err)
		}

		specs := s.Allocator.BuildBookSpecs()
		tickets := make([]models.LotteryTicket, 0, len(specs))
		for i, spec := range specs {
			tickets = append(tickets, models.LotteryTicket{
				ID:          uuid.NewString(),
				BookID:      book.ID,
				PrizeTier:   spec.Tier,
				PrizeAmount: spec.Amount,
				Breakdown:   spec.Breakdown,
				Position:    i,
				Scratched:   false,
			})
		}
		if err := tx.Create(&tickets).Error; err != nil {
			return fmt.Errorf("create tickets: %w", err)
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) || isRetryableConflict(err) {
			return nil, ErrBookConflict
		}
		return nil, err
	}

	log.Printf("🎫 Generated new lottery book %s (%s)", book.ID, book.Slug)
	return book, nil
}

// ActiveBookTickets returns the active book and its tickets in shuffled
// presentation order, generating a book first if none is active.
// Read-only apart from that lazy provisioning. When two cold readers
// race to provision, the loser's generation fails on the one-active
// index and it simply re-reads the winner's book.
func (s *LotteryService) ActiveBookTickets() (*models.LotteryBook, []models.LotteryTicket, error) {
	var book models.LotteryBook
	for attempt := 0; ; attempt++ {
		err := s.DB.Where("status = ?", models.BookStatusActive).First(&book).Error
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}

		generated, genErr := s.GenerateNewBook()
		if genErr == nil {
			book = *generated
			break
		}
		if !errors.Is(genErr, ErrBookConflict) || attempt >= 2 {
			return nil, nil, genErr
		}
		// Lost the provisioning race; loop back and read the winner's
		// book once its transaction lands.
	}

	tickets, err := s.bookTickets(book.ID)
	if err != nil {
		return nil, nil, err
	}
	return &book, tickets, nil
}

// BookBySlug looks up any book (active or historical) by its slug.
func (s *LotteryService) BookBySlug(bookSlug string) (*models.LotteryBook, []models.LotteryTicket, error) {
	var book models.LotteryBook
	if err := s.DB.Where("slug = ?", bookSlug).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBookNotFound
		}
		return nil, nil, err
	}

	tickets, err := s.bookTickets(book.ID)
	if err != nil {
		return nil, nil, err
	}
	return &book, tickets, nil
}

func (s *LotteryService) bookTickets(bookID string) ([]models.LotteryTicket, error) {
	var tickets []models.LotteryTicket
	if err := s.DB.Where("book_id = ?", bookID).
		Order("position asc").
		Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// ExchangeTicket redeems one ticket for userID: debit ExchangeCost,
// mark the ticket scratched with the winner's presentation info, credit
// the prize, all in one transaction. Preconditions are re-checked via
// conditional updates inside the transaction, so two concurrent calls
// on the same ticket produce exactly one winner, and a losing race or
// storage-level conflict surfaces as ErrTicketScratched or the
// retryable ErrExchangeConflict. Returns the final ticket state and the
// user's resulting balance.
func (s *LotteryService) ExchangeTicket(userID, ticketID, winnerName, winnerAvatar string) (*models.LotteryTicket, int, error) {
	var ticket models.LotteryTicket
	var balance int

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.Points < ExchangeCost {
			return ErrInsufficientPoints
		}

		if err := tx.First(&ticket, "id = ?", ticketID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return err
		}
		if ticket.Scratched {
			return ErrTicketScratched
		}

		// Claim the ticket. The scratched=false predicate is the race
		// arbiter: whichever transaction commits this row first wins,
		// every other one affects zero rows.
		now := time.Now()
		res := tx.Model(&models.LotteryTicket{}).
			Where("id = ? AND scratched = ?", ticketID, false).
			Updates(map[string]interface{}{
				"scratched":     true,
				"scratch_at":    now,
				"winner_id":     userID,
				"winner_name":   winnerName,
				"winner_avatar": winnerAvatar,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTicketScratched
		}

		// Debit the cost and credit the prize in one conditional update;
		// the points >= cost predicate re-checks the balance under the
		// same transaction.
		res = tx.Model(&models.User{}).
			Where("id = ? AND points >= ?", userID, ExchangeCost).
			Update("points", gorm.Expr("points - ? + ?", ExchangeCost, ticket.PrizeAmount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientPoints
		}

		if err := tx.First(&ticket, "id = ?", ticketID).Error; err != nil {
			return err
		}
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		balance = user.Points
		return nil
	})
	if err != nil {
		if isRetryableConflict(err) {
			return nil, 0, ErrExchangeConflict
		}
		return nil, 0, err
	}

	return &ticket, balance, nil
}
