package services

import (
	"errors"
	"fmt"

	"lottery-ticket-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService is the points-ledger collaborator the exchange engine
// reads from. Balance mutations here are for operational adjustments
// (grants, corrections); redemption debits/credits happen inside the
// exchange transaction itself.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// CreateUser provisions a ledger row. ID may be supplied (to mirror a
// profile-service UUID) or left empty for a fresh one.
func (s *UserService) CreateUser(id, nickname, avatar string, points int) (*models.User, error) {
	if points < 0 {
		return nil, fmt.Errorf("initial points must be non-negative, got %d", points)
	}
	if id == "" {
		id = uuid.NewString()
	}
	user := &models.User{
		ID:       id,
		Nickname: nickname,
		Avatar:   avatar,
		Points:   points,
	}
	if err := s.DB.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetBalance returns the user's current point balance.
func (s *UserService) GetBalance(userID string) (int, error) {
	var user models.User
	if err := s.DB.Select("id, points").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.Points, nil
}

// AdjustBalance atomically applies delta to the user's balance and
// returns the new value. An adjustment that would drive the balance
// negative is rejected with ErrInsufficientPoints and changes nothing.
func (s *UserService) AdjustBalance(userID string, delta int) (int, error) {
	var balance int

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND points + ? >= 0", userID, delta).
			Update("points", gorm.Expr("points + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Distinguish a missing user from a rejected debit.
			var user models.User
			if err := tx.First(&user, "id = ?", userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}
				return err
			}
			return ErrInsufficientPoints
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		balance = user.Points
		return nil
	})
	if err != nil {
		if isRetryableConflict(err) {
			return 0, ErrExchangeConflict
		}
		return 0, err
	}
	return balance, nil
}
