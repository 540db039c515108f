// handlers/lottery.go
package handlers

import (
	"errors"
	"log"

	"lottery-ticket-system/middleware"
	"lottery-ticket-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLotteryRoutes(app *fiber.App, lotteryService *services.LotteryService) {
	// 🔓 Public routes — no user context, but still behind Gateway auth
	app.Get("/lottery/tickets", getTickets(lotteryService))
	app.Get("/lottery/books/:slug", getBookBySlug(lotteryService))

	// 🔐 Secured routes — require user context (userID, roles)
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/lottery/exchange", exchangeTicket(lotteryService))
	secured.Post("/lottery/regenerate", regenerateBook(lotteryService))
}

// getTickets returns the active book's 20 tickets, generating a fresh
// book first if none is active.
func getTickets(lotteryService *services.LotteryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		book, tickets, err := lotteryService.ActiveBookTickets()
		if err != nil {
			if errors.Is(err, services.ErrBookConflict) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error":     "book generation conflict",
					"retryable": true,
				})
			}
			log.Printf("DB error fetching active tickets: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch tickets",
			})
		}
		return c.JSON(fiber.Map{
			"book":    book,
			"tickets": tickets,
		})
	}
}

func getBookBySlug(lotteryService *services.LotteryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		book, tickets, err := lotteryService.BookBySlug(c.Params("slug"))
		if err != nil {
			if errors.Is(err, services.ErrBookNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "book not found"})
			}
			log.Printf("DB error fetching book: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch book"})
		}
		return c.JSON(fiber.Map{
			"book":    book,
			"tickets": tickets,
		})
	}
}

// exchangeTicket redeems one ticket for the authenticated user. The
// redeeming identity comes from the gateway context; the body only
// carries the ticket id and presentation info.
func exchangeTicket(lotteryService *services.LotteryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			TicketID   string `json:"ticket_id"`
			UserName   string `json:"user_name"`
			UserAvatar string `json:"user_avatar"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
		}
		if req.TicketID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ticket_id is required"})
		}

		ticket, updatedPoints, err := lotteryService.ExchangeTicket(userID, req.TicketID, req.UserName, req.UserAvatar)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
			case errors.Is(err, services.ErrTicketNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "ticket not found"})
			case errors.Is(err, services.ErrTicketScratched):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "ticket already redeemed"})
			case errors.Is(err, services.ErrInsufficientPoints):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "insufficient points"})
			case errors.Is(err, services.ErrExchangeConflict):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error":     "exchange conflict",
					"retryable": true,
				})
			}
			log.Printf("DB error exchanging ticket %s: %v", req.TicketID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to exchange ticket"})
		}

		return c.JSON(fiber.Map{
			"ticket":         ticket,
			"updated_points": updatedPoints,
		})
	}
}

// regenerateBook is the explicit admin reset: it closes the active book
// and issues a fresh one immediately.
func regenerateBook(lotteryService *services.LotteryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		book, err := lotteryService.GenerateNewBook()
		if err != nil {
			if errors.Is(err, services.ErrBookConflict) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error":     "book generation conflict",
					"retryable": true,
				})
			}
			log.Printf("DB error regenerating book: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate new book"})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "new lottery book generated",
			"book":    book,
		})
	}
}
