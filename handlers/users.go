// handlers/users.go
package handlers

import (
	"errors"
	"log"

	"lottery-ticket-system/middleware"
	"lottery-ticket-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes wires the points-ledger glue: provisioning a ledger
// row, reading a balance, and operational adjustments.
func SetupUserRoutes(app *fiber.App, userService *services.UserService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/users", createUser(userService))
	secured.Get("/users/:id/points", getBalance(userService))
	secured.Post("/users/:id/points/adjust", adjustBalance(userService))
}

func createUser(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			ID       string `json:"id"`
			Nickname string `json:"nickname"`
			Avatar   string `json:"avatar"`
			Points   int    `json:"points"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
		}
		if req.Points < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "points must be non-negative"})
		}

		user, err := userService.CreateUser(req.ID, req.Nickname, req.Avatar, req.Points)
		if err != nil {
			log.Printf("DB error creating user: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

func getBalance(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		balance, err := userService.GetBalance(c.Params("id"))
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
			}
			log.Printf("DB error fetching balance: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch balance"})
		}
		return c.JSON(fiber.Map{"user_id": c.Params("id"), "points": balance})
	}
}

func adjustBalance(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Delta int `json:"delta"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
		}

		balance, err := userService.AdjustBalance(c.Params("id"), req.Delta)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
			case errors.Is(err, services.ErrInsufficientPoints):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "adjustment would make balance negative"})
			}
			log.Printf("DB error adjusting balance: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to adjust balance"})
		}
		return c.JSON(fiber.Map{"user_id": c.Params("id"), "points": balance})
	}
}
