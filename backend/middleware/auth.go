package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"masterhub/backend/config"
	"masterhub/backend/models"
	"masterhub/backend/utils"
)

// AuthMiddleware rejects requests without a valid token and stores the
// authenticated user id in locals for handlers downstream.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Please sign in to continue")
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}

// PremiumMiddleware additionally requires the user's tier to be premium.
// Free-tier users get a 403 and no state change.
func PremiumMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Please sign in to continue")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.Unauthorized(c, "Unknown user")
			}
			return utils.InternalServerError(c, "Could not query database")
		}

		if !user.IsPremium() {
			return utils.Forbidden(c, "Upgrade to Premium to access masterclasses")
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}
