package controllers

import (
	"github.com/gofiber/fiber/v2"

	"masterhub/backend/config"
	"masterhub/backend/mentorship"
	"masterhub/backend/utils"
)

type MentorshipController struct {
	Cfg     *config.Config
	Tracker *mentorship.Tracker
}

func NewMentorshipController(cfg *config.Config, tracker *mentorship.Tracker) *MentorshipController {
	return &MentorshipController{Cfg: cfg, Tracker: tracker}
}

// Submit issues a cancellable request ticket; the request completes on its
// own after the configured delay unless cancelled first.
func (mc *MentorshipController) Submit(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	type RequestInput struct {
		Topic   string `json:"topic"`
		Message string `json:"message"`
	}
	var input RequestInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Topic == "" {
		return utils.ValidationError(c, map[string]string{"topic": "required"})
	}

	ticket := mc.Tracker.Submit(userID, input.Topic, input.Message)
	return utils.Success(c, fiber.StatusAccepted, ticket)
}

func (mc *MentorshipController) Status(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	ticket, ok := mc.Tracker.Get(userID, c.Params("ticket"))
	if !ok {
		return utils.NotFound(c, "Ticket not found")
	}
	return c.JSON(ticket)
}

// Cancel aborts a pending ticket, the view-teardown path of the SPA.
func (mc *MentorshipController) Cancel(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if !mc.Tracker.Cancel(userID, c.Params("ticket")) {
		return utils.Error(c, fiber.StatusConflict, "Ticket is not pending")
	}
	return c.JSON(fiber.Map{"message": "Request cancelled"})
}
