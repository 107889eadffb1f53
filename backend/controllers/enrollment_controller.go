package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"masterhub/backend/catalog"
	"masterhub/backend/config"
	"masterhub/backend/models"
	"masterhub/backend/utils"
)

type EnrollmentController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Catalog *catalog.Store
}

func NewEnrollmentController(db *gorm.DB, cfg *config.Config, store *catalog.Store) *EnrollmentController {
	return &EnrollmentController{DB: db, Cfg: cfg, Catalog: store}
}

// Enroll creates the caller's enrollment for a course. The auth and premium
// gates run in middleware before this handler; here the transition itself is
// idempotent, so enrolling twice leaves a single row and still reports
// success.
func (ec *EnrollmentController) Enroll(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	course := ec.Catalog.ByID(courseID)
	if course == nil {
		return utils.NotFound(c, "Masterclass not found")
	}

	enrollment := models.Enrollment{UserID: userID, CourseID: course.ID}
	if err := ec.DB.Where("user_id = ? AND course_id = ?", userID, course.ID).
		FirstOrCreate(&enrollment).Error; err != nil {
		return utils.InternalServerError(c, "Could not create enrollment")
	}

	return c.JSON(fiber.Map{
		"message":  "Enrollment successful! Welcome to the masterclass.",
		"course":   course.ID,
		"progress": enrollment.Progress,
	})
}

// MyCourses lists the caller's enrollments with derived progress, the "My
// Learning" sidebar of the catalog page.
func (ec *EnrollmentController) MyCourses(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var enrollments []models.Enrollment
	if err := ec.DB.Where("user_id = ?", userID).Find(&enrollments).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(enrollments))
	for _, enrollment := range enrollments {
		course := ec.Catalog.ByID(enrollment.CourseID)
		if course == nil {
			// Enrollment outlived the catalog entry; degrade, don't crash.
			continue
		}
		result = append(result, fiber.Map{
			"id":        course.ID,
			"title":     course.Title,
			"thumbnail": course.Thumbnail,
			"progress":  enrollment.Progress,
			"completed": enrollment.CompletedAt != nil,
		})
	}

	return c.JSON(fiber.Map{"courses": result})
}
