package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"masterhub/backend/catalog"
	"masterhub/backend/models"
	"masterhub/backend/utils"
)

// resolveProtected runs the access gate for the classroom, assessment and
// certificate views. It resolves the course and the caller's enrollment
// before any protected data is touched; when the gate fails the response is
// already written and the caller must return the error without rendering
// anything else.
func resolveProtected(c *fiber.Ctx, db *gorm.DB, store *catalog.Store) (*catalog.Masterclass, *models.Enrollment, uint, error) {
	userID := c.Locals("userID").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, nil, 0, utils.BadRequest(c, "Invalid course ID")
	}

	course := store.ByID(id)
	if course == nil {
		return nil, nil, 0, utils.NotFound(c, "Masterclass not found")
	}

	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, course.ID).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, 0, utils.Error(c, fiber.StatusForbidden,
				"You are not enrolled in this masterclass",
				fiber.Map{"redirect": fmt.Sprintf("/masterclass/%d", course.ID)})
		}
		return nil, nil, 0, utils.InternalServerError(c, "Could not query database")
	}

	return course, &enrollment, userID, nil
}

// recomputeProgress derives the enrollment's progress from the completion
// set: floor(completed / total * 100). Reaching 100 stamps CompletedAt. The
// stored value is a cache of this derivation, never an input.
func recomputeProgress(db *gorm.DB, enrollment *models.Enrollment, course *catalog.Masterclass) error {
	total := course.TotalLessons()
	if total == 0 {
		return nil
	}

	var completed int64
	if err := db.Model(&models.LessonCompletion{}).
		Where("user_id = ? AND course_id = ?", enrollment.UserID, enrollment.CourseID).
		Count(&completed).Error; err != nil {
		return err
	}

	enrollment.Progress = int(completed) * 100 / total
	if enrollment.Progress == 100 && enrollment.CompletedAt == nil {
		now := db.NowFunc()
		enrollment.CompletedAt = &now
	}
	return db.Save(enrollment).Error
}
