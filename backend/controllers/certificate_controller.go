package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"masterhub/backend/catalog"
	"masterhub/backend/config"
	"masterhub/backend/models"
	"masterhub/backend/utils"
)

type CertificateController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Catalog *catalog.Store
}

func NewCertificateController(db *gorm.DB, cfg *config.Config, store *catalog.Store) *CertificateController {
	return &CertificateController{DB: db, Cfg: cfg, Catalog: store}
}

// GetCertificate renders the certificate view. Beyond enrollment it requires
// 100% progress as a hard precondition, so the certificate cannot be reached
// by direct navigation before the curriculum is finished. The first
// authorized view issues the serial; later views return the same one.
func (cc *CertificateController) GetCertificate(c *fiber.Ctx) error {
	course, enrollment, userID, err := resolveProtected(c, cc.DB, cc.Catalog)
	if err != nil {
		return err
	}

	if enrollment.Progress != 100 {
		return utils.Forbidden(c, "Complete all lessons to receive your certificate")
	}

	var certificate models.Certificate
	err = cc.DB.Where("user_id = ? AND course_id = ?", userID, course.ID).
		First(&certificate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		certificate = models.Certificate{
			UserID:   userID,
			CourseID: course.ID,
			Serial:   uuid.NewString(),
		}
		if err := cc.DB.Create(&certificate).Error; err != nil {
			return utils.InternalServerError(c, "Could not issue certificate")
		}
	} else if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{
		"serial":           certificate.Serial,
		"course":           course.Title,
		"recipient":        user.Username,
		"instructor":       course.Instructor,
		"instructor_title": course.InstructorTitle,
		"completed_at":     enrollment.CompletedAt,
	})
}
