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

type CatalogController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Catalog *catalog.Store
}

func NewCatalogController(db *gorm.DB, cfg *config.Config, store *catalog.Store) *CatalogController {
	return &CatalogController{DB: db, Cfg: cfg, Catalog: store}
}

// GetMasterclasses lists the catalog sorted by category, narrowed by the
// optional "category" and "q" query parameters. The listing is public; when
// a valid token is supplied each course carries the caller's enrollment
// state.
func (cc *CatalogController) GetMasterclasses(c *fiber.Ctx) error {
	activeFilter := c.Query("category", catalog.FilterAll)
	searchQuery := c.Query("q")

	courses := catalog.Filter(cc.Catalog.Masterclasses(), activeFilter, searchQuery)

	// Listing is public; the overlay just stays zeroed without a token.
	userID, _ := utils.ExtractUserIDFromToken(c, cc.Cfg)

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		entry := fiber.Map{
			"id":             course.ID,
			"title":          course.Title,
			"instructor":     course.Instructor,
			"category":       course.Category,
			"category_label": catalog.CategoryLabel(course.Category),
			"duration":       course.Duration,
			"lessons":        course.Lessons,
			"students":       course.Students,
			"rating":         course.Rating,
			"price":          course.Price,
			"level":          course.Level,
			"thumbnail":      course.Thumbnail,
			"description":    course.DescriptionShort,
			"is_enrolled":    false,
			"progress":       0,
		}
		if userID != 0 {
			if enrollment := cc.findEnrollment(userID, course.ID); enrollment != nil {
				entry["is_enrolled"] = true
				entry["progress"] = enrollment.Progress
			}
		}
		result = append(result, entry)
	}

	return c.JSON(fiber.Map{
		"courses":    result,
		"categories": cc.Catalog.Categories(),
	})
}

func (cc *CatalogController) GetMasterclassDetails(c *fiber.Ctx) error {
	course, err := cc.courseFromParams(c)
	if err != nil {
		return err
	}

	detail := fiber.Map{
		"id":                course.ID,
		"title":             course.Title,
		"instructor":        course.Instructor,
		"instructor_title":  course.InstructorTitle,
		"instructor_bio":    course.InstructorBio,
		"category":          course.Category,
		"category_label":    catalog.CategoryLabel(course.Category),
		"duration":          course.Duration,
		"lessons":           course.Lessons,
		"students":          course.Students,
		"rating":            course.Rating,
		"price":             course.Price,
		"level":             course.Level,
		"thumbnail":         course.Thumbnail,
		"video_preview":     course.VideoPreview,
		"description_short": course.DescriptionShort,
		"description_long":  course.DescriptionLong,
		"features":          course.Features,
		"curriculum":        course.Curriculum,
		"testimonials":      course.Testimonials,
		"assessment": fiber.Map{
			"type":        course.Assessment.Type,
			"title":       course.Assessment.Title,
			"description": course.Assessment.Description,
		},
		"is_enrolled": false,
		"progress":    0,
	}

	if userID, _ := utils.ExtractUserIDFromToken(c, cc.Cfg); userID != 0 {
		if enrollment := cc.findEnrollment(userID, course.ID); enrollment != nil {
			detail["is_enrolled"] = true
			detail["progress"] = enrollment.Progress
		}
	}

	return c.JSON(detail)
}

func (cc *CatalogController) GetWorkshops(c *fiber.Ctx) error {
	// Zero workshops is a valid state; the client renders a placeholder.
	return c.JSON(fiber.Map{"workshops": cc.Catalog.Workshops()})
}

func (cc *CatalogController) GetCategories(c *fiber.Ctx) error {
	categories := cc.Catalog.Categories()
	result := make([]fiber.Map, 0, len(categories))
	for _, category := range categories {
		result = append(result, fiber.Map{
			"id":    category,
			"label": catalog.CategoryLabel(category),
		})
	}
	return c.JSON(fiber.Map{"categories": result})
}

func (cc *CatalogController) courseFromParams(c *fiber.Ctx) (*catalog.Masterclass, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, utils.BadRequest(c, "Invalid course ID")
	}
	course := cc.Catalog.ByID(id)
	if course == nil {
		return nil, utils.NotFound(c, "Masterclass not found")
	}
	return course, nil
}

func (cc *CatalogController) findEnrollment(userID uint, courseID int) *models.Enrollment {
	var enrollment models.Enrollment
	if err := cc.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error; err != nil {
		return nil
	}
	return &enrollment
}
