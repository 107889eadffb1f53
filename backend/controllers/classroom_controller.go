package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"masterhub/backend/catalog"
	"masterhub/backend/classroom"
	"masterhub/backend/config"
	"masterhub/backend/models"
	"masterhub/backend/utils"
)

type ClassroomController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Catalog *catalog.Store
	States  *classroom.StateStore
}

func NewClassroomController(db *gorm.DB, cfg *config.Config, store *catalog.Store, states *classroom.StateStore) *ClassroomController {
	return &ClassroomController{DB: db, Cfg: cfg, Catalog: store, States: states}
}

// GetClassroom returns the classroom view model: curriculum, navigation
// state, completion set and derived progress. An empty curriculum renders an
// explicit "no lessons available" state.
func (cl *ClassroomController) GetClassroom(c *fiber.Ctx) error {
	course, enrollment, userID, err := resolveProtected(c, cl.DB, cl.Catalog)
	if err != nil {
		return err
	}

	if course.TotalLessons() == 0 {
		return c.JSON(fiber.Map{
			"course":     course.Title,
			"curriculum": []catalog.CurriculumSection{},
			"message":    "No lessons available for this masterclass",
		})
	}

	state := cl.States.Get(userID, course)

	var completions []models.LessonCompletion
	if err := cl.DB.Where("user_id = ? AND course_id = ?", userID, course.ID).
		Find(&completions).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	completedKeys := make([]string, 0, len(completions))
	for _, completion := range completions {
		completedKeys = append(completedKeys, completion.LessonKey)
	}

	return c.JSON(fiber.Map{
		"course":         course.Title,
		"curriculum":     course.Curriculum,
		"current_lesson": state.CurrentLessonKey,
		"open_sections":  state.OpenSections,
		"completed":      completedKeys,
		"progress":       enrollment.Progress,
	})
}

// SelectLesson focuses a lesson; open sections are untouched.
func (cl *ClassroomController) SelectLesson(c *fiber.Ctx) error {
	course, _, userID, err := resolveProtected(c, cl.DB, cl.Catalog)
	if err != nil {
		return err
	}

	type SelectInput struct {
		Lesson string `json:"lesson"`
	}
	var input SelectInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := cl.States.Update(userID, course, func(state *classroom.NavState) error {
		return state.SelectLesson(course, input.Lesson)
	}); err != nil {
		return utils.NotFound(c, "Lesson not found")
	}

	return c.JSON(fiber.Map{"current_lesson": input.Lesson})
}

// ToggleSection flips one curriculum section open or closed; the current
// lesson is untouched.
func (cl *ClassroomController) ToggleSection(c *fiber.Ctx) error {
	course, _, userID, err := resolveProtected(c, cl.DB, cl.Catalog)
	if err != nil {
		return err
	}

	type ToggleInput struct {
		Section string `json:"section"`
	}
	var input ToggleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := cl.States.Update(userID, course, func(state *classroom.NavState) error {
		return state.ToggleSection(input.Section)
	}); err != nil {
		return utils.NotFound(c, "Section not found")
	}

	state := cl.States.Get(userID, course)
	return c.JSON(fiber.Map{"open_sections": state.OpenSections})
}

// CompleteLesson adds a lesson to the caller's completion set and recomputes
// the enrollment's progress. Completing the same lesson twice is a no-op.
func (cl *ClassroomController) CompleteLesson(c *fiber.Ctx) error {
	course, enrollment, userID, err := resolveProtected(c, cl.DB, cl.Catalog)
	if err != nil {
		return err
	}

	type CompleteInput struct {
		Lesson string `json:"lesson"`
	}
	var input CompleteInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if course.FindLesson(input.Lesson) == nil {
		return utils.NotFound(c, "Lesson not found")
	}

	completion := models.LessonCompletion{
		UserID:    userID,
		CourseID:  course.ID,
		LessonKey: input.Lesson,
	}
	if err := cl.DB.Where("user_id = ? AND course_id = ? AND lesson_key = ?",
		userID, course.ID, input.Lesson).FirstOrCreate(&completion).Error; err != nil {
		return utils.InternalServerError(c, "Could not save completion")
	}

	if err := recomputeProgress(cl.DB, enrollment, course); err != nil {
		return utils.InternalServerError(c, "Could not update progress")
	}

	return c.JSON(fiber.Map{
		"message":  "Lesson completed",
		"progress": enrollment.Progress,
	})
}
