package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"masterhub/backend/catalog"
	"masterhub/backend/config"
	"masterhub/backend/models"
	"masterhub/backend/utils"
)

type AssessmentController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Catalog  *catalog.Store
	validate *validator.Validate
}

func NewAssessmentController(db *gorm.DB, cfg *config.Config, store *catalog.Store) *AssessmentController {
	return &AssessmentController{DB: db, Cfg: cfg, Catalog: store, validate: validator.New()}
}

// GetAssessment returns the assessment descriptor and the caller's
// submission state. Quiz questions are stripped of their answer key.
func (ac *AssessmentController) GetAssessment(c *fiber.Ctx) error {
	course, _, userID, err := resolveProtected(c, ac.DB, ac.Catalog)
	if err != nil {
		return err
	}

	assessment := course.Assessment
	questions := make([]fiber.Map, 0, len(assessment.Questions))
	for _, q := range assessment.Questions {
		questions = append(questions, fiber.Map{
			"id":      q.ID,
			"prompt":  q.Prompt,
			"options": q.Options,
		})
	}

	response := fiber.Map{
		"course":      course.Title,
		"type":        assessment.Type,
		"title":       assessment.Title,
		"description": assessment.Description,
		"questions":   questions,
		"submitted":   false,
	}

	if submission := ac.findSubmission(userID, course.ID); submission != nil {
		response["submitted"] = true
		if submission.Kind == catalog.AssessmentQuiz {
			response["score"] = submission.Score
		}
	}

	return c.JSON(response)
}

// SubmitQuiz grades the caller's answers against the question bank. The
// Submitted state is entered only on a pass; a failed attempt changes
// nothing and may be retried.
func (ac *AssessmentController) SubmitQuiz(c *fiber.Ctx) error {
	course, _, userID, err := resolveProtected(c, ac.DB, ac.Catalog)
	if err != nil {
		return err
	}
	if course.Assessment.Type != catalog.AssessmentQuiz {
		return utils.BadRequest(c, "This masterclass has no quiz assessment")
	}
	if existing := ac.findSubmission(userID, course.ID); existing != nil {
		return utils.Error(c, fiber.StatusConflict, "Assessment already submitted")
	}

	type QuizInput struct {
		// question id -> selected option index
		Answers map[int]int `json:"answers"`
	}
	var input QuizInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	questions := course.Assessment.Questions
	if len(questions) == 0 {
		return utils.BadRequest(c, "This quiz has no questions")
	}
	if len(input.Answers) != len(questions) {
		return utils.ValidationError(c, map[string]string{
			"answers": "one selected answer per question is required",
		})
	}

	correct := 0
	for _, q := range questions {
		selected, ok := input.Answers[q.ID]
		if !ok {
			return utils.ValidationError(c, map[string]string{
				"answers": "one selected answer per question is required",
			})
		}
		if selected == q.Answer {
			correct++
		}
	}

	score := correct * 100 / len(questions)
	if score < ac.Cfg.QuizPassThreshold {
		return c.JSON(fiber.Map{
			"passed":  false,
			"score":   score,
			"message": "Score below the pass threshold, try again",
		})
	}

	submission := models.AssessmentSubmission{
		UserID:   userID,
		CourseID: course.ID,
		Kind:     catalog.AssessmentQuiz,
		Score:    score,
	}
	if err := ac.DB.Create(&submission).Error; err != nil {
		return utils.InternalServerError(c, "Could not save submission")
	}

	return c.JSON(fiber.Map{
		"passed":  true,
		"score":   score,
		"message": "Submission received! Well done.",
	})
}

// SubmitProject accepts a project URL and optional artifact reference. A
// malformed URL blocks the submission with a field-level error and no state
// transition.
func (ac *AssessmentController) SubmitProject(c *fiber.Ctx) error {
	course, _, userID, err := resolveProtected(c, ac.DB, ac.Catalog)
	if err != nil {
		return err
	}
	if course.Assessment.Type != catalog.AssessmentProject {
		return utils.BadRequest(c, "This masterclass has no project assessment")
	}
	if existing := ac.findSubmission(userID, course.ID); existing != nil {
		return utils.Error(c, fiber.StatusConflict, "Assessment already submitted")
	}

	type ProjectInput struct {
		URL      string `json:"url" validate:"required,url"`
		FileName string `json:"file_name"`
	}
	var input ProjectInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := ac.validate.Struct(&input); err != nil {
		return utils.ValidationError(c, map[string]string{
			"url": "a well-formed project URL is required",
		})
	}

	submission := models.AssessmentSubmission{
		UserID:     userID,
		CourseID:   course.ID,
		Kind:       catalog.AssessmentProject,
		ProjectURL: input.URL,
		FileName:   input.FileName,
	}
	if err := ac.DB.Create(&submission).Error; err != nil {
		return utils.InternalServerError(c, "Could not save submission")
	}

	return c.JSON(fiber.Map{"message": "Submission received! Well done."})
}

func (ac *AssessmentController) findSubmission(userID uint, courseID int) *models.AssessmentSubmission {
	var submission models.AssessmentSubmission
	if err := ac.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&submission).Error; err != nil {
		return nil
	}
	return &submission
}
