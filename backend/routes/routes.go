package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"masterhub/backend/catalog"
	"masterhub/backend/classroom"
	"masterhub/backend/config"
	"masterhub/backend/controllers"
	"masterhub/backend/mentorship"
	"masterhub/backend/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, store *catalog.Store) {
	states := classroom.NewStateStore()
	tracker := mentorship.NewTracker(cfg.MentorshipDelay)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	premiumMiddleware := middleware.PremiumMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Post("/api/user/upgrade", authMiddleware, userController.Upgrade)

	// Public catalog routes
	catalogController := controllers.NewCatalogController(db, cfg, store)
	app.Get("/api/catalog/courses", catalogController.GetMasterclasses)
	app.Get("/api/catalog/courses/:id", catalogController.GetMasterclassDetails)
	app.Get("/api/catalog/workshops", catalogController.GetWorkshops)
	app.Get("/api/catalog/categories", catalogController.GetCategories)

	// Enrollment routes
	enrollmentController := controllers.NewEnrollmentController(db, cfg, store)
	app.Post("/api/courses/:id/enroll", premiumMiddleware, enrollmentController.Enroll)
	app.Get("/api/my/courses", authMiddleware, enrollmentController.MyCourses)

	// Classroom routes (enrollment gate runs inside the handlers)
	classroomController := controllers.NewClassroomController(db, cfg, store, states)
	room := app.Group("/api/courses/:id/classroom", authMiddleware)
	room.Get("/", classroomController.GetClassroom)
	room.Post("/lesson", classroomController.SelectLesson)
	room.Post("/section", classroomController.ToggleSection)
	room.Post("/complete", classroomController.CompleteLesson)

	// Assessment routes
	assessmentController := controllers.NewAssessmentController(db, cfg, store)
	assessment := app.Group("/api/courses/:id/assessment", authMiddleware)
	assessment.Get("/", assessmentController.GetAssessment)
	assessment.Post("/quiz", assessmentController.SubmitQuiz)
	assessment.Post("/project", assessmentController.SubmitProject)

	// Certificate route
	certificateController := controllers.NewCertificateController(db, cfg, store)
	app.Get("/api/courses/:id/certificate", authMiddleware, certificateController.GetCertificate)

	// Mentorship routes
	mentorshipController := controllers.NewMentorshipController(cfg, tracker)
	app.Post("/api/mentorship", authMiddleware, mentorshipController.Submit)
	app.Get("/api/mentorship/:ticket", authMiddleware, mentorshipController.Status)
	app.Delete("/api/mentorship/:ticket", authMiddleware, mentorshipController.Cancel)
}
