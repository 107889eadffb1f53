package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"masterhub/backend/catalog"
	"masterhub/backend/config"
	"masterhub/backend/models"
	"masterhub/backend/routes"
	"masterhub/backend/utils"
)

const testMasterclasses = `[
  {
    "id": 1,
    "title": "Closing Deals",
    "instructor": "A. Lee",
    "category": "sales",
    "rating": 4.5,
    "price": 99,
    "curriculum": [
      {
        "section": "Basics",
        "lessons": [
          {"title": "Intro", "duration": "10:00", "video_url": "https://example.com/1.mp4"},
          {"title": "Discovery", "duration": "12:00", "video_url": "https://example.com/2.mp4"}
        ]
      }
    ],
    "assessment": {"type": "Project", "title": "Call", "description": "Record a call."},
    "testimonials": [
      {"name": "John Doe", "comment": "This masterclass changed my life!"}
    ]
  },
  {
    "id": 2,
    "title": "Brand Basics",
    "instructor": "B. Chen",
    "category": "marketing",
    "rating": 4.2,
    "price": 79,
    "curriculum": [
      {
        "section": "Brand",
        "lessons": [
          {"title": "Voice", "duration": "09:00", "video_url": "https://example.com/3.mp4"}
        ]
      }
    ],
    "assessment": {
      "type": "Quiz",
      "title": "Brand Quiz",
      "description": "Quick check.",
      "questions": [
        {"id": 1, "prompt": "Q1", "options": ["a", "b"], "answer": 0},
        {"id": 2, "prompt": "Q2", "options": ["a", "b"], "answer": 1}
      ]
    }
  },
  {
    "id": 3,
    "title": "Coming Soon",
    "instructor": "C. Diaz",
    "category": "sales",
    "rating": 0,
    "price": 0,
    "curriculum": [],
    "assessment": {"type": "Quiz", "title": "TBD", "description": ""}
  }
]`

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		DBHost:            envOr("TEST_DB_HOST", "localhost"),
		DBPort:            envOr("TEST_DB_PORT", "5432"),
		DBUser:            envOr("TEST_DB_USER", "postgres"),
		DBPassword:        envOr("TEST_DB_PASSWORD", "postgres"),
		DBName:            envOr("TEST_DB_NAME", "masterhub_test"),
		JWTSecret:         "testsecret",
		TokenTTL:          time.Hour,
		QuizPassThreshold: 70,
		MentorshipDelay:   10 * time.Millisecond,
	}

	db, err := utils.InitDB(cfg)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	// Each test starts from clean per-user state.
	db.Exec("DELETE FROM certificates")
	db.Exec("DELETE FROM assessment_submissions")
	db.Exec("DELETE FROM lesson_completions")
	db.Exec("DELETE FROM enrollments")
	db.Exec("DELETE FROM users")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "masterclasses.json"), []byte(testMasterclasses), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "workshops.json"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "categories.json"), []byte(`["sales","marketing"]`), 0o644))

	store, err := catalog.Load(dir)
	require.NoError(t, err)

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg, store)

	return &testEnv{app: app, db: db, cfg: cfg}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

// registerUser creates an account through the API and returns its token.
func (e *testEnv) registerUser(t *testing.T, username string, premium bool) string {
	t.Helper()

	resp := e.request(t, "POST", "/api/auth/register", "", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "hunter22",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token, _ := decode(t, resp)["token"].(string)
	require.NotEmpty(t, token)

	if premium {
		upgrade := e.request(t, "POST", "/api/user/upgrade", token, nil)
		require.Equal(t, fiber.StatusOK, upgrade.StatusCode)
	}
	return token
}

func (e *testEnv) enrollmentCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&models.Enrollment{}).Count(&count).Error)
	return count
}

// completeAllLessons drives course 1's two lessons to completion.
func (e *testEnv) completeAllLessons(t *testing.T, token string) {
	t.Helper()
	for _, key := range []string{"1.1", "1.2"} {
		resp := e.request(t, "POST", "/api/courses/1/classroom/complete", token,
			map[string]interface{}{"lesson": key})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

func TestEnrollRequiresAuth(t *testing.T) {
	e := setupTest(t)

	resp := e.request(t, "POST", "/api/courses/1/enroll", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Zero(t, e.enrollmentCount(t))
}

func TestEnrollRequiresPremium(t *testing.T) {
	e := setupTest(t)
	token := e.registerUser(t, "freeuser", false)

	resp := e.request(t, "POST", "/api/courses/1/enroll", token, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Zero(t, e.enrollmentCount(t))
}

func TestEnrollIsIdempotent(t *testing.T) {
	e := setupTest(t)
	token := e.registerUser(t, "premiumuser", true)

	first := e.request(t, "POST", "/api/courses/1/enroll", token, nil)
	require.Equal(t, fiber.StatusOK, first.StatusCode)

	second := e.request(t, "POST", "/api/courses/1/enroll", token, nil)
	require.Equal(t, fiber.StatusOK, second.StatusCode)
	require.Equal(t, int64(1), e.enrollmentCount(t))
}

func TestEnrollUnknownCourse(t *testing.T) {
	e := setupTest(t)
	token := e.registerUser(t, "premiumuser", true)

	resp := e.request(t, "POST", "/api/courses/999/enroll", token, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCatalogIsPublicAndFilters(t *testing.T) {
	e := setupTest(t)

	resp := e.request(t, "GET", "/api/catalog/courses?category=marketing&q=", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	courses := decode(t, resp)["courses"].([]interface{})
	require.Len(t, courses, 1)

	resp = e.request(t, "GET", "/api/catalog/courses?q=lee", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	courses = decode(t, resp)["courses"].([]interface{})
	require.Len(t, courses, 1)
	require.Equal(t, "Closing Deals", courses[0].(map[string]interface{})["title"])
}

func TestCatalogDetailIncludesTestimonials(t *testing.T) {
	e := setupTest(t)

	resp := e.request(t, "GET", "/api/catalog/courses/1", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	testimonials := decode(t, resp)["testimonials"].([]interface{})
	require.Len(t, testimonials, 1)
	entry := testimonials[0].(map[string]interface{})
	require.Equal(t, "John Doe", entry["name"])
	require.NotEmpty(t, entry["comment"])
}

func TestCatalogDetailNotFound(t *testing.T) {
	e := setupTest(t)

	resp := e.request(t, "GET", "/api/catalog/courses/999", "", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestClassroomGateBlocksUnenrolled(t *testing.T) {
	e := setupTest(t)

	resp := e.request(t, "GET", "/api/courses/1/classroom", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token := e.registerUser(t, "premiumuser", true)
	resp = e.request(t, "GET", "/api/courses/1/classroom", token, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// No protected content may leak past the gate.
	body := decode(t, resp)
	require.NotContains(t, body, "curriculum")
}

func TestClassroomDefaultsAndCompletion(t *testing.T) {
	e := setupTest(t)
	token := e.registerUser(t, "premiumuser", true)
	e.request(t, "POST", "/api/courses/1/enroll", token, nil)

	resp := e.request(t, "GET", "/api/courses/1/classroom", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	require.Equal(t, "1.1", body["current_lesson"])
	require.Equal(t, float64(0), body["progress"])

	complete := e.request(t, "POST", "/api/courses/1/classroom/complete", token,
		map[string]interface{}{"lesson": "1.1"})
	require.Equal(t, fiber.StatusOK, complete.StatusCode)
	require.Equal(t, float64(50), decode(t, complete)["progress"])

	// Completing the same lesson again must not move progress.
	again := e.request(t, "POST", "/api/courses/1/classroom/complete", token,
		map[string]interface{}{"lesson": "1.1"})
	require.Equal(t, float64(50), decode(t, again)["progress"])
}

func TestClassroomEmptyCurriculum(t *testing.T) {
	e := setupTest(t)
	token := e.registerUser(t, "premiumuser", true)
	e.request(t, "POST", "/api/courses/3/enroll", token, nil)

	resp := e.request(t, "GET", "/api/courses/3/classroom", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	require.Equal(t, "No lessons available for this masterclass", body["message"])
	require.NotContains(t, body, "current_lesson")
}

func TestCertificateReachableExactlyAtFullProgress(t *testing.T) {
	e := setupTest(t)
	token := e.registerUser(t, "premiumuser", true)
	e.request(t, "POST", "/api/courses/1/enroll", token, nil)

	resp := e.request(t, "GET", "/api/courses/1/certificate", token, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	e.completeAllLessons(t, token)

	resp = e.request(t, "GET", "/api/courses/1/certificate", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	first := decode(t, resp)
	require.Equal(t, "Closing Deals", first["course"])
	require.Equal(t, "premiumuser", first["recipient"])
	require.NotEmpty(t, first["serial"])
	require.NotEmpty(t, first["completed_at"])

	// The serial is issued once and stays stable.
	resp = e.request(t, "GET", "/api/courses/1/certificate", token, nil)
	second := decode(t, resp)
	require.Equal(t, first["serial"], second["serial"])
}

func TestProjectSubmissionValidation(t *testing.T) {
	e := setupTest(t)
	token := e.registerUser(t, "premiumuser", true)
	e.request(t, "POST", "/api/courses/1/enroll", token, nil)

	bad := e.request(t, "POST", "/api/courses/1/assessment/project", token,
		map[string]interface{}{"url": "not a url"})
	require.Equal(t, fiber.StatusUnprocessableEntity, bad.StatusCode)

	var count int64
	e.db.Model(&models.AssessmentSubmission{}).Count(&count)
	require.Zero(t, count)

	good := e.request(t, "POST", "/api/courses/1/assessment/project", token,
		map[string]interface{}{"url": "https://github.com/me/mock-call"})
	require.Equal(t, fiber.StatusOK, good.StatusCode)

	// Submitted is terminal.
	again := e.request(t, "POST", "/api/courses/1/assessment/project", token,
		map[string]interface{}{"url": "https://github.com/me/other"})
	require.Equal(t, fiber.StatusConflict, again.StatusCode)
}

func TestQuizScoringAndRetry(t *testing.T) {
	e := setupTest(t)
	token := e.registerUser(t, "premiumuser", true)
	e.request(t, "POST", "/api/courses/2/enroll", token, nil)

	fail := e.request(t, "POST", "/api/courses/2/assessment/quiz", token,
		map[string]interface{}{"answers": map[string]int{"1": 1, "2": 0}})
	require.Equal(t, fiber.StatusOK, fail.StatusCode)
	failBody := decode(t, fail)
	require.Equal(t, false, failBody["passed"])

	// A failed attempt does not enter Submitted and may be retried.
	pass := e.request(t, "POST", "/api/courses/2/assessment/quiz", token,
		map[string]interface{}{"answers": map[string]int{"1": 0, "2": 1}})
	require.Equal(t, fiber.StatusOK, pass.StatusCode)
	passBody := decode(t, pass)
	require.Equal(t, true, passBody["passed"])
	require.Equal(t, float64(100), passBody["score"])

	status := e.request(t, "GET", "/api/courses/2/assessment", token, nil)
	statusBody := decode(t, status)
	require.Equal(t, true, statusBody["submitted"])
}

func TestAssessmentNeverLeaksAnswers(t *testing.T) {
	e := setupTest(t)
	token := e.registerUser(t, "premiumuser", true)
	e.request(t, "POST", "/api/courses/2/enroll", token, nil)

	resp := e.request(t, "GET", "/api/courses/2/assessment", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "answer")
}

func TestMentorshipTicketLifecycle(t *testing.T) {
	e := setupTest(t)
	token := e.registerUser(t, "premiumuser", true)

	resp := e.request(t, "POST", "/api/mentorship", token,
		map[string]interface{}{"topic": "pricing", "message": "help"})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	data := decode(t, resp)["data"].(map[string]interface{})
	ticketID := data["id"].(string)

	cancel := e.request(t, "DELETE", fmt.Sprintf("/api/mentorship/%s", ticketID), token, nil)
	require.Equal(t, fiber.StatusOK, cancel.StatusCode)

	status := e.request(t, "GET", fmt.Sprintf("/api/mentorship/%s", ticketID), token, nil)
	require.Equal(t, "cancelled", decode(t, status)["status"])
}

func TestMyCoursesListsProgress(t *testing.T) {
	e := setupTest(t)
	token := e.registerUser(t, "premiumuser", true)
	e.request(t, "POST", "/api/courses/1/enroll", token, nil)
	e.completeAllLessons(t, token)

	resp := e.request(t, "GET", "/api/my/courses", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	courses := decode(t, resp)["courses"].([]interface{})
	require.Len(t, courses, 1)
	entry := courses[0].(map[string]interface{})
	require.Equal(t, float64(100), entry["progress"])
	require.Equal(t, true, entry["completed"])
}
