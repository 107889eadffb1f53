package catalog

import "strings"

// Masterclass is a catalog record. It is loaded once at startup and never
// mutated; per-user enrollment and progress live in their own tables and are
// overlaid onto API responses, not stored here.
type Masterclass struct {
	ID               int                 `json:"id" validate:"required,gt=0"`
	Title            string              `json:"title" validate:"required"`
	Instructor       string              `json:"instructor" validate:"required"`
	InstructorTitle  string              `json:"instructor_title"`
	InstructorBio    string              `json:"instructor_bio"`
	Category         string              `json:"category" validate:"required"`
	Duration         string              `json:"duration"`
	Lessons          int                 `json:"lessons" validate:"gte=0"`
	Students         int                 `json:"students" validate:"gte=0"`
	Rating           float64             `json:"rating" validate:"gte=0,lte=5"`
	Price            int                 `json:"price" validate:"gte=0"`
	Level            string              `json:"level"`
	Thumbnail        string              `json:"thumbnail"`
	VideoPreview     string              `json:"video_preview"`
	DescriptionShort string              `json:"description_short"`
	DescriptionLong  string              `json:"description_long"`
	Features         []string            `json:"features"`
	Curriculum       []CurriculumSection `json:"curriculum" validate:"dive"`
	Assessment       Assessment          `json:"assessment"`
	Testimonials     []Testimonial       `json:"testimonials,omitempty" validate:"dive"`
}

// Testimonial is a static student quote shown on the detail view.
type Testimonial struct {
	Name    string `json:"name" validate:"required"`
	Comment string `json:"comment" validate:"required"`
}

type CurriculumSection struct {
	Section string   `json:"section" validate:"required"`
	Lessons []Lesson `json:"lessons" validate:"min=1,dive"`
}

type Lesson struct {
	// Key is assigned by the loader from the lesson's position in the
	// curriculum ("section.lesson", 1-based). Completion rows reference it.
	Key      string `json:"key"`
	Title    string `json:"title" validate:"required"`
	Duration string `json:"duration"`
	VideoURL string `json:"video_url"`
}

type Assessment struct {
	Type        string         `json:"type" validate:"omitempty,oneof=Quiz Project"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Questions   []QuizQuestion `json:"questions,omitempty" validate:"dive"`
}

const (
	AssessmentQuiz    = "Quiz"
	AssessmentProject = "Project"
)

// QuizQuestion carries the correct option index; it must never be serialized
// to clients. Handlers strip it before responding.
type QuizQuestion struct {
	ID      int      `json:"id" validate:"required,gt=0"`
	Prompt  string   `json:"prompt" validate:"required"`
	Options []string `json:"options" validate:"min=2"`
	Answer  int      `json:"answer" validate:"gte=0"`
}

type Workshop struct {
	ID         int    `json:"id" validate:"required,gt=0"`
	Title      string `json:"title" validate:"required"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Duration   string `json:"duration"`
	Instructor string `json:"instructor"`
	Spots      int    `json:"spots" validate:"gte=0"`
	Price      int    `json:"price" validate:"gte=0"`
	Category   string `json:"category"`
}

// TotalLessons counts lessons across all curriculum sections. The static
// Lessons field is advertising copy; progress math uses this.
func (m *Masterclass) TotalLessons() int {
	total := 0
	for _, section := range m.Curriculum {
		total += len(section.Lessons)
	}
	return total
}

// FirstLesson returns the initial classroom selection, or nil when the
// curriculum is empty.
func (m *Masterclass) FirstLesson() *Lesson {
	for _, section := range m.Curriculum {
		if len(section.Lessons) > 0 {
			return &section.Lessons[0]
		}
	}
	return nil
}

// FindLesson looks a lesson up by its positional key.
func (m *Masterclass) FindLesson(key string) *Lesson {
	for si := range m.Curriculum {
		for li := range m.Curriculum[si].Lessons {
			if m.Curriculum[si].Lessons[li].Key == key {
				return &m.Curriculum[si].Lessons[li]
			}
		}
	}
	return nil
}

// CategoryLabel derives a display label from a category token:
// "business-growth" -> "Business Growth". Labels are never stored.
func CategoryLabel(category string) string {
	parts := strings.Split(category, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
