package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment is the per-(user, course) state the SPA kept on the shared
// course record. Progress is cached here but always recomputed from the
// completion rows; it is never accepted from input.
type Enrollment struct {
	gorm.Model
	UserID      uint `gorm:"uniqueIndex:idx_user_course"`
	CourseID    int  `gorm:"uniqueIndex:idx_user_course"`
	Progress    int  `gorm:"default:0"` // 0-100, derived
	CompletedAt *time.Time
}

// LessonCompletion records one completed lesson for a (user, course) pair.
// LessonKey is the loader-assigned positional key of the lesson.
type LessonCompletion struct {
	gorm.Model
	UserID    uint   `gorm:"uniqueIndex:idx_user_course_lesson"`
	CourseID  int    `gorm:"uniqueIndex:idx_user_course_lesson"`
	LessonKey string `gorm:"uniqueIndex:idx_user_course_lesson"`
}
