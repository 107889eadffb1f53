package models

import "gorm.io/gorm"

// AssessmentSubmission is the one-way NotSubmitted -> Submitted state per
// (user, course). A row exists only once the submission was accepted, so
// presence of a row means Submitted.
type AssessmentSubmission struct {
	gorm.Model
	UserID     uint   `gorm:"uniqueIndex:idx_user_course_submission"`
	CourseID   int    `gorm:"uniqueIndex:idx_user_course_submission"`
	Kind       string // Quiz, Project
	Score      int    // percent correct, quizzes only
	ProjectURL string
	FileName   string
}

// Certificate is issued once per (user, course) on the first authorized view.
type Certificate struct {
	gorm.Model
	UserID   uint   `gorm:"uniqueIndex:idx_user_course_certificate"`
	CourseID int    `gorm:"uniqueIndex:idx_user_course_certificate"`
	Serial   string `gorm:"unique;not null"`
}
