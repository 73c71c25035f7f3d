package models

import "time"

// Exam represents an exam in the database. An exam owns its set of
// ExamUser rows; removing the exam removes them too.
type Exam struct {
	ID          int64      `json:"id" db:"id"`
	CourseID    int64      `json:"courseId" db:"course_id"`
	Title       string     `json:"title" db:"title"`
	VisibleDate *time.Time `json:"visibleDate,omitempty" db:"visible_date"`
	StartDate   *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate     *time.Time `json:"endDate,omitempty" db:"end_date"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}
