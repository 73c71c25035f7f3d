package models

import "time"

// StudentExamSession records whether a participant's exam session has
// started. It is the collaborator state the attendance verifier reads;
// attendance itself is derived, never stored.
type StudentExamSession struct {
	ID          int64      `json:"id" db:"id"`
	ExamID      int64      `json:"examId" db:"exam_id"`
	UserID      int64      `json:"userId" db:"user_id"`
	Started     bool       `json:"started" db:"started"`
	StartedDate *time.Time `json:"startedDate,omitempty" db:"started_date"`
}
