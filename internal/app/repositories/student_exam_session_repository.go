package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/examdesk/examdesk/internal/app/models"
)

// StudentExamSessionRepository handles database operations for exam working sessions
type StudentExamSessionRepository struct {
	db *pgxpool.Pool
}

// NewStudentExamSessionRepository creates a new StudentExamSessionRepository
func NewStudentExamSessionRepository(db *pgxpool.Pool) *StudentExamSessionRepository {
	return &StudentExamSessionRepository{db: db}
}

// Start records that the user has begun working on the exam. Starting is
// one-way: a repeated call keeps the original start date.
func (r *StudentExamSessionRepository) Start(ctx context.Context, examID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO student_exam_sessions (exam_id, user_id, started, started_date)
		VALUES ($1, $2, TRUE, CURRENT_TIMESTAMP)
		ON CONFLICT (exam_id, user_id)
		DO UPDATE SET started = TRUE, started_date = COALESCE(student_exam_sessions.started_date, CURRENT_TIMESTAMP)`,
		examID, userID)
	if err != nil {
		return fmt.Errorf("error starting exam session: %w", err)
	}
	return nil
}

// StartedUserIDs returns the set of user IDs that have begun working on the exam
func (r *StudentExamSessionRepository) StartedUserIDs(ctx context.Context, examID int64) (map[int64]bool, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id FROM student_exam_sessions
		WHERE exam_id = $1 AND started = TRUE`,
		examID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	started := make(map[int64]bool)
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		started[userID] = true
	}

	return started, rows.Err()
}

// GetByExamAndUser retrieves a session record, or nil when none exists
func (r *StudentExamSessionRepository) GetByExamAndUser(ctx context.Context, examID, userID int64) (*models.StudentExamSession, error) {
	s := &models.StudentExamSession{}
	err := r.db.QueryRow(ctx, `
		SELECT id, exam_id, user_id, started, started_date
		FROM student_exam_sessions
		WHERE exam_id = $1 AND user_id = $2`,
		examID, userID).Scan(&s.ID, &s.ExamID, &s.UserID, &s.Started, &s.StartedDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return s, nil
}
