package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/examdesk/examdesk/internal/app/models"
)

// ExamRepository handles database operations for exams
type ExamRepository struct {
	db *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository
func NewExamRepository(db *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{db: db}
}

// GetByIDForCourse retrieves an exam by ID, scoped to its course.
// Returns nil when no such exam exists in the course.
func (r *ExamRepository) GetByIDForCourse(ctx context.Context, courseID, examID int64) (*models.Exam, error) {
	query := squirrel.Select("id", "course_id", "title", "visible_date", "start_date", "end_date", "created_at").
		From("exams").
		Where("id = ?", examID).
		Where("course_id = ?", courseID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var exam models.Exam
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&exam.ID, &exam.CourseID, &exam.Title,
		&exam.VisibleDate, &exam.StartDate, &exam.EndDate, &exam.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &exam, nil
}

// Create creates a new exam
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) (int64, error) {
	query := squirrel.Insert("exams").
		Columns("course_id", "title", "visible_date", "start_date", "end_date").
		Values(exam.CourseID, exam.Title, exam.VisibleDate, exam.StartDate, exam.EndDate).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}
