package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/examdesk/examdesk/internal/app/models"
	"github.com/examdesk/examdesk/internal/pkg/apperrors"
	"github.com/examdesk/examdesk/internal/pkg/dberrors"
)

// CourseRepository handles database operations for courses and enrollment
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

// GetByID retrieves a course by ID. Returns nil when no course exists.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := squirrel.Select("id", "title", "short_name", "created_at").
		From("courses").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var course models.Course
	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.Title, &course.ShortName, &course.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &course, nil
}

// GetByShortName retrieves a course by its short name. Returns nil when no course exists.
func (r *CourseRepository) GetByShortName(ctx context.Context, shortName string) (*models.Course, error) {
	query := squirrel.Select("id", "title", "short_name", "created_at").
		From("courses").
		Where("short_name = ?", shortName).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var course models.Course
	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.Title, &course.ShortName, &course.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &course, nil
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO courses (title, short_name)
		VALUES ($1, $2)
		RETURNING id`,
		course.Title, course.ShortName).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.NewConflictError("course short name already exists")
		}
		return 0, fmt.Errorf("error creating course: %w", err)
	}
	return id, nil
}

// IsEnrolled checks whether the user is enrolled as a student of the course
func (r *CourseRepository) IsEnrolled(ctx context.Context, courseID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM course_students WHERE course_id = $1 AND user_id = $2)`,
		courseID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

// Enroll adds the user to the course's student group. Re-enrolling is a no-op.
func (r *CourseRepository) Enroll(ctx context.Context, courseID, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO course_students (course_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (course_id, user_id) DO NOTHING`,
		courseID, userID)
	if err != nil {
		return fmt.Errorf("error enrolling user: %w", err)
	}
	return nil
}
