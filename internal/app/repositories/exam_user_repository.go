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

// ExamUserRepository handles database operations for exam participants.
// Writes are scoped to a single row; concurrent operations on the same
// participant are serialized with row locks so no field update is lost.
type ExamUserRepository struct {
	db *pgxpool.Pool
}

// NewExamUserRepository creates a new ExamUserRepository
func NewExamUserRepository(db *pgxpool.Pool) *ExamUserRepository {
	return &ExamUserRepository{db: db}
}

// examUserJoinedColumns are the columns selected for a participant record
// together with its user identity.
var examUserJoinedColumns = []string{
	"eu.id", "eu.exam_id", "eu.user_id",
	"eu.did_check_registration_number", "eu.did_check_image", "eu.did_check_name", "eu.did_check_login",
	"eu.planned_room", "eu.planned_seat", "eu.actual_room", "eu.actual_seat",
	"eu.signing_image_path", "eu.student_image_path",
	"eu.created_at", "eu.updated_at",
	"u.id", "u.login", "u.first_name", "u.last_name", "u.registration_number",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExamUser(row rowScanner) (*models.ExamUser, error) {
	eu := models.ExamUser{User: &models.User{}}
	err := row.Scan(
		&eu.ID, &eu.ExamID, &eu.UserID,
		&eu.DidCheckRegistrationNumber, &eu.DidCheckImage, &eu.DidCheckName, &eu.DidCheckLogin,
		&eu.PlannedRoom, &eu.PlannedSeat, &eu.ActualRoom, &eu.ActualSeat,
		&eu.SigningImagePath, &eu.StudentImagePath,
		&eu.CreatedAt, &eu.UpdatedAt,
		&eu.User.ID, &eu.User.Login, &eu.User.FirstName, &eu.User.LastName, &eu.User.RegistrationNumber,
	)
	if err != nil {
		return nil, err
	}
	return &eu, nil
}

// GetByExamAndUser retrieves a participant record by exam and user ID.
// Returns nil when the user is not registered to the exam.
func (r *ExamUserRepository) GetByExamAndUser(ctx context.Context, examID, userID int64) (*models.ExamUser, error) {
	query := squirrel.Select(examUserJoinedColumns...).
		From("exam_users eu").
		Join("users u ON u.id = eu.user_id").
		Where("eu.exam_id = ?", examID).
		Where("eu.user_id = ?", userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	eu, err := scanExamUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return eu, nil
}

// GetByExamAndLogin retrieves a participant record by exam and login.
// Returns nil when the login is not registered to the exam.
func (r *ExamUserRepository) GetByExamAndLogin(ctx context.Context, examID int64, login string) (*models.ExamUser, error) {
	query := squirrel.Select(examUserJoinedColumns...).
		From("exam_users eu").
		Join("users u ON u.id = eu.user_id").
		Where("eu.exam_id = ?", examID).
		Where("u.login = ?", login).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	eu, err := scanExamUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return eu, nil
}

// GetAllByExam retrieves every participant record of an exam
func (r *ExamUserRepository) GetAllByExam(ctx context.Context, examID int64) ([]models.ExamUser, error) {
	query := squirrel.Select(examUserJoinedColumns...).
		From("exam_users eu").
		Join("users u ON u.id = eu.user_id").
		Where("eu.exam_id = ?", examID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var examUsers []models.ExamUser
	for rows.Next() {
		eu, err := scanExamUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		examUsers = append(examUsers, *eu)
	}

	return examUsers, rows.Err()
}

// ListByExam retrieves a page of participant records with the total count
func (r *ExamUserRepository) ListByExam(ctx context.Context, examID int64, offset uint64, limit int) ([]models.ExamUser, int64, error) {
	columns := append([]string{}, examUserJoinedColumns...)
	columns = append(columns, "COUNT(*) OVER()")

	query := squirrel.Select(columns...).
		From("exam_users eu").
		Join("users u ON u.id = eu.user_id").
		Where("eu.exam_id = ?", examID).
		OrderBy("u.login").
		Limit(uint64(limit)).
		Offset(offset).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var examUsers []models.ExamUser
	var total int64
	for rows.Next() {
		eu := models.ExamUser{User: &models.User{}}
		err := rows.Scan(
			&eu.ID, &eu.ExamID, &eu.UserID,
			&eu.DidCheckRegistrationNumber, &eu.DidCheckImage, &eu.DidCheckName, &eu.DidCheckLogin,
			&eu.PlannedRoom, &eu.PlannedSeat, &eu.ActualRoom, &eu.ActualSeat,
			&eu.SigningImagePath, &eu.StudentImagePath,
			&eu.CreatedAt, &eu.UpdatedAt,
			&eu.User.ID, &eu.User.Login, &eu.User.FirstName, &eu.User.LastName, &eu.User.RegistrationNumber,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		examUsers = append(examUsers, eu)
	}

	return examUsers, total, rows.Err()
}

// lockRow reads the participant row inside the transaction, locking it for
// the duration of the merge. Returns nil when no row exists yet.
func (r *ExamUserRepository) lockRow(ctx context.Context, tx pgx.Tx, examID, userID int64) (*models.ExamUser, error) {
	eu := &models.ExamUser{}
	err := tx.QueryRow(ctx, `
		SELECT id, exam_id, user_id,
		       did_check_registration_number, did_check_image, did_check_name, did_check_login,
		       planned_room, planned_seat, actual_room, actual_seat,
		       signing_image_path, student_image_path, created_at, updated_at
		FROM exam_users
		WHERE exam_id = $1 AND user_id = $2
		FOR UPDATE`,
		examID, userID).Scan(
		&eu.ID, &eu.ExamID, &eu.UserID,
		&eu.DidCheckRegistrationNumber, &eu.DidCheckImage, &eu.DidCheckName, &eu.DidCheckLogin,
		&eu.PlannedRoom, &eu.PlannedSeat, &eu.ActualRoom, &eu.ActualSeat,
		&eu.SigningImagePath, &eu.StudentImagePath, &eu.CreatedAt, &eu.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error locking exam user row: %w", err)
	}
	return eu, nil
}

func (r *ExamUserRepository) writeMerged(ctx context.Context, tx pgx.Tx, eu models.ExamUser) error {
	_, err := tx.Exec(ctx, `
		UPDATE exam_users
		SET did_check_registration_number = $3, did_check_image = $4, did_check_name = $5, did_check_login = $6,
		    planned_room = $7, planned_seat = $8, actual_room = $9, actual_seat = $10,
		    signing_image_path = $11, student_image_path = $12, updated_at = CURRENT_TIMESTAMP
		WHERE exam_id = $1 AND user_id = $2`,
		eu.ExamID, eu.UserID,
		eu.DidCheckRegistrationNumber, eu.DidCheckImage, eu.DidCheckName, eu.DidCheckLogin,
		eu.PlannedRoom, eu.PlannedSeat, eu.ActualRoom, eu.ActualSeat,
		eu.SigningImagePath, eu.StudentImagePath)
	if err != nil {
		return fmt.Errorf("error updating exam user: %w", err)
	}
	return nil
}

// Upsert registers the user to the exam or merges the assignment into the
// existing row. Empty assignment fields leave stored values untouched.
// The whole merge runs in one transaction per row, so re-applying the same
// descriptor always converges to the same state.
func (r *ExamUserRepository) Upsert(ctx context.Context, examID, userID int64, assignment models.Assignment) (*models.ExamUser, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	existing, err := r.lockRow(ctx, tx, examID, userID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		eu := models.ExamUser{ExamID: examID, UserID: userID}.ApplyAssignment(assignment)
		_, err = tx.Exec(ctx, `
			INSERT INTO exam_users (exam_id, user_id,
			                        did_check_registration_number, did_check_image, did_check_name, did_check_login,
			                        planned_room, planned_seat, actual_room, actual_seat)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			examID, userID,
			eu.DidCheckRegistrationNumber, eu.DidCheckImage, eu.DidCheckName, eu.DidCheckLogin,
			eu.PlannedRoom, eu.PlannedSeat, eu.ActualRoom, eu.ActualSeat)
		if err != nil {
			return nil, fmt.Errorf("error inserting exam user: %w", err)
		}
	} else {
		merged := existing.ApplyAssignment(assignment)
		if err := r.writeMerged(ctx, tx, merged); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	return r.GetByExamAndUser(ctx, examID, userID)
}

// CheckIn applies the check-in transition: attaches the signing image and
// marks all four identity checks passed, whatever their prior values.
func (r *ExamUserRepository) CheckIn(ctx context.Context, examID, userID int64, signingImagePath string) (*models.ExamUser, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	existing, err := r.lockRow(ctx, tx, examID, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if err := r.writeMerged(ctx, tx, existing.CheckIn(signingImagePath)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	return r.GetByExamAndUser(ctx, examID, userID)
}

// AttachStudentImage stores the path of a bulk-ingested student image.
// A single-row UPDATE; check flags stay untouched.
func (r *ExamUserRepository) AttachStudentImage(ctx context.Context, examID, userID int64, path string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE exam_users
		SET student_image_path = $3, updated_at = CURRENT_TIMESTAMP
		WHERE exam_id = $1 AND user_id = $2`,
		examID, userID, path)
	if err != nil {
		return fmt.Errorf("error attaching student image: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("no rows affected")
	}
	return nil
}

// Delete removes a participant from the exam and returns the removed row so
// the caller can release the image artifacts it owned.
func (r *ExamUserRepository) Delete(ctx context.Context, examID, userID int64) (*models.ExamUser, error) {
	eu := &models.ExamUser{}
	err := r.db.QueryRow(ctx, `
		DELETE FROM exam_users
		WHERE exam_id = $1 AND user_id = $2
		RETURNING id, exam_id, user_id, signing_image_path, student_image_path`,
		examID, userID).Scan(&eu.ID, &eu.ExamID, &eu.UserID, &eu.SigningImagePath, &eu.StudentImagePath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error deleting exam user: %w", err)
	}
	return eu, nil
}
