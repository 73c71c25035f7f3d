package services

import (
	"context"

	"github.com/examdesk/examdesk/internal/app/models"
)

// The services depend on narrow store interfaces instead of the concrete
// repository types. The repositories package satisfies them; tests swap in
// in-memory implementations.

type userStore interface {
	GetByLogin(ctx context.Context, login string) (*models.User, error)
}

type courseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	IsEnrolled(ctx context.Context, courseID, userID int64) (bool, error)
}

type examStore interface {
	GetByIDForCourse(ctx context.Context, courseID, examID int64) (*models.Exam, error)
}

type examUserStore interface {
	GetByExamAndUser(ctx context.Context, examID, userID int64) (*models.ExamUser, error)
	GetByExamAndLogin(ctx context.Context, examID int64, login string) (*models.ExamUser, error)
	GetAllByExam(ctx context.Context, examID int64) ([]models.ExamUser, error)
	ListByExam(ctx context.Context, examID int64, offset uint64, limit int) ([]models.ExamUser, int64, error)
	Upsert(ctx context.Context, examID, userID int64, assignment models.Assignment) (*models.ExamUser, error)
	CheckIn(ctx context.Context, examID, userID int64, signingImagePath string) (*models.ExamUser, error)
	AttachStudentImage(ctx context.Context, examID, userID int64, path string) error
	Delete(ctx context.Context, examID, userID int64) (*models.ExamUser, error)
}

type sessionStore interface {
	Start(ctx context.Context, examID, userID int64) error
	StartedUserIDs(ctx context.Context, examID int64) (map[int64]bool, error)
	GetByExamAndUser(ctx context.Context, examID, userID int64) (*models.StudentExamSession, error)
}
