package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository               *UserRepository
	CourseRepository             *CourseRepository
	ExamRepository               *ExamRepository
	ExamUserRepository           *ExamUserRepository
	StudentExamSessionRepository *StudentExamSessionRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:               NewUserRepository(db),
		CourseRepository:             NewCourseRepository(db),
		ExamRepository:               NewExamRepository(db),
		ExamUserRepository:           NewExamUserRepository(db),
		StudentExamSessionRepository: NewStudentExamSessionRepository(db),
	}
}
