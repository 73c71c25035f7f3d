package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/examdesk/examdesk/internal/app/models"
	appRepos "github.com/examdesk/examdesk/internal/app/repositories"
	"github.com/examdesk/examdesk/internal/pkg/apperrors"
	"github.com/examdesk/examdesk/internal/pkg/auth"
)

const demoCourseShortName = "DEMO"

// CreateDefaultData provisions a demo course with an instructor and a few
// enrolled students so a fresh installation is usable right away. Existing
// data is left alone.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	courseRepo := appRepos.NewCourseRepository(dbPool)
	examRepo := appRepos.NewExamRepository(dbPool)

	course, err := courseRepo.GetByShortName(ctx, demoCourseShortName)
	if err != nil {
		return fmt.Errorf("error checking demo course: %w", err)
	}
	if course != nil {
		lgr.Debug().Msg("Demo course already present, skipping default data")
		return nil
	}

	lgr.Info().Msg("Creating default demo data...")

	courseID, err := courseRepo.Create(ctx, &appModels.Course{
		Title:     "Demo Course",
		ShortName: demoCourseShortName,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil
		}
		return fmt.Errorf("error creating demo course: %w", err)
	}

	if _, err := createAccount(ctx, userRepo, &appModels.User{
		Login:     "instructor1",
		FirstName: "Ida",
		LastName:  "Instructor",
		RoleType:  appModels.RoleInstructor,
		IsActive:  true,
	}, "Instructor123!"); err != nil {
		return err
	}

	students := []appModels.User{
		{Login: "student1", FirstName: "Sven", LastName: "Student", RegistrationNumber: "03756882"},
		{Login: "student2", FirstName: "Sara", LastName: "Student", RegistrationNumber: "03756883"},
		{Login: "student3", FirstName: "Selim", LastName: "Student", RegistrationNumber: "03756884"},
		{Login: "student4", FirstName: "Selda", LastName: "Student", RegistrationNumber: "03756885"},
	}
	for i := range students {
		students[i].RoleType = appModels.RoleStudent
		students[i].IsActive = true
		studentID, err := createAccount(ctx, userRepo, &students[i], "Student123!")
		if err != nil {
			return err
		}
		if err := courseRepo.Enroll(ctx, courseID, studentID); err != nil {
			return fmt.Errorf("error enrolling %s: %w", students[i].Login, err)
		}
	}

	examID, err := examRepo.Create(ctx, &appModels.Exam{
		CourseID: courseID,
		Title:    "Demo Final Exam",
	})
	if err != nil {
		return fmt.Errorf("error creating demo exam: %w", err)
	}

	lgr.Info().Int64("courseId", courseID).Int64("examId", examID).Msg("Default demo data created")
	return nil
}

// createAccount stores a user with a hashed password. A login conflict from
// a concurrent bootstrap is tolerated.
func createAccount(ctx context.Context, userRepo *appRepos.UserRepository, user *appModels.User, password string) (int64, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("error hashing password for %s: %w", user.Login, err)
	}
	user.Password = hashed

	id, err := userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			existing, errGet := userRepo.GetByLogin(ctx, user.Login)
			if errGet != nil || existing == nil {
				return 0, fmt.Errorf("error resolving existing account %s: %w", user.Login, err)
			}
			return existing.ID, nil
		}
		return 0, fmt.Errorf("error creating account %s: %w", user.Login, err)
	}
	return id, nil
}
