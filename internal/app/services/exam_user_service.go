package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/examdesk/examdesk/internal/app/models"
	"github.com/examdesk/examdesk/internal/app/models/dto"
	"github.com/examdesk/examdesk/internal/pkg/apperrors"
	"github.com/examdesk/examdesk/internal/pkg/filestorage"
	"github.com/examdesk/examdesk/internal/pkg/helpers"
	"github.com/examdesk/examdesk/internal/pkg/logger"
	"github.com/examdesk/examdesk/internal/pkg/roster"
)

const (
	signingImageDir = "signing-images"
	studentImageDir = "student-images"
)

// ExamUserService implements the exam attendance workflow: registering
// participants, ingesting roster images, checking participants in and
// deriving the attendance report.
type ExamUserService interface {
	RegisterOrUpdateExamUser(ctx context.Context, courseID, examID int64, req dto.ExamUserDTO, signingImage *multipart.FileHeader) (*dto.ExamUserResponse, error)
	AddExamUsers(ctx context.Context, courseID, examID int64, students []dto.ExamUserDTO) ([]dto.ExamUserDTO, error)
	IngestImages(ctx context.Context, courseID, examID int64, document io.Reader) (*dto.ExamUsersNotFoundResponse, error)
	VerifyAttendance(ctx context.Context, courseID, examID int64) ([]dto.AttendanceCheckDTO, error)
	ListExamUsers(ctx context.Context, courseID, examID int64, page, size int) (*dto.ExamUserListResponse, error)
	DeleteExamUser(ctx context.Context, courseID, examID int64, login string) error
	StartSession(ctx context.Context, courseID, examID, userID int64) error
}

type examUserServiceImpl struct {
	userStore     userStore
	courseStore   courseStore
	examStore     examStore
	examUserStore examUserStore
	sessionStore  sessionStore
	storage       filestorage.FileStorage
	cache         AttendanceCache
}

// NewExamUserService creates a new ExamUserService
func NewExamUserService(
	userStore userStore,
	courseStore courseStore,
	examStore examStore,
	examUserStore examUserStore,
	sessionStore sessionStore,
	storage filestorage.FileStorage,
	cache AttendanceCache,
) ExamUserService {
	return &examUserServiceImpl{
		userStore:     userStore,
		courseStore:   courseStore,
		examStore:     examStore,
		examUserStore: examUserStore,
		sessionStore:  sessionStore,
		storage:       storage,
		cache:         cache,
	}
}

// resolveExam verifies the course exists and the exam belongs to it
func (s *examUserServiceImpl) resolveExam(ctx context.Context, courseID, examID int64) (*models.Exam, error) {
	course, err := s.courseStore.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error looking up course: %w", err)
	}
	if course == nil {
		return nil, apperrors.ErrCourseNotFound
	}

	exam, err := s.examStore.GetByIDForCourse(ctx, courseID, examID)
	if err != nil {
		return nil, fmt.Errorf("error looking up exam: %w", err)
	}
	if exam == nil {
		return nil, apperrors.ErrExamNotFound
	}
	return exam, nil
}

// resolveEnrolledUser maps a login to an account enrolled in the course.
// Returns ErrUserNotFound or ErrUserNotEnrolled when the mapping fails.
func (s *examUserServiceImpl) resolveEnrolledUser(ctx context.Context, courseID int64, login string) (*models.User, error) {
	user, err := s.userStore.GetByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	enrolled, err := s.courseStore.IsEnrolled(ctx, courseID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error checking enrollment: %w", err)
	}
	if !enrolled {
		return nil, apperrors.ErrUserNotEnrolled
	}

	return user, nil
}

// descriptorAssignment maps the mergeable descriptor fields, including the
// manually ticked identity checks, onto the record transition.
func descriptorAssignment(req dto.ExamUserDTO) models.Assignment {
	return models.Assignment{
		PlannedRoom: req.PlannedRoom,
		PlannedSeat: req.PlannedSeat,
		ActualRoom:  req.ActualRoom,
		ActualSeat:  req.ActualSeat,

		DidCheckRegistrationNumber: req.DidCheckRegistrationNumber,
		DidCheckImage:              req.DidCheckImage,
		DidCheckName:               req.DidCheckName,
		DidCheckLogin:              req.DidCheckLogin,
	}
}

// RegisterOrUpdateExamUser registers the login to the exam or merges the
// descriptor into the existing record. When a signing image is attached the
// participant is checked in: all four identity checks are marked passed in
// the same step.
func (s *examUserServiceImpl) RegisterOrUpdateExamUser(ctx context.Context, courseID, examID int64, req dto.ExamUserDTO, signingImage *multipart.FileHeader) (*dto.ExamUserResponse, error) {
	if _, err := s.resolveExam(ctx, courseID, examID); err != nil {
		return nil, err
	}

	user, err := s.resolveEnrolledUser(ctx, courseID, req.Login)
	if err != nil {
		return nil, err
	}

	examUser, err := s.examUserStore.Upsert(ctx, examID, user.ID, descriptorAssignment(req))
	if err != nil {
		return nil, fmt.Errorf("error registering exam user: %w", err)
	}

	signingImagePath := req.SigningImagePath
	if signingImage != nil {
		signingImagePath, err = s.storage.SaveFileWithPath(signingImage, signingImageDir)
		if err != nil {
			return nil, fmt.Errorf("error storing signing image: %w", err)
		}
	}

	if signingImagePath != "" {
		examUser, err = s.examUserStore.CheckIn(ctx, examID, user.ID, signingImagePath)
		if err != nil {
			return nil, fmt.Errorf("error checking in exam user: %w", err)
		}
		if examUser == nil {
			// Row removed between the registration and the check-in lock
			return nil, apperrors.ErrExamUserNotFound
		}
		s.cache.Invalidate(ctx, examID)
	}

	response := toExamUserResponse(*examUser)
	return &response, nil
}

// AddExamUsers registers a batch of participants and returns the descriptors
// that could not be mapped to an enrolled account. An unresolvable descriptor
// never blocks the rest of the batch.
func (s *examUserServiceImpl) AddExamUsers(ctx context.Context, courseID, examID int64, students []dto.ExamUserDTO) ([]dto.ExamUserDTO, error) {
	if len(students) == 0 {
		return nil, apperrors.ErrEmptyBatch
	}

	if _, err := s.resolveExam(ctx, courseID, examID); err != nil {
		return nil, err
	}

	notFound := make([]dto.ExamUserDTO, 0)
	for _, student := range students {
		user, err := s.resolveEnrolledUser(ctx, courseID, student.Login)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) || errors.Is(err, apperrors.ErrUserNotEnrolled) {
				notFound = append(notFound, student)
				continue
			}
			return nil, err
		}

		_, err = s.examUserStore.Upsert(ctx, examID, user.ID, descriptorAssignment(student))
		if err != nil {
			return nil, fmt.Errorf("error registering exam user %s: %w", student.Login, err)
		}
	}

	logger.Info().Int64("examId", examID).Int("requested", len(students)).Int("notFound", len(notFound)).Msg("Bulk participant registration finished")
	return notFound, nil
}

// IngestImages decodes an uploaded roster document, matches its entries to
// registered participants by registration number and attaches the extracted
// student images. A decode failure or an ambiguous registration number fails
// the whole ingestion; unmatched entries are only counted.
func (s *examUserServiceImpl) IngestImages(ctx context.Context, courseID, examID int64, document io.Reader) (*dto.ExamUsersNotFoundResponse, error) {
	if _, err := s.resolveExam(ctx, courseID, examID); err != nil {
		return nil, err
	}

	entries, err := roster.Decode(document)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrRosterParse, err.Error())
	}

	examUsers, err := s.examUserStore.GetAllByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("error loading exam users: %w", err)
	}

	candidates := make([]roster.Candidate, 0, len(examUsers))
	byExamUserID := make(map[int64]models.ExamUser, len(examUsers))
	for _, eu := range examUsers {
		candidates = append(candidates, roster.Candidate{
			ExamUserID:         eu.ID,
			Login:              eu.User.Login,
			RegistrationNumber: eu.User.RegistrationNumber,
		})
		byExamUserID[eu.ID] = eu
	}

	result, err := roster.MatchEntries(candidates, entries)
	if err != nil {
		var ambiguity *roster.AmbiguityError
		if errors.As(err, &ambiguity) {
			return nil, apperrors.NewCustomError(apperrors.ErrAmbiguousRegistrationNumber, ambiguity.Error()).
				WithDetails(map[string]interface{}{"registrationNumber": ambiguity.RegistrationNumber})
		}
		return nil, fmt.Errorf("error matching roster entries: %w", err)
	}

	for _, match := range result.Matches {
		path, err := s.storage.SaveBytes(match.Entry.Image, studentImageDir, match.Entry.ImageExt)
		if err != nil {
			return nil, fmt.Errorf("error storing student image: %w", err)
		}

		eu := byExamUserID[match.Candidate.ExamUserID]
		if err := s.examUserStore.AttachStudentImage(ctx, examID, eu.UserID, path); err != nil {
			return nil, fmt.Errorf("error attaching student image for %s: %w", match.Candidate.Login, err)
		}

		// A re-run replaces the stored image; release the superseded artifact
		if eu.StudentImagePath != "" && eu.StudentImagePath != path {
			if err := s.storage.DeleteFile(eu.StudentImagePath); err != nil {
				logger.Warn().Err(err).Str("path", eu.StudentImagePath).Msg("Failed to remove replaced student image")
			}
		}
	}

	logger.Info().Int64("examId", examID).Int("matched", len(result.Matches)).Int("notFound", len(result.NotFound)).Msg("Roster image ingestion finished")
	return &dto.ExamUsersNotFoundResponse{NumberOfUsersNotFound: len(result.NotFound)}, nil
}

// VerifyAttendance derives the report of participants who started working on
// the exam without a signing artifact on file. The report is recomputed on
// every call, with a short-lived cache in front of the scan.
func (s *examUserServiceImpl) VerifyAttendance(ctx context.Context, courseID, examID int64) ([]dto.AttendanceCheckDTO, error) {
	if _, err := s.resolveExam(ctx, courseID, examID); err != nil {
		return nil, err
	}

	if report, ok := s.cache.Get(ctx, examID); ok {
		return report, nil
	}

	examUsers, err := s.examUserStore.GetAllByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("error loading exam users: %w", err)
	}

	started, err := s.sessionStore.StartedUserIDs(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("error loading exam sessions: %w", err)
	}

	report := make([]dto.AttendanceCheckDTO, 0)
	for _, eu := range examUsers {
		if !started[eu.UserID] || eu.Signed() {
			continue
		}
		report = append(report, dto.AttendanceCheckDTO{
			Login:              eu.User.Login,
			RegistrationNumber: eu.User.RegistrationNumber,
			Started:            true,
			Signed:             false,
		})
	}

	s.cache.Set(ctx, examID, report)
	return report, nil
}

// ListExamUsers returns a page of the exam's participant records
func (s *examUserServiceImpl) ListExamUsers(ctx context.Context, courseID, examID int64, page, size int) (*dto.ExamUserListResponse, error) {
	if _, err := s.resolveExam(ctx, courseID, examID); err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	examUsers, total, err := s.examUserStore.ListByExam(ctx, examID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing exam users: %w", err)
	}

	responses := make([]dto.ExamUserResponse, 0, len(examUsers))
	for _, eu := range examUsers {
		responses = append(responses, toExamUserResponse(eu))
	}

	return &dto.ExamUserListResponse{
		ExamUsers:      responses,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// DeleteExamUser removes a participant from the exam and releases the image
// artifacts the record owned
func (s *examUserServiceImpl) DeleteExamUser(ctx context.Context, courseID, examID int64, login string) error {
	if _, err := s.resolveExam(ctx, courseID, examID); err != nil {
		return err
	}

	examUser, err := s.examUserStore.GetByExamAndLogin(ctx, examID, login)
	if err != nil {
		return fmt.Errorf("error looking up exam user: %w", err)
	}
	if examUser == nil {
		return apperrors.ErrExamUserNotFound
	}

	removed, err := s.examUserStore.Delete(ctx, examID, examUser.UserID)
	if err != nil {
		return fmt.Errorf("error deleting exam user: %w", err)
	}

	if removed != nil {
		for _, path := range []string{removed.SigningImagePath, removed.StudentImagePath} {
			if path == "" {
				continue
			}
			if err := s.storage.DeleteFile(path); err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("Failed to remove image artifact")
			}
		}
	}

	s.cache.Invalidate(ctx, examID)
	return nil
}

// StartSession marks the calling participant's exam session started.
// Starting is one-way; a repeated call is a no-op.
func (s *examUserServiceImpl) StartSession(ctx context.Context, courseID, examID, userID int64) error {
	if _, err := s.resolveExam(ctx, courseID, examID); err != nil {
		return err
	}

	examUser, err := s.examUserStore.GetByExamAndUser(ctx, examID, userID)
	if err != nil {
		return fmt.Errorf("error looking up exam user: %w", err)
	}
	if examUser == nil {
		return apperrors.ErrExamUserNotFound
	}

	session, err := s.sessionStore.GetByExamAndUser(ctx, examID, userID)
	if err != nil {
		return fmt.Errorf("error looking up exam session: %w", err)
	}
	if session != nil && session.Started {
		return nil
	}

	if err := s.sessionStore.Start(ctx, examID, userID); err != nil {
		return fmt.Errorf("error starting exam session: %w", err)
	}

	s.cache.Invalidate(ctx, examID)
	return nil
}

func toExamUserResponse(eu models.ExamUser) dto.ExamUserResponse {
	response := dto.ExamUserResponse{
		ID:                         eu.ID,
		ExamID:                     eu.ExamID,
		DidCheckRegistrationNumber: eu.DidCheckRegistrationNumber,
		DidCheckImage:              eu.DidCheckImage,
		DidCheckName:               eu.DidCheckName,
		DidCheckLogin:              eu.DidCheckLogin,
		PlannedRoom:                eu.PlannedRoom,
		PlannedSeat:                eu.PlannedSeat,
		ActualRoom:                 eu.ActualRoom,
		ActualSeat:                 eu.ActualSeat,
		SigningImagePath:           eu.SigningImagePath,
		StudentImagePath:           eu.StudentImagePath,
	}
	if eu.User != nil {
		response.Login = eu.User.Login
		response.FirstName = eu.User.FirstName
		response.LastName = eu.User.LastName
		response.RegistrationNumber = eu.User.RegistrationNumber
	}
	return response
}
