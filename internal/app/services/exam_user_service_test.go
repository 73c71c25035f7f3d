package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/examdesk/examdesk/internal/app/models"
	"github.com/examdesk/examdesk/internal/app/models/dto"
	"github.com/examdesk/examdesk/internal/pkg/apperrors"
)

// fixture is the shared in-memory state behind the fake stores
type fixture struct {
	users     map[string]*models.User // by login
	enrolled  map[int64]bool          // by user ID
	exams     map[int64]*models.Exam
	examUsers map[int64]*models.ExamUser // by user ID
	started   map[int64]bool

	nextExamUserID int64
	startCalls     int
	savedFiles     []string
	deletedFiles   []string
}

type fakeUserStore struct{ f *fixture }

func (s *fakeUserStore) GetByLogin(_ context.Context, login string) (*models.User, error) {
	return s.f.users[login], nil
}

type fakeCourseStore struct{ f *fixture }

func (s *fakeCourseStore) GetByID(_ context.Context, id int64) (*models.Course, error) {
	return &models.Course{ID: id}, nil
}

func (s *fakeCourseStore) IsEnrolled(_ context.Context, _, userID int64) (bool, error) {
	return s.f.enrolled[userID], nil
}

type fakeExamStore struct{ f *fixture }

func (s *fakeExamStore) GetByIDForCourse(_ context.Context, courseID, examID int64) (*models.Exam, error) {
	exam := s.f.exams[examID]
	if exam == nil || exam.CourseID != courseID {
		return nil, nil
	}
	return exam, nil
}

type fakeExamUserStore struct{ f *fixture }

func (s *fakeExamUserStore) withUser(eu *models.ExamUser) *models.ExamUser {
	if eu == nil {
		return nil
	}
	copied := *eu
	for _, u := range s.f.users {
		if u.ID == eu.UserID {
			copied.User = u
		}
	}
	return &copied
}

func (s *fakeExamUserStore) GetByExamAndUser(_ context.Context, _, userID int64) (*models.ExamUser, error) {
	return s.withUser(s.f.examUsers[userID]), nil
}

func (s *fakeExamUserStore) GetByExamAndLogin(_ context.Context, _ int64, login string) (*models.ExamUser, error) {
	user := s.f.users[login]
	if user == nil {
		return nil, nil
	}
	return s.withUser(s.f.examUsers[user.ID]), nil
}

func (s *fakeExamUserStore) GetAllByExam(_ context.Context, _ int64) ([]models.ExamUser, error) {
	var all []models.ExamUser
	for _, eu := range s.f.examUsers {
		all = append(all, *s.withUser(eu))
	}
	return all, nil
}

func (s *fakeExamUserStore) ListByExam(_ context.Context, examID int64, _ uint64, _ int) ([]models.ExamUser, int64, error) {
	all, _ := s.GetAllByExam(context.Background(), examID)
	return all, int64(len(all)), nil
}

func (s *fakeExamUserStore) Upsert(_ context.Context, examID, userID int64, assignment models.Assignment) (*models.ExamUser, error) {
	existing := s.f.examUsers[userID]
	if existing == nil {
		s.f.nextExamUserID++
		existing = &models.ExamUser{ID: s.f.nextExamUserID, ExamID: examID, UserID: userID}
	}
	merged := existing.ApplyAssignment(assignment)
	s.f.examUsers[userID] = &merged
	return s.withUser(&merged), nil
}

func (s *fakeExamUserStore) CheckIn(_ context.Context, _, userID int64, signingImagePath string) (*models.ExamUser, error) {
	existing := s.f.examUsers[userID]
	if existing == nil {
		return nil, nil
	}
	checked := existing.CheckIn(signingImagePath)
	s.f.examUsers[userID] = &checked
	return s.withUser(&checked), nil
}

func (s *fakeExamUserStore) AttachStudentImage(_ context.Context, _, userID int64, path string) error {
	existing := s.f.examUsers[userID]
	if existing == nil {
		return fmt.Errorf("no rows affected")
	}
	updated := existing.WithStudentImage(path)
	s.f.examUsers[userID] = &updated
	return nil
}

func (s *fakeExamUserStore) Delete(_ context.Context, _, userID int64) (*models.ExamUser, error) {
	existing := s.f.examUsers[userID]
	if existing == nil {
		return nil, nil
	}
	delete(s.f.examUsers, userID)
	return existing, nil
}

type fakeSessionStore struct{ f *fixture }

func (s *fakeSessionStore) Start(_ context.Context, _, userID int64) error {
	s.f.startCalls++
	s.f.started[userID] = true
	return nil
}

func (s *fakeSessionStore) GetByExamAndUser(_ context.Context, examID, userID int64) (*models.StudentExamSession, error) {
	if !s.f.started[userID] {
		return nil, nil
	}
	return &models.StudentExamSession{ExamID: examID, UserID: userID, Started: true}, nil
}

func (s *fakeSessionStore) StartedUserIDs(_ context.Context, _ int64) (map[int64]bool, error) {
	started := make(map[int64]bool, len(s.f.started))
	for id, ok := range s.f.started {
		started[id] = ok
	}
	return started, nil
}

type fakeStorage struct{ f *fixture }

func (s *fakeStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return s.SaveFileWithPath(fileHeader, "uploads")
}

func (s *fakeStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error) {
	saved := fmt.Sprintf("%s/%s", path, fileHeader.Filename)
	s.f.savedFiles = append(s.f.savedFiles, saved)
	return saved, nil
}

func (s *fakeStorage) SaveBytes(_ []byte, subPath, ext string) (string, error) {
	saved := fmt.Sprintf("%s/image-%d%s", subPath, len(s.f.savedFiles), ext)
	s.f.savedFiles = append(s.f.savedFiles, saved)
	return saved, nil
}

func (s *fakeStorage) DeleteFile(filePath string) error {
	s.f.deletedFiles = append(s.f.deletedFiles, filePath)
	return nil
}

func (s *fakeStorage) GetFullPath(fileURL string) string { return fileURL }

type noopCache struct{}

func (noopCache) Get(context.Context, int64) ([]dto.AttendanceCheckDTO, bool) { return nil, false }
func (noopCache) Set(context.Context, int64, []dto.AttendanceCheckDTO)       {}
func (noopCache) Invalidate(context.Context, int64)                          {}

const (
	testCourseID = int64(1)
	testExamID   = int64(10)
)

func newFixture() *fixture {
	f := &fixture{
		users:     make(map[string]*models.User),
		enrolled:  make(map[int64]bool),
		exams:     map[int64]*models.Exam{testExamID: {ID: testExamID, CourseID: testCourseID, Title: "Final Exam"}},
		examUsers: make(map[int64]*models.ExamUser),
		started:   make(map[int64]bool),
	}

	registrationNumbers := []string{"03756882", "03756883", "03756884", "03756885"}
	for i, regNum := range registrationNumbers {
		id := int64(i + 1)
		login := fmt.Sprintf("student%d", i+1)
		f.users[login] = &models.User{
			ID:                 id,
			Login:              login,
			FirstName:          fmt.Sprintf("First%d", i+1),
			LastName:           fmt.Sprintf("Last%d", i+1),
			RegistrationNumber: regNum,
			RoleType:           models.RoleStudent,
			IsActive:           true,
		}
		f.enrolled[id] = true
	}

	return f
}

func newService(f *fixture) ExamUserService {
	return NewExamUserService(
		&fakeUserStore{f},
		&fakeCourseStore{f},
		&fakeExamStore{f},
		&fakeExamUserStore{f},
		&fakeSessionStore{f},
		&fakeStorage{f},
		noopCache{},
	)
}

func registerAll(t *testing.T, svc ExamUserService, f *fixture) {
	t.Helper()
	for login := range f.users {
		_, err := svc.RegisterOrUpdateExamUser(context.Background(), testCourseID, testExamID, dto.ExamUserDTO{Login: login}, nil)
		if err != nil {
			t.Fatalf("RegisterOrUpdateExamUser(%s): %v", login, err)
		}
	}
}

func TestRegisterOrUpdateExamUserMergesAssignment(t *testing.T) {
	f := newFixture()
	svc := newService(f)
	ctx := context.Background()

	first, err := svc.RegisterOrUpdateExamUser(ctx, testCourseID, testExamID, dto.ExamUserDTO{
		Login: "student1", PlannedRoom: "HS1", PlannedSeat: "A17",
	}, nil)
	if err != nil {
		t.Fatalf("RegisterOrUpdateExamUser: %v", err)
	}
	if first.PlannedRoom != "HS1" || first.PlannedSeat != "A17" {
		t.Fatalf("planned assignment not stored: %+v", first)
	}

	second, err := svc.RegisterOrUpdateExamUser(ctx, testCourseID, testExamID, dto.ExamUserDTO{
		Login: "student1", ActualRoom: "HS2",
	}, nil)
	if err != nil {
		t.Fatalf("RegisterOrUpdateExamUser (update): %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("re-registration created a new record: %d != %d", second.ID, first.ID)
	}
	if second.PlannedRoom != "HS1" || second.PlannedSeat != "A17" {
		t.Errorf("unspecified fields were cleared: %+v", second)
	}
	if second.ActualRoom != "HS2" {
		t.Errorf("actual room not merged: %+v", second)
	}
	if second.RegistrationNumber != "03756882" {
		t.Errorf("user identity not attached: %+v", second)
	}
}

func TestRegisterOrUpdateExamUserAppliesCheckFlags(t *testing.T) {
	f := newFixture()
	svc := newService(f)
	ctx := context.Background()

	// Manually ticked identity checks are stored even without a signing image
	first, err := svc.RegisterOrUpdateExamUser(ctx, testCourseID, testExamID, dto.ExamUserDTO{
		Login:                      "student1",
		DidCheckRegistrationNumber: true,
		DidCheckImage:              true,
		DidCheckName:               true,
		DidCheckLogin:              true,
	}, nil)
	if err != nil {
		t.Fatalf("RegisterOrUpdateExamUser: %v", err)
	}
	if !first.DidCheckRegistrationNumber || !first.DidCheckImage || !first.DidCheckName || !first.DidCheckLogin {
		t.Fatalf("ticked checks not stored: %+v", first)
	}
	if first.SigningImagePath != "" {
		t.Errorf("no signing image was attached: %+v", first)
	}

	// A later descriptor with unticked checks leaves the passed ones alone
	second, err := svc.RegisterOrUpdateExamUser(ctx, testCourseID, testExamID, dto.ExamUserDTO{
		Login: "student1", PlannedRoom: "HS1",
	}, nil)
	if err != nil {
		t.Fatalf("RegisterOrUpdateExamUser (update): %v", err)
	}
	if !second.DidCheckRegistrationNumber || !second.DidCheckImage || !second.DidCheckName || !second.DidCheckLogin {
		t.Errorf("unticked checks revoked passed ones: %+v", second)
	}
}

func TestRegisterOrUpdateExamUserErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.ExamUserDTO
		wantErr error
	}{
		{"unknown login", dto.ExamUserDTO{Login: "ghost"}, apperrors.ErrUserNotFound},
		{"not enrolled", dto.ExamUserDTO{Login: "outsider"}, apperrors.ErrUserNotEnrolled},
	}

	f := newFixture()
	f.users["outsider"] = &models.User{ID: 99, Login: "outsider", RoleType: models.RoleStudent, IsActive: true}
	svc := newService(f)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterOrUpdateExamUser(context.Background(), testCourseID, testExamID, tt.req, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterOrUpdateExamUserUnknownExam(t *testing.T) {
	f := newFixture()
	svc := newService(f)

	_, err := svc.RegisterOrUpdateExamUser(context.Background(), testCourseID, 777, dto.ExamUserDTO{Login: "student1"}, nil)
	if !errors.Is(err, apperrors.ErrExamNotFound) {
		t.Errorf("got %v, want ErrExamNotFound", err)
	}
}

func TestSigningImageChecksInParticipant(t *testing.T) {
	f := newFixture()
	svc := newService(f)
	ctx := context.Background()

	checked, err := svc.RegisterOrUpdateExamUser(ctx, testCourseID, testExamID, dto.ExamUserDTO{
		Login:            "student1",
		SigningImagePath: "signing-images/sig1.png",
	}, nil)
	if err != nil {
		t.Fatalf("RegisterOrUpdateExamUser: %v", err)
	}

	if checked.SigningImagePath != "signing-images/sig1.png" {
		t.Errorf("signing image path not attached: %+v", checked)
	}
	if !checked.DidCheckRegistrationNumber || !checked.DidCheckImage || !checked.DidCheckName || !checked.DidCheckLogin {
		t.Errorf("check-in must pass all four identity checks: %+v", checked)
	}
}

// vanishingExamUserStore drops the row again before the check-in runs,
// standing in for a concurrent delete between the two writes.
type vanishingExamUserStore struct{ *fakeExamUserStore }

func (s *vanishingExamUserStore) CheckIn(ctx context.Context, examID, userID int64, signingImagePath string) (*models.ExamUser, error) {
	delete(s.f.examUsers, userID)
	return s.fakeExamUserStore.CheckIn(ctx, examID, userID, signingImagePath)
}

func TestSigningImageCheckInWithConcurrentRemoval(t *testing.T) {
	f := newFixture()
	svc := NewExamUserService(
		&fakeUserStore{f},
		&fakeCourseStore{f},
		&fakeExamStore{f},
		&vanishingExamUserStore{&fakeExamUserStore{f}},
		&fakeSessionStore{f},
		&fakeStorage{f},
		noopCache{},
	)

	_, err := svc.RegisterOrUpdateExamUser(context.Background(), testCourseID, testExamID, dto.ExamUserDTO{
		Login: "student1", SigningImagePath: "signing-images/sig1.png",
	}, nil)
	if !errors.Is(err, apperrors.ErrExamUserNotFound) {
		t.Errorf("got %v, want ErrExamUserNotFound", err)
	}
}

func TestAddExamUsersReturnsUnmatchedDescriptors(t *testing.T) {
	f := newFixture()
	svc := newService(f)

	students := []dto.ExamUserDTO{
		{Login: "student1"},
		{Login: "student2"},
		{Login: "nosuchstudent"},
	}

	notFound, err := svc.AddExamUsers(context.Background(), testCourseID, testExamID, students)
	if err != nil {
		t.Fatalf("AddExamUsers: %v", err)
	}

	if len(notFound) != 1 || notFound[0].Login != "nosuchstudent" {
		t.Errorf("unexpected not-found subset: %+v", notFound)
	}
	if len(f.examUsers) != 2 {
		t.Errorf("resolvable descriptors must still register, got %d records", len(f.examUsers))
	}
}

func TestAddExamUsersEmptyBatch(t *testing.T) {
	f := newFixture()
	svc := newService(f)

	_, err := svc.AddExamUsers(context.Background(), testCourseID, testExamID, nil)
	if !errors.Is(err, apperrors.ErrEmptyBatch) {
		t.Errorf("got %v, want ErrEmptyBatch", err)
	}
	if len(f.examUsers) != 0 {
		t.Errorf("empty batch must not register anyone")
	}
}

// buildRosterDocument assembles a workbook with one registration number and
// embedded picture per row
func buildRosterDocument(t *testing.T, registrationNumbers []string) *bytes.Reader {
	t.Helper()

	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("encoding picture: %v", err)
	}

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	_ = wb.SetCellValue(sheet, "A1", "Registration Number")
	_ = wb.SetCellValue(sheet, "B1", "Image")
	for i, regNum := range registrationNumbers {
		cell, _ := excelize.JoinCellName("A", i+2)
		_ = wb.SetCellValue(sheet, cell, regNum)
		pictureCell, _ := excelize.JoinCellName("B", i+2)
		if err := wb.AddPictureFromBytes(sheet, pictureCell, &excelize.Picture{
			Extension: ".png",
			File:      img.Bytes(),
		}); err != nil {
			t.Fatalf("adding picture: %v", err)
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("writing workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestIngestImagesAttachesStudentImages(t *testing.T) {
	f := newFixture()
	svc := newService(f)
	ctx := context.Background()
	registerAll(t, svc, f)

	doc := buildRosterDocument(t, []string{"03756882", "03756883", "99999999"})

	result, err := svc.IngestImages(ctx, testCourseID, testExamID, doc)
	if err != nil {
		t.Fatalf("IngestImages: %v", err)
	}
	if result.NumberOfUsersNotFound != 1 {
		t.Errorf("NumberOfUsersNotFound = %d, want 1", result.NumberOfUsersNotFound)
	}

	for _, login := range []string{"student1", "student2"} {
		eu := f.examUsers[f.users[login].ID]
		if eu.StudentImagePath == "" {
			t.Errorf("%s: student image not attached", login)
		}
		if eu.DidCheckImage || eu.DidCheckName {
			t.Errorf("%s: ingestion must not pass identity checks: %+v", login, eu)
		}
	}
	if eu := f.examUsers[f.users["student3"].ID]; eu.StudentImagePath != "" {
		t.Errorf("student3 was not on the roster but got an image: %+v", eu)
	}
}

func TestIngestImagesReleasesReplacedImage(t *testing.T) {
	f := newFixture()
	svc := newService(f)
	ctx := context.Background()
	registerAll(t, svc, f)

	if _, err := svc.IngestImages(ctx, testCourseID, testExamID, buildRosterDocument(t, []string{"03756882"})); err != nil {
		t.Fatalf("IngestImages: %v", err)
	}
	firstPath := f.examUsers[f.users["student1"].ID].StudentImagePath
	if firstPath == "" {
		t.Fatalf("student image not attached")
	}

	if _, err := svc.IngestImages(ctx, testCourseID, testExamID, buildRosterDocument(t, []string{"03756882"})); err != nil {
		t.Fatalf("IngestImages (re-run): %v", err)
	}

	secondPath := f.examUsers[f.users["student1"].ID].StudentImagePath
	if secondPath == firstPath {
		t.Fatalf("re-run did not replace the image: %q", secondPath)
	}
	released := false
	for _, path := range f.deletedFiles {
		if path == firstPath {
			released = true
		}
	}
	if !released {
		t.Errorf("replaced image %q not released, deleted: %+v", firstPath, f.deletedFiles)
	}
}

func TestIngestImagesMalformedDocument(t *testing.T) {
	f := newFixture()
	svc := newService(f)
	registerAll(t, svc, f)

	_, err := svc.IngestImages(context.Background(), testCourseID, testExamID, bytes.NewReader([]byte("not a workbook")))
	if !errors.Is(err, apperrors.ErrRosterParse) {
		t.Errorf("got %v, want ErrRosterParse", err)
	}
	for _, eu := range f.examUsers {
		if eu.StudentImagePath != "" {
			t.Errorf("failed ingestion must not attach images: %+v", eu)
		}
	}
}

func TestIngestImagesAmbiguousRegistrationNumber(t *testing.T) {
	f := newFixture()
	f.users["student2"].RegistrationNumber = "03756882" // same as student1
	svc := newService(f)
	registerAll(t, svc, f)

	_, err := svc.IngestImages(context.Background(), testCourseID, testExamID, buildRosterDocument(t, []string{"03756882"}))
	if !errors.Is(err, apperrors.ErrAmbiguousRegistrationNumber) {
		t.Errorf("got %v, want ErrAmbiguousRegistrationNumber", err)
	}
}

func TestVerifyAttendanceReportsStartedUnsigned(t *testing.T) {
	f := newFixture()
	svc := newService(f)
	ctx := context.Background()
	registerAll(t, svc, f)

	// students 1-3 start working, student4 never shows up
	for _, login := range []string{"student1", "student2", "student3"} {
		if err := svc.StartSession(ctx, testCourseID, testExamID, f.users[login].ID); err != nil {
			t.Fatalf("StartSession(%s): %v", login, err)
		}
	}

	// student1 signs the attendance sheet
	_, err := svc.RegisterOrUpdateExamUser(ctx, testCourseID, testExamID, dto.ExamUserDTO{
		Login: "student1", SigningImagePath: "signing-images/sig1.png",
	}, nil)
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}

	report, err := svc.VerifyAttendance(ctx, testCourseID, testExamID)
	if err != nil {
		t.Fatalf("VerifyAttendance: %v", err)
	}

	if len(report) != 2 {
		t.Fatalf("report has %d rows, want 2: %+v", len(report), report)
	}
	flagged := make(map[string]bool)
	for _, row := range report {
		flagged[row.Login] = true
		if !row.Started || row.Signed {
			t.Errorf("report row must be started and unsigned: %+v", row)
		}
	}
	if !flagged["student2"] || !flagged["student3"] {
		t.Errorf("wrong participants flagged: %+v", report)
	}
}

func TestVerifyAttendanceEmptyWhenNobodyStarted(t *testing.T) {
	f := newFixture()
	svc := newService(f)
	registerAll(t, svc, f)

	report, err := svc.VerifyAttendance(context.Background(), testCourseID, testExamID)
	if err != nil {
		t.Fatalf("VerifyAttendance: %v", err)
	}
	if len(report) != 0 {
		t.Errorf("nobody started, report should be empty: %+v", report)
	}
}

func TestDeleteExamUserReleasesImages(t *testing.T) {
	f := newFixture()
	svc := newService(f)
	ctx := context.Background()

	_, err := svc.RegisterOrUpdateExamUser(ctx, testCourseID, testExamID, dto.ExamUserDTO{
		Login: "student1", SigningImagePath: "signing-images/sig1.png",
	}, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.DeleteExamUser(ctx, testCourseID, testExamID, "student1"); err != nil {
		t.Fatalf("DeleteExamUser: %v", err)
	}

	if len(f.examUsers) != 0 {
		t.Errorf("record not removed")
	}
	if len(f.deletedFiles) != 1 || f.deletedFiles[0] != "signing-images/sig1.png" {
		t.Errorf("signing image not released: %+v", f.deletedFiles)
	}

	if err := svc.DeleteExamUser(ctx, testCourseID, testExamID, "student1"); !errors.Is(err, apperrors.ErrExamUserNotFound) {
		t.Errorf("second delete: got %v, want ErrExamUserNotFound", err)
	}
}

func TestStartSessionRequiresRegistration(t *testing.T) {
	f := newFixture()
	svc := newService(f)

	err := svc.StartSession(context.Background(), testCourseID, testExamID, f.users["student1"].ID)
	if !errors.Is(err, apperrors.ErrExamUserNotFound) {
		t.Errorf("got %v, want ErrExamUserNotFound", err)
	}
}

func TestStartSessionRepeatIsNoOp(t *testing.T) {
	f := newFixture()
	svc := newService(f)
	ctx := context.Background()
	userID := f.users["student1"].ID

	if _, err := svc.RegisterOrUpdateExamUser(ctx, testCourseID, testExamID, dto.ExamUserDTO{Login: "student1"}, nil); err != nil {
		t.Fatalf("register: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.StartSession(ctx, testCourseID, testExamID, userID); err != nil {
			t.Fatalf("StartSession call %d: %v", i+1, err)
		}
	}

	if !f.started[userID] {
		t.Errorf("session not started")
	}
	if f.startCalls != 1 {
		t.Errorf("startCalls = %d, want 1 (repeat must not rewrite the session)", f.startCalls)
	}
}

func TestListExamUsers(t *testing.T) {
	f := newFixture()
	svc := newService(f)
	registerAll(t, svc, f)

	list, err := svc.ListExamUsers(context.Background(), testCourseID, testExamID, 1, 10)
	if err != nil {
		t.Fatalf("ListExamUsers: %v", err)
	}
	if len(list.ExamUsers) != 4 {
		t.Errorf("got %d records, want 4", len(list.ExamUsers))
	}
	if list.PaginationInfo.TotalItems != 4 {
		t.Errorf("TotalItems = %d, want 4", list.PaginationInfo.TotalItems)
	}
}
