package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/examdesk/examdesk/internal/app/models/dto"
	"github.com/examdesk/examdesk/internal/app/services"
	"github.com/examdesk/examdesk/internal/middleware"
	"github.com/examdesk/examdesk/internal/pkg/helpers"
)

// ExamUserController handles exam participant registration, roster image
// ingestion and attendance verification
type ExamUserController struct {
	examUserService services.ExamUserService
	logger          zerolog.Logger
}

// NewExamUserController creates a new ExamUserController
func NewExamUserController(examUserService services.ExamUserService, logger zerolog.Logger) *ExamUserController {
	return &ExamUserController{
		examUserService: examUserService,
		logger:          logger,
	}
}

// parseIDParam reads a positive integer path parameter. A second return of
// false means the response has already been written.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || value <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid path parameter").
			WithField(name).
			WithDetails(name + " must be a positive integer")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return value, true
}

// RegisterOrUpdateExamUser handles single participant registration
// @Summary Register or update an exam participant
// @Description Registers the login to the exam or merges the descriptor into the existing record. The request is multipart: an examUserDTO JSON part plus an optional signingImage file. Attaching a signing image checks the participant in.
// @Tags exam-users
// @Accept multipart/form-data
// @Produce json
// @Param courseId path int true "Course ID"
// @Param examId path int true "Exam ID"
// @Param examUserDTO formData string true "Participant descriptor as JSON"
// @Param file formData file false "Signing image"
// @Success 200 {object} dto.APIResponse{data=dto.ExamUserResponse} "Participant record"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Exam, user or enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{courseId}/exams/{examId}/exam-users [post]
func (c *ExamUserController) RegisterOrUpdateExamUser(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "examId")
	if !ok {
		return
	}

	dtoPart := ctx.PostForm("examUserDTO")
	if dtoPart == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Missing examUserDTO part")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.ExamUserDTO
	if err := json.Unmarshal([]byte(dtoPart), &req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid examUserDTO part").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if req.Login == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithField("login").
			WithDetails("login is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	// The signing image part is optional
	signingImage, err := ctx.FormFile("file")
	if err != nil {
		signingImage = nil
	}

	examUser, err := c.examUserService.RegisterOrUpdateExamUser(ctx.Request.Context(), courseID, examID, req, signingImage)
	if err != nil {
		c.logger.Warn().Err(err).Int64("examId", examID).Str("login", req.Login).Msg("Participant registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(examUser))
}

// AddExamUsers handles bulk participant registration
// @Summary Register a batch of exam participants
// @Description Registers every resolvable descriptor and returns the subset that could not be mapped to an enrolled account.
// @Tags exam-users
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param examId path int true "Exam ID"
// @Param students body []dto.ExamUserDTO true "Participant descriptors"
// @Success 200 {object} dto.APIResponse{data=[]dto.ExamUserDTO} "Descriptors that could not be resolved"
// @Failure 400 {object} dto.ErrorResponse "Empty batch or invalid request"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{courseId}/exams/{examId}/students [post]
func (c *ExamUserController) AddExamUsers(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "examId")
	if !ok {
		return
	}

	var students []dto.ExamUserDTO
	if err := ctx.ShouldBindJSON(&students); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	notFound, err := c.examUserService.AddExamUsers(ctx.Request.Context(), courseID, examID, students)
	if err != nil {
		c.logger.Warn().Err(err).Int64("examId", examID).Msg("Bulk participant registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(notFound))
}

// SaveImages handles roster document ingestion
// @Summary Ingest participant images from a roster document
// @Description Decodes the uploaded roster workbook, matches entries to registered participants by registration number and attaches the extracted images. Returns the count of unmatched entries.
// @Tags exam-users
// @Accept multipart/form-data
// @Produce json
// @Param courseId path int true "Course ID"
// @Param examId path int true "Exam ID"
// @Param file formData file true "Roster document"
// @Success 200 {object} dto.APIResponse{data=dto.ExamUsersNotFoundResponse} "Ingestion summary"
// @Failure 400 {object} dto.ErrorResponse "Missing file or undecodable document"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate registration number within exam"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{courseId}/exams/{examId}/exam-users-save-images [post]
func (c *ExamUserController) SaveImages(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "examId")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Missing roster document").
			WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to open uploaded roster document")
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	result, err := c.examUserService.IngestImages(ctx.Request.Context(), courseID, examID, file)
	if err != nil {
		c.logger.Warn().Err(err).Int64("examId", examID).Msg("Roster image ingestion failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// VerifyExamUsers handles attendance verification
// @Summary Verify exam attendance
// @Description Returns the participants who started working on the exam but have no signing artifact on file.
// @Tags exam-users
// @Produce json
// @Param courseId path int true "Course ID"
// @Param examId path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.AttendanceCheckDTO} "Started but unsigned participants"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{courseId}/exams/{examId}/verify-exam-users [get]
func (c *ExamUserController) VerifyExamUsers(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "examId")
	if !ok {
		return
	}

	report, err := c.examUserService.VerifyAttendance(ctx.Request.Context(), courseID, examID)
	if err != nil {
		c.logger.Warn().Err(err).Int64("examId", examID).Msg("Attendance verification failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}

// ListExamUsers handles paginated participant listing
// @Summary List exam participants
// @Description Returns a page of the exam's participant records.
// @Tags exam-users
// @Produce json
// @Param courseId path int true "Course ID"
// @Param examId path int true "Exam ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ExamUserListResponse} "Participant records"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{courseId}/exams/{examId}/exam-users [get]
func (c *ExamUserController) ListExamUsers(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "examId")
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)

	list, err := c.examUserService.ListExamUsers(ctx.Request.Context(), courseID, examID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(list.ExamUsers, list.PaginationInfo))
}

// DeleteExamUser handles participant removal
// @Summary Remove an exam participant
// @Description Removes the participant record and releases its image artifacts.
// @Tags exam-users
// @Produce json
// @Param courseId path int true "Course ID"
// @Param examId path int true "Exam ID"
// @Param login path string true "Participant login"
// @Success 200 {object} dto.APIResponse "Participant removed"
// @Failure 404 {object} dto.ErrorResponse "Exam or participant not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{courseId}/exams/{examId}/exam-users/{login} [delete]
func (c *ExamUserController) DeleteExamUser(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "examId")
	if !ok {
		return
	}

	login := ctx.Param("login")
	if err := c.examUserService.DeleteExamUser(ctx.Request.Context(), courseID, examID, login); err != nil {
		c.logger.Warn().Err(err).Int64("examId", examID).Str("login", login).Msg("Participant removal failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("examId", examID).Str("login", login).Msg("Participant removed")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
}

// StartSession handles exam session start for the calling participant
// @Summary Start the caller's exam session
// @Description Marks the authenticated participant's exam session started. Starting is one-way.
// @Tags exam-users
// @Produce json
// @Param courseId path int true "Course ID"
// @Param examId path int true "Exam ID"
// @Success 200 {object} dto.APIResponse "Session started"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Exam or participant not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{courseId}/exams/{examId}/sessions/start [post]
func (c *ExamUserController) StartSession(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "examId")
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.examUserService.StartSession(ctx.Request.Context(), courseID, examID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
}
