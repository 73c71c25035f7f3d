package dto

// ExamUserDTO is the participant descriptor accepted by the registration
// endpoints. Empty string fields mean "leave unspecified", not "clear".
type ExamUserDTO struct {
	Login                      string `json:"login" binding:"required"`
	FirstName                  string `json:"firstName"`
	LastName                   string `json:"lastName"`
	RegistrationNumber         string `json:"registrationNumber"`
	ActualRoom                 string `json:"actualRoom"`
	ActualSeat                 string `json:"actualSeat"`
	PlannedRoom                string `json:"plannedRoom"`
	PlannedSeat                string `json:"plannedSeat"`
	DidCheckImage              bool   `json:"didCheckImage"`
	DidCheckName               bool   `json:"didCheckName"`
	DidCheckRegistrationNumber bool   `json:"didCheckRegistrationNumber"`
	DidCheckLogin              bool   `json:"didCheckLogin"`
	SigningImagePath           string `json:"signingImagePath"`
}

// ExamUserResponse is the full participant record returned to callers
type ExamUserResponse struct {
	ID                         int64  `json:"id"`
	ExamID                     int64  `json:"examId"`
	Login                      string `json:"login"`
	FirstName                  string `json:"firstName"`
	LastName                   string `json:"lastName"`
	RegistrationNumber         string `json:"registrationNumber"`
	DidCheckRegistrationNumber bool   `json:"didCheckRegistrationNumber"`
	DidCheckImage              bool   `json:"didCheckImage"`
	DidCheckName               bool   `json:"didCheckName"`
	DidCheckLogin              bool   `json:"didCheckLogin"`
	PlannedRoom                string `json:"plannedRoom"`
	PlannedSeat                string `json:"plannedSeat"`
	ActualRoom                 string `json:"actualRoom"`
	ActualSeat                 string `json:"actualSeat"`
	SigningImagePath           string `json:"signingImagePath"`
	StudentImagePath           string `json:"studentImagePath"`
}

// ExamUserListResponse holds a page of participant records
type ExamUserListResponse struct {
	ExamUsers      []ExamUserResponse `json:"examUsers"`
	PaginationInfo PaginationInfo     `json:"paginationInfo"`
}

// ExamUsersNotFoundResponse reports how many roster entries could not be
// matched to a registered participant during ingestion
type ExamUsersNotFoundResponse struct {
	NumberOfUsersNotFound int `json:"numberOfUsersNotFound"`
}

// AttendanceCheckDTO is one row of the started-but-unsigned report.
// Attendance is derived on demand, never stored.
type AttendanceCheckDTO struct {
	Login              string `json:"login"`
	RegistrationNumber string `json:"registrationNumber"`
	Started            bool   `json:"started"`
	Signed             bool   `json:"signed"`
}
