package models

import "time"

// ExamUser is the per-participant record of identity-check and attendance
// state for one exam. A row exists only after explicit registration.
type ExamUser struct {
	ID     int64 `json:"id" db:"id"`
	ExamID int64 `json:"examId" db:"exam_id"`
	UserID int64 `json:"userId" db:"user_id"`

	DidCheckRegistrationNumber bool `json:"didCheckRegistrationNumber" db:"did_check_registration_number"`
	DidCheckImage              bool `json:"didCheckImage" db:"did_check_image"`
	DidCheckName               bool `json:"didCheckName" db:"did_check_name"`
	DidCheckLogin              bool `json:"didCheckLogin" db:"did_check_login"`

	PlannedRoom string `json:"plannedRoom" db:"planned_room"`
	PlannedSeat string `json:"plannedSeat" db:"planned_seat"`
	ActualRoom  string `json:"actualRoom" db:"actual_room"`
	ActualSeat  string `json:"actualSeat" db:"actual_seat"`

	SigningImagePath string `json:"signingImagePath" db:"signing_image_path"`
	StudentImagePath string `json:"studentImagePath" db:"student_image_path"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	User *User `json:"user,omitempty"`
}

// Assignment carries the descriptor fields that can be merged into an
// ExamUser. Empty strings mean "leave unspecified", not "clear the value",
// and a false check flag means "leave untouched", not "revoke the check".
type Assignment struct {
	PlannedRoom string
	PlannedSeat string
	ActualRoom  string
	ActualSeat  string

	DidCheckRegistrationNumber bool
	DidCheckImage              bool
	DidCheckName               bool
	DidCheckLogin              bool
}

// The transition functions below return a new value instead of mutating in
// place. All transitions are monotonic: none clears a previously set check
// flag or removes an attached image.

// ApplyAssignment merges non-empty assignment fields into the record.
// Check flags only ever flip to true here; a descriptor cannot revoke a
// check that already passed.
func (eu ExamUser) ApplyAssignment(a Assignment) ExamUser {
	if a.PlannedRoom != "" {
		eu.PlannedRoom = a.PlannedRoom
	}
	if a.PlannedSeat != "" {
		eu.PlannedSeat = a.PlannedSeat
	}
	if a.ActualRoom != "" {
		eu.ActualRoom = a.ActualRoom
	}
	if a.ActualSeat != "" {
		eu.ActualSeat = a.ActualSeat
	}
	if a.DidCheckRegistrationNumber {
		eu.DidCheckRegistrationNumber = true
	}
	if a.DidCheckImage {
		eu.DidCheckImage = true
	}
	if a.DidCheckName {
		eu.DidCheckName = true
	}
	if a.DidCheckLogin {
		eu.DidCheckLogin = true
	}
	return eu
}

// CheckIn attaches a signing image and marks every identity check passed.
// Attaching the signing artifact and passing all four checks are one named
// transition on purpose; they must not be decoupled.
func (eu ExamUser) CheckIn(signingImagePath string) ExamUser {
	if signingImagePath != "" {
		eu.SigningImagePath = signingImagePath
	}
	eu.DidCheckRegistrationNumber = true
	eu.DidCheckImage = true
	eu.DidCheckName = true
	eu.DidCheckLogin = true
	return eu
}

// WithStudentImage attaches a bulk-ingested student image. Check flags are
// untouched; ingestion is not a check-in.
func (eu ExamUser) WithStudentImage(path string) ExamUser {
	if path != "" {
		eu.StudentImagePath = path
	}
	return eu
}

// Signed reports whether a signing artifact is present.
func (eu ExamUser) Signed() bool {
	return eu.SigningImagePath != ""
}
