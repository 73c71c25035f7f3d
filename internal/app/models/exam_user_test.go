package models

import "testing"

func TestCheckInSetsAllFlags(t *testing.T) {
	tests := []struct {
		name string
		prior ExamUser
	}{
		{name: "fresh record", prior: ExamUser{}},
		{name: "some flags already set", prior: ExamUser{DidCheckName: true, DidCheckLogin: true}},
		{name: "already checked in", prior: ExamUser{
			DidCheckRegistrationNumber: true,
			DidCheckImage:              true,
			DidCheckName:               true,
			DidCheckLogin:              true,
			SigningImagePath:           "uploads/exam-users/sig.png",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.prior.CheckIn("uploads/exam-users/sig.png")
			if !got.DidCheckRegistrationNumber || !got.DidCheckImage || !got.DidCheckName || !got.DidCheckLogin {
				t.Errorf("CheckIn() flags = %v %v %v %v, want all true",
					got.DidCheckRegistrationNumber, got.DidCheckImage, got.DidCheckName, got.DidCheckLogin)
			}
			if got.SigningImagePath != "uploads/exam-users/sig.png" {
				t.Errorf("SigningImagePath = %q", got.SigningImagePath)
			}
			if !got.Signed() {
				t.Errorf("Signed() = false after check-in")
			}
		})
	}
}

func TestCheckInIsIdempotent(t *testing.T) {
	once := ExamUser{}.CheckIn("uploads/exam-users/sig.png")
	twice := once.CheckIn("uploads/exam-users/sig.png")
	if once != twice {
		t.Errorf("CheckIn() applied twice differs: %+v vs %+v", once, twice)
	}
}

func TestApplyAssignmentKeepsUnspecifiedFields(t *testing.T) {
	base := ExamUser{PlannedRoom: "101", PlannedSeat: "11", ActualRoom: "101"}

	tests := []struct {
		name string
		in   Assignment
		want ExamUser
	}{
		{
			name: "empty assignment changes nothing",
			in:   Assignment{},
			want: base,
		},
		{
			name: "only provided fields are overwritten",
			in:   Assignment{PlannedSeat: "12"},
			want: ExamUser{PlannedRoom: "101", PlannedSeat: "12", ActualRoom: "101"},
		},
		{
			name: "all fields provided",
			in:   Assignment{PlannedRoom: "102", PlannedSeat: "1", ActualRoom: "102", ActualSeat: "1"},
			want: ExamUser{PlannedRoom: "102", PlannedSeat: "1", ActualRoom: "102", ActualSeat: "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.ApplyAssignment(tt.in); got != tt.want {
				t.Errorf("ApplyAssignment() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplyAssignmentFlipsCheckFlagsOneWay(t *testing.T) {
	base := ExamUser{DidCheckName: true}

	ticked := base.ApplyAssignment(Assignment{
		DidCheckRegistrationNumber: true,
		DidCheckImage:              true,
		DidCheckLogin:              true,
	})
	if !ticked.DidCheckRegistrationNumber || !ticked.DidCheckImage || !ticked.DidCheckName || !ticked.DidCheckLogin {
		t.Errorf("ticked checks not applied: %+v", ticked)
	}

	// A descriptor with unticked checks cannot revoke passed ones
	kept := ticked.ApplyAssignment(Assignment{PlannedRoom: "101"})
	if !kept.DidCheckRegistrationNumber || !kept.DidCheckImage || !kept.DidCheckName || !kept.DidCheckLogin {
		t.Errorf("unticked checks revoked passed ones: %+v", kept)
	}
}

func TestWithStudentImageLeavesFlagsAlone(t *testing.T) {
	eu := ExamUser{}.WithStudentImage("uploads/exam-users/photo.png")
	if eu.StudentImagePath != "uploads/exam-users/photo.png" {
		t.Errorf("StudentImagePath = %q", eu.StudentImagePath)
	}
	if eu.DidCheckRegistrationNumber || eu.DidCheckImage || eu.DidCheckName || eu.DidCheckLogin {
		t.Errorf("ingestion must not flip check flags: %+v", eu)
	}

	// Empty path keeps an existing image
	kept := ExamUser{StudentImagePath: "uploads/old.png"}.WithStudentImage("")
	if kept.StudentImagePath != "uploads/old.png" {
		t.Errorf("empty path cleared existing image: %q", kept.StudentImagePath)
	}
}
