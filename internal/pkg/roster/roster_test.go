package roster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestMatchEntries(t *testing.T) {
	candidates := []Candidate{
		{ExamUserID: 1, Login: "student1", RegistrationNumber: "03756882"},
		{ExamUserID: 2, Login: "student2", RegistrationNumber: "03756884"},
		{ExamUserID: 3, Login: "student3", RegistrationNumber: "03756885"},
		{ExamUserID: 4, Login: "student4", RegistrationNumber: ""},
	}

	tests := []struct {
		name         string
		entries      []Entry
		wantMatches  int
		wantNotFound int
	}{
		{
			name: "all entries match",
			entries: []Entry{
				{RegistrationNumber: "03756882"},
				{RegistrationNumber: "03756884"},
				{RegistrationNumber: "03756885"},
			},
			wantMatches:  3,
			wantNotFound: 0,
		},
		{
			name: "unmatched entries are reported",
			entries: []Entry{
				{RegistrationNumber: "03756882"},
				{RegistrationNumber: "99999999"},
				{RegistrationNumber: "88888888"},
			},
			wantMatches:  1,
			wantNotFound: 2,
		},
		{
			name: "empty registration number never matches",
			entries: []Entry{
				{RegistrationNumber: ""},
			},
			wantMatches:  0,
			wantNotFound: 1,
		},
		{
			name:         "no entries",
			entries:      nil,
			wantMatches:  0,
			wantNotFound: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MatchEntries(candidates, tt.entries)
			if err != nil {
				t.Fatalf("MatchEntries() error = %v", err)
			}
			if len(result.Matches) != tt.wantMatches {
				t.Errorf("Matches = %d, want %d", len(result.Matches), tt.wantMatches)
			}
			if len(result.NotFound) != tt.wantNotFound {
				t.Errorf("NotFound = %d, want %d", len(result.NotFound), tt.wantNotFound)
			}
		})
	}
}

func TestMatchEntriesPairsCandidateWithEntry(t *testing.T) {
	candidates := []Candidate{
		{ExamUserID: 7, Login: "student1", RegistrationNumber: "03756882"},
	}
	entries := []Entry{
		{RegistrationNumber: "03756882", Image: []byte{0x1}, ImageExt: ".png"},
	}

	result, err := MatchEntries(candidates, entries)
	if err != nil {
		t.Fatalf("MatchEntries() error = %v", err)
	}
	if len(result.Matches) != 1 {
		t.Fatalf("Matches = %d, want 1", len(result.Matches))
	}
	m := result.Matches[0]
	if m.Candidate.ExamUserID != 7 || m.Candidate.Login != "student1" {
		t.Errorf("unexpected candidate: %+v", m.Candidate)
	}
	if len(m.Entry.Image) == 0 {
		t.Errorf("entry image not carried through")
	}
}

func TestMatchEntriesDuplicateRegistrationNumber(t *testing.T) {
	candidates := []Candidate{
		{ExamUserID: 1, Login: "student1", RegistrationNumber: "03756882"},
		{ExamUserID: 2, Login: "student2", RegistrationNumber: "03756882"},
	}

	_, err := MatchEntries(candidates, []Entry{{RegistrationNumber: "03756882"}})
	var ambErr *AmbiguityError
	if !errors.As(err, &ambErr) {
		t.Fatalf("MatchEntries() error = %v, want *AmbiguityError", err)
	}
	if ambErr.RegistrationNumber != "03756882" {
		t.Errorf("RegistrationNumber = %q, want %q", ambErr.RegistrationNumber, "03756882")
	}
}

// buildWorkbook creates an in-memory roster workbook with the given
// registration numbers, attaching a picture to every row.
func buildWorkbook(t *testing.T, registrationNumbers []string) *bytes.Buffer {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetCellValue(sheet, "A1", "Registration Number"); err != nil {
		t.Fatalf("setting header: %v", err)
	}

	for i, rn := range registrationNumbers {
		row := i + 2
		cellA, _ := excelize.JoinCellName("A", row)
		if err := f.SetCellValue(sheet, cellA, rn); err != nil {
			t.Fatalf("setting cell: %v", err)
		}
		cellB, _ := excelize.JoinCellName("B", row)
		err := f.AddPictureFromBytes(sheet, cellB, &excelize.Picture{
			Extension: ".png",
			File:      pngBuf.Bytes(),
		})
		if err != nil {
			t.Fatalf("adding picture: %v", err)
		}
	}

	out, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("writing workbook: %v", err)
	}
	return out
}

func TestDecode(t *testing.T) {
	registrationNumbers := []string{"03756882", "03756884", "03756885"}
	buf := buildWorkbook(t, registrationNumbers)

	entries, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(entries) != len(registrationNumbers) {
		t.Fatalf("entries = %d, want %d", len(entries), len(registrationNumbers))
	}
	for i, entry := range entries {
		if entry.RegistrationNumber != registrationNumbers[i] {
			t.Errorf("entry %d registration number = %q, want %q", i, entry.RegistrationNumber, registrationNumbers[i])
		}
		if len(entry.Image) == 0 {
			t.Errorf("entry %d has no image", i)
		}
		if entry.ImageExt != ".png" {
			t.Errorf("entry %d image ext = %q, want .png", i, entry.ImageExt)
		}
	}
}

func TestDecodeSkipsRowsWithoutRegistrationNumber(t *testing.T) {
	buf := buildWorkbook(t, []string{"03756882", "", "03756885"})

	entries, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
}

func TestDecodeMalformedDocument(t *testing.T) {
	_, err := Decode(strings.NewReader("this is not a workbook"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Decode() error = %v, want *ParseError", err)
	}
}
