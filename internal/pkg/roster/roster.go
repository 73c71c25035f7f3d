// Package roster decodes uploaded roster documents into per-person records
// and reconciles them against the registered participants of an exam.
package roster

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Entry is one person extracted from a roster document: a registration
// number and the captured image anchored to that row, if any.
type Entry struct {
	RegistrationNumber string
	Image              []byte
	ImageExt           string
}

// Candidate is a registered participant eligible for matching.
type Candidate struct {
	ExamUserID         int64
	Login              string
	RegistrationNumber string
}

// Match pairs a candidate with the roster entry that carries its image.
type Match struct {
	Candidate Candidate
	Entry     Entry
}

// Result is the outcome of reconciling roster entries against candidates.
type Result struct {
	Matches  []Match
	NotFound []Entry
}

// ParseError reports that a roster document could not be decoded into
// per-person records. Nothing is ever applied from an undecodable document.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("roster parse: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("roster parse: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// AmbiguityError reports that more than one candidate shares a registration
// number, so a match target cannot be chosen.
type AmbiguityError struct {
	RegistrationNumber string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("registration number %q is shared by multiple exam users", e.RegistrationNumber)
}

// Decode reads a roster workbook (xlsx) into entries. The first sheet is
// used; the first row is treated as a header. Registration numbers sit in
// column A, the captured image is the picture anchored in column B of the
// same row. Rows without a registration number are skipped.
func Decode(r io.Reader) ([]Entry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Reason: "failed to open workbook", Err: err}
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, &ParseError{Reason: "workbook contains no sheets"}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("failed to read sheet %s", sheetName), Err: err}
	}

	var entries []Entry
	for i, row := range rows {
		if i == 0 {
			continue // header row
		}

		var registrationNumber string
		if len(row) > 0 {
			registrationNumber = strings.TrimSpace(row[0])
		}
		if registrationNumber == "" {
			continue
		}

		entry := Entry{RegistrationNumber: registrationNumber}

		// Row numbers in cell references are 1-based
		cell, err := excelize.JoinCellName("B", i+1)
		if err != nil {
			return nil, &ParseError{Reason: "invalid cell reference", Err: err}
		}
		pictures, err := f.GetPictures(sheetName, cell)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("failed to read picture at %s", cell), Err: err}
		}
		if len(pictures) > 0 {
			entry.Image = pictures[0].File
			entry.ImageExt = pictures[0].Extension
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// MatchEntries reconciles roster entries against candidates by exact
// registration-number equality. Candidates with empty registration numbers
// never match. Duplicate non-empty registration numbers among candidates
// make the match target ambiguous and fail the whole reconciliation.
// MatchEntries mutates nothing; applying the result is the caller's job.
func MatchEntries(candidates []Candidate, entries []Entry) (*Result, error) {
	byRegistrationNumber := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		if c.RegistrationNumber == "" {
			continue
		}
		if _, exists := byRegistrationNumber[c.RegistrationNumber]; exists {
			return nil, &AmbiguityError{RegistrationNumber: c.RegistrationNumber}
		}
		byRegistrationNumber[c.RegistrationNumber] = c
	}

	result := &Result{}
	for _, entry := range entries {
		candidate, ok := byRegistrationNumber[entry.RegistrationNumber]
		if !ok {
			result.NotFound = append(result.NotFound, entry)
			continue
		}
		result.Matches = append(result.Matches, Match{Candidate: candidate, Entry: entry})
	}

	return result, nil
}
