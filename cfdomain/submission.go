package cfdomain

import (
	"errors"
	"time"
)

type Verdict string

const (
	VerdictOK                  Verdict = "OK"
	VerdictWrongAnswer         Verdict = "WRONG_ANSWER"
	VerdictTimeLimitExceeded   Verdict = "TIME_LIMIT_EXCEEDED"
	VerdictMemoryLimitExceeded Verdict = "MEMORY_LIMIT_EXCEEDED"
	VerdictRuntimeError        Verdict = "RUNTIME_ERROR"
	VerdictCompilationError    Verdict = "COMPILATION_ERROR"
	VerdictTesting             Verdict = "TESTING"
)

// Accepted reports whether the verdict counts as a solve. Anything else,
// including a missing verdict of a submission still being judged, does not.
func (v Verdict) Accepted() bool {
	return v == VerdictOK
}

// DateLayout is the calendar date format used as the daily activity key.
const DateLayout = "2006-01-02"

type Submission struct {
	ID                  int64
	CreationTimeSeconds int64
	Verdict             Verdict
	Problem             Problem
}

func (s Submission) CreatedAt() time.Time {
	return time.Unix(s.CreationTimeSeconds, 0).UTC()
}

// Date is the UTC calendar date of the submission, e.g. "2024-03-09".
func (s Submission) Date() string {
	return s.CreatedAt().Format(DateLayout)
}

func (s Submission) Validate() error {
	if s.CreationTimeSeconds <= 0 {
		return &FormatError{Field: "creationTimeSeconds", Reason: "must be a positive unix timestamp"}
	}
	if err := s.Problem.Validate(); err != nil {
		return err
	}
	return nil
}

// ValidateSubmissions checks every record and returns the first failure
// annotated with the record position.
func ValidateSubmissions(subs []Submission) error {
	for i, s := range subs {
		if err := s.Validate(); err != nil {
			return atIndex(err, i)
		}
	}
	return nil
}

func atIndex(err error, i int) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		cp := *fe
		cp.Index = i
		cp.Positioned = true
		return &cp
	}
	return err
}
