package cfdomain

import (
	"fmt"
	"strings"
)

// ProblemID identifies a problem by its contest and its index within the
// contest ("1850", "A"). It is comparable and is used directly as a map key.
type ProblemID struct {
	ContestID int
	Index     string
}

// String renders the id as "<contest>-<index>". Contest ids are numeric and
// indices alphanumeric, so the dash never appears inside either part.
func (id ProblemID) String() string {
	return fmt.Sprintf("%d-%s", id.ContestID, id.Index)
}

type Problem struct {
	ContestID int
	Index     string
	Name      string
	Tags      []string

	// Rating is the difficulty rating; zero means the problem is unrated.
	Rating int
}

func (p Problem) ID() ProblemID {
	return ProblemID{ContestID: p.ContestID, Index: p.Index}
}

func (p Problem) Rated() bool {
	return p.Rating > 0
}

func (p Problem) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate reports the first required field that is missing or out of range.
func (p Problem) Validate() error {
	if p.ContestID <= 0 {
		return &FormatError{Field: "problem.contestId", Reason: "must be positive"}
	}
	if strings.TrimSpace(p.Index) == "" {
		return &FormatError{Field: "problem.index", Reason: "must not be empty"}
	}
	if strings.Contains(p.Index, "-") {
		return &FormatError{Field: "problem.index", Reason: "must not contain '-'"}
	}
	if p.Rating < 0 {
		return &FormatError{Field: "problem.rating", Reason: "must not be negative"}
	}
	return nil
}
