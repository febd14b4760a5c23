package cfapi

import (
	"strconv"

	"github.com/goccy/go-json"
	"github.com/programme-lv/cfcoach/cfdomain"
)

type apiProblem struct {
	ContestID *int     `json:"contestId"`
	Index     *string  `json:"index"`
	Name      string   `json:"name"`
	Tags      []string `json:"tags"`
	Rating    *int     `json:"rating"`
}

type apiSubmission struct {
	ID                  int64           `json:"id"`
	CreationTimeSeconds json.RawMessage `json:"creationTimeSeconds"`
	Verdict             string          `json:"verdict"`
	Problem             *apiProblem     `json:"problem"`
}

// parseSubmission turns one raw user.status record into a validated
// submission, or a *cfdomain.FormatError naming the offending field.
func parseSubmission(i int, raw json.RawMessage) (cfdomain.Submission, error) {
	var rec apiSubmission
	if err := json.Unmarshal(raw, &rec); err != nil {
		return cfdomain.Submission{}, cfdomain.NewFormatError(i, "submission", err.Error())
	}
	if len(rec.CreationTimeSeconds) == 0 || string(rec.CreationTimeSeconds) == "null" {
		return cfdomain.Submission{}, cfdomain.NewFormatError(i, "creationTimeSeconds", "is missing")
	}
	created, err := strconv.ParseInt(string(rec.CreationTimeSeconds), 10, 64)
	if err != nil {
		return cfdomain.Submission{}, cfdomain.NewFormatError(i, "creationTimeSeconds", "is not an integer")
	}
	if rec.Problem == nil {
		return cfdomain.Submission{}, cfdomain.NewFormatError(i, "problem", "is missing")
	}
	p, err := rec.Problem.toDomain(i)
	if err != nil {
		return cfdomain.Submission{}, err
	}

	s := cfdomain.Submission{
		ID:                  rec.ID,
		CreationTimeSeconds: created,
		Verdict:             cfdomain.Verdict(rec.Verdict),
		Problem:             p,
	}
	if err := s.Validate(); err != nil {
		return cfdomain.Submission{}, positioned(err, i)
	}
	return s, nil
}

func parseProblem(i int, raw json.RawMessage) (cfdomain.Problem, error) {
	var rec apiProblem
	if err := json.Unmarshal(raw, &rec); err != nil {
		return cfdomain.Problem{}, cfdomain.NewFormatError(i, "problem", err.Error())
	}
	return rec.toDomain(i)
}

func (ap *apiProblem) toDomain(i int) (cfdomain.Problem, error) {
	if ap.ContestID == nil {
		return cfdomain.Problem{}, cfdomain.NewFormatError(i, "problem.contestId", "is missing")
	}
	if ap.Index == nil {
		return cfdomain.Problem{}, cfdomain.NewFormatError(i, "problem.index", "is missing")
	}
	p := cfdomain.Problem{
		ContestID: *ap.ContestID,
		Index:     *ap.Index,
		Name:      ap.Name,
		Tags:      ap.Tags,
	}
	if ap.Rating != nil {
		p.Rating = *ap.Rating
	}
	if err := p.Validate(); err != nil {
		return cfdomain.Problem{}, positioned(err, i)
	}
	return p, nil
}

func positioned(err error, i int) error {
	if fe, ok := err.(*cfdomain.FormatError); ok {
		return cfdomain.NewFormatError(i, fe.Field, fe.Reason)
	}
	return err
}
