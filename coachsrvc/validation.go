package coachsrvc

import (
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/programme-lv/cfcoach/cfdomain"
)

var handleRegexp = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

type handleInput struct {
	Handle string `validate:"required,min=3,max=24,cfhandle"`
}

type problemInput struct {
	ContestID int    `validate:"gt=0"`
	Index     string `validate:"required,max=4,alphanum"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("cfhandle", func(fl validator.FieldLevel) bool {
		return handleRegexp.MatchString(fl.Field().String())
	})
	return v
}

func (s *CoachSrvc) validateHandle(handle string) error {
	if err := s.validate.Struct(handleInput{Handle: handle}); err != nil {
		return ErrInvalidHandle().SetDebug(err)
	}
	return nil
}

func (s *CoachSrvc) parseProblemID(contestID string, index string) (cfdomain.ProblemID, error) {
	id, err := strconv.Atoi(contestID)
	if err != nil {
		return cfdomain.ProblemID{}, ErrInvalidProblemID().SetDebug(err)
	}
	in := problemInput{ContestID: id, Index: index}
	if err := s.validate.Struct(in); err != nil {
		return cfdomain.ProblemID{}, ErrInvalidProblemID().SetDebug(err)
	}
	return cfdomain.ProblemID{ContestID: in.ContestID, Index: in.Index}, nil
}
