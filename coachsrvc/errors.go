package coachsrvc

import (
	"net/http"

	"github.com/programme-lv/cfcoach/srvcerror"
)

const ErrCodeInvalidHandle = "invalid_handle"

func ErrInvalidHandle() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidHandle,
		"handle must be 3 to 24 characters of latin letters, digits, '_', '-' or '.'",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeUserProcessingFailed = "user_processing_failed"

// ErrCouldNotProcessUser is the single error users see when their
// submissions cannot be fetched or are malformed. The cause is debug only.
func ErrCouldNotProcessUser(status int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUserProcessingFailed,
		"could not process this user",
	).SetHttpStatusCode(status)
}

const ErrCodeInvalidProblemID = "invalid_problem_id"

func ErrInvalidProblemID() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidProblemID,
		"contest id must be a positive number and index a short alphanumeric code",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeProblemNotFound = "problem_not_found"

func ErrProblemNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeProblemNotFound,
		"problem not found in the catalog",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeCatalogUnavailable = "catalog_unavailable"

func ErrCatalogUnavailable() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeCatalogUnavailable,
		"problem catalog is currently unavailable",
	).SetHttpStatusCode(http.StatusServiceUnavailable)
}
