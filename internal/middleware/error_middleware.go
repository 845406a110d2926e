package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/cgpa/internal/app/models/dto"
	"github.com/yigit/cgpa/internal/grading"
	"github.com/yigit/cgpa/internal/pkg/apperrors"
	"github.com/yigit/cgpa/internal/pkg/logger"
)

// UnsupportedCourse describes one course rejected by the rule table
type UnsupportedCourse struct {
	Semester    string `json:"semester"`
	Course      string `json:"course"`
	CreditHours int    `json:"creditHours"`
}

// HandleAPIError writes the error response matching err
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorResponse(err error) (int, *dto.ErrorDetail) {
	switch {
	case apperrors.Is(err, apperrors.ErrProfileNotFound, apperrors.ErrSemesterNotFound, apperrors.ErrCourseNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())
	case errors.Is(err, apperrors.ErrUnsupportedCreditHours):
		return http.StatusUnprocessableEntity,
			dto.NewErrorDetail(dto.ErrorCodeUnsupportedCreditHours, "Unsupported credit hours").
				WithField("creditHours").
				WithDetails(unsupportedCourses(err))
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())
	default:
		return http.StatusInternalServerError,
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithSeverity(dto.ErrorSeverityCritical)
	}
}

// unsupportedCourses flattens a joined grading error into one entry per
// rejected course
func unsupportedCourses(err error) []UnsupportedCourse {
	var out []UnsupportedCourse
	var walk func(error)
	walk = func(e error) {
		var chErr *grading.UnsupportedCreditHoursError
		switch x := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range x.Unwrap() {
				walk(inner)
			}
		default:
			if errors.As(e, &chErr) {
				out = append(out, UnsupportedCourse{
					Semester:    chErr.Semester,
					Course:      chErr.Course,
					CreditHours: chErr.CreditHours,
				})
			}
		}
	}
	walk(err)
	return out
}
