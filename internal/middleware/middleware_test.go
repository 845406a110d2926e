package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/cgpa/internal/app/models/dto"
	"github.com/yigit/cgpa/internal/grading"
	"github.com/yigit/cgpa/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    dto.ErrorCode     `json:"code"`
		Message string            `json:"message"`
		Field   string            `json:"field"`
		Details []json.RawMessage `json:"details"`
	} `json:"error"`
}

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, errorEnvelope) {
	t.Helper()
	r := gin.New()
	r.GET("/", func(c *gin.Context) { HandleAPIError(c, err) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var env errorEnvelope
	if w.Code == http.StatusUnprocessableEntity {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestHandleAPIErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.ErrProfileNotFound, http.StatusNotFound},
		{apperrors.NewCustomError(apperrors.ErrSemesterNotFound, `semester "X" not found`), http.StatusNotFound},
		{fmt.Errorf("%w: bad", apperrors.ErrValidationFailed), http.StatusBadRequest},
		{apperrors.NewValidationError("invalid profile ID"), http.StatusBadRequest},
		{apperrors.ErrCourseNotFound, http.StatusNotFound},
		{apperrors.NewConflictError("exists"), http.StatusConflict},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w, _ := serveError(t, tt.err)
		assert.Equal(t, tt.want, w.Code, tt.err.Error())
	}
}

func TestHandleAPIErrorUnsupportedCreditHours(t *testing.T) {
	err := errors.Join(
		&grading.UnsupportedCreditHoursError{CreditHours: 5, Semester: "Fall 2021", Course: "LAB-500"},
		&grading.UnsupportedCreditHoursError{CreditHours: 6, Semester: "Fall 2021", Course: "LAB-600"},
	)

	w, env := serveError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, dto.ErrorCodeUnsupportedCreditHours, env.Error.Code)
	assert.Equal(t, "creditHours", env.Error.Field)
	require.Len(t, env.Error.Details, 2)
	assert.Contains(t, string(env.Error.Details[1]), `"course":"LAB-600"`)
}

type pingRequest struct {
	Name  string `json:"name" binding:"required"`
	Count int    `json:"count" binding:"gte=0"`
}

func TestValidateRequest(t *testing.T) {
	r := gin.New()
	r.POST("/", ValidateRequest[pingRequest](), func(c *gin.Context) {
		body, ok := ValidatedBody[pingRequest](c)
		require.True(t, ok)
		c.JSON(http.StatusOK, body)
	})

	tests := []struct {
		body string
		want int
	}{
		{`{"name":"a","count":1}`, http.StatusOK},
		{`{"count":1}`, http.StatusBadRequest},
		{`{"name":"a","count":-1}`, http.StatusBadRequest},
		{`{"name":`, http.StatusBadRequest},
		{``, http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Code, tt.body)
	}
}

func TestRequestIDAndLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?page=2", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}
