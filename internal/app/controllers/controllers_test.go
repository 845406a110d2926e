package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/cgpa/internal/app/controllers"
	"github.com/yigit/cgpa/internal/app/models"
	"github.com/yigit/cgpa/internal/app/models/dto"
	"github.com/yigit/cgpa/internal/app/routes"
	"github.com/yigit/cgpa/internal/grading"
	"github.com/yigit/cgpa/internal/pkg/apperrors"
)

const profileID = "6f1c2a4e-8b7d-4c3e-9a1f-2d5e6b7c8d9e"

// stubService records the arguments of the last call and returns err when set.
type stubService struct {
	err error

	program  string
	id       string
	semester string
	index    int
	deleted  bool
	course   models.Course
	update   dto.UpdateCourseRequest
	rows     []models.ResultRow
	page     int
	size     int
}

func (s *stubService) response() (*dto.ProfileResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ProfileResponse{Profile: models.Profile{ID: profileID}}, nil
}

func (s *stubService) ImportResults(_ context.Context, rows []models.ResultRow) (*dto.ProfileResponse, error) {
	s.rows = rows
	return s.response()
}

func (s *stubService) Calculate(_ context.Context, p models.Profile, program string) (*dto.ProfileResponse, error) {
	s.program = program
	if s.err != nil {
		return nil, s.err
	}
	out, summary, err := grading.Recalculate(p)
	if err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{Profile: out, Summary: summary}, nil
}

func (s *stubService) GetProfile(_ context.Context, id, program string) (*dto.ProfileResponse, error) {
	s.id, s.program = id, program
	return s.response()
}

func (s *stubService) ListProfiles(_ context.Context, page, size int) ([]dto.ProfileListItem, dto.PaginationInfo, error) {
	s.page, s.size = page, size
	return []dto.ProfileListItem{{ID: profileID, CGPA: 3.5}}, dto.PaginationInfo{CurrentPage: page, PageSize: size, TotalItems: 1, TotalPages: 1}, s.err
}

func (s *stubService) DeleteProfile(_ context.Context, id string) error {
	s.id = id
	return s.err
}

func (s *stubService) AddForecastSemester(_ context.Context, id string) (*dto.ProfileResponse, error) {
	s.id = id
	return s.response()
}

func (s *stubService) DeleteSemester(_ context.Context, id, semester string) (*dto.ProfileResponse, error) {
	s.id, s.semester = id, semester
	return s.response()
}

func (s *stubService) AddCourse(_ context.Context, id, semester string, course models.Course) (*dto.ProfileResponse, error) {
	s.id, s.semester, s.course = id, semester, course
	return s.response()
}

func (s *stubService) UpdateCourse(_ context.Context, id, semester string, index int, req dto.UpdateCourseRequest) (*dto.ProfileResponse, error) {
	s.id, s.semester, s.index, s.update = id, semester, index, req
	return s.response()
}

func (s *stubService) SetCourseDeleted(_ context.Context, id, semester string, index int, deleted bool) (*dto.ProfileResponse, error) {
	s.id, s.semester, s.index, s.deleted = id, semester, index, deleted
	return s.response()
}

func (s *stubService) Trend(_ context.Context, id string) ([]dto.TrendPoint, error) {
	s.id = id
	return []dto.TrendPoint{{Semester: "Fall 2021", GPA: 3.5}}, s.err
}

func newRouter(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	routes.SetupRouter(r, controllers.NewCalculatorController(svc), controllers.NewProfileController(svc))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCalculate(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	body := `{"program":"regular","profile":{"semesters":{"Fall 2021":{"courses":[
		{"code":"CS-101","creditHours":3,"marks":48,"grade":"A"},
		{"code":"CS-102","creditHours":4,"marks":32,"grade":"C"}]}}}}`
	w := do(r, http.MethodPost, "/api/v1/calculate", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "regular", svc.program)

	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	summary := resp["data"].(map[string]any)["summary"].(map[string]any)
	assert.Equal(t, 7.0, summary["totalCreditHours"])
}

func TestCalculateRejectsUnknownProgram(t *testing.T) {
	r := newRouter(&stubService{})

	w := do(r, http.MethodPost, "/api/v1/calculate", `{"program":"phd","profile":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculateUnsupportedCreditHours(t *testing.T) {
	r := newRouter(&stubService{})

	body := `{"profile":{"semesters":{"Fall 2021":{"courses":[{"code":"LAB-500","creditHours":5,"marks":70}]}}}}`
	w := do(r, http.MethodPost, "/api/v1/calculate", body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errBody := decode(t, w)["error"].(map[string]any)
	assert.Equal(t, string(dto.ErrorCodeUnsupportedCreditHours), errBody["code"])
}

func TestImportResults(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	w := do(r, http.MethodPost, "/api/v1/profiles/import",
		`{"rows":[{"registrationNo":"2019-ag-1","courseCode":"CS-101","creditHours":"3(2-1)","total":"48"}]}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.rows, 1)
	assert.Equal(t, "3(2-1)", svc.rows[0].CreditHours)

	w = do(r, http.MethodPost, "/api/v1/profiles/import", `{"rows":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileReadRoutes(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	w := do(r, http.MethodGet, "/api/v1/profiles?page=2&size=5", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, svc.page)
	assert.Equal(t, 5, svc.size)

	w = do(r, http.MethodGet, "/api/v1/profiles/"+profileID+"?program=bed", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, profileID, svc.id)
	assert.Equal(t, "bed", svc.program)

	w = do(r, http.MethodGet, "/api/v1/profiles/"+profileID+"/trend", "")
	assert.Equal(t, http.StatusOK, w.Code)
	points := decode(t, w)["data"].([]any)
	assert.Len(t, points, 1)
}

func TestProfileMutationRoutes(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)
	base := "/api/v1/profiles/" + profileID

	w := do(r, http.MethodPost, base+"/forecasts", "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, base+"/semesters/Forecast%201/courses", `{"code":"CS-401","creditHours":3,"marks":40}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Forecast 1", svc.semester)
	assert.Equal(t, "CS-401", svc.course.Code)

	w = do(r, http.MethodPut, base+"/semesters/Fall%202021/courses/2", `{"marks":55}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, svc.index)
	require.NotNil(t, svc.update.Marks)
	assert.Equal(t, 55.0, *svc.update.Marks)
	assert.Nil(t, svc.update.CreditHours)

	w = do(r, http.MethodDelete, base+"/semesters/Fall%202021/courses/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.deleted)

	w = do(r, http.MethodPost, base+"/semesters/Fall%202021/courses/1/restore", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svc.deleted)

	w = do(r, http.MethodDelete, base+"/semesters/Fall%202021", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Fall 2021", svc.semester)

	w = do(r, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAddCourseRejectsInvalidGrade(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	w := do(r, http.MethodPost, "/api/v1/profiles/"+profileID+"/semesters/Fall%202021/courses",
		`{"code":"CS-401","creditHours":3,"marks":40,"grade":"AB"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.course.Code)
}

func TestInvalidCourseIndex(t *testing.T) {
	r := newRouter(&stubService{})

	w := do(r, http.MethodDelete, "/api/v1/profiles/"+profileID+"/semesters/Fall%202021/courses/x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServiceErrorsAreMapped(t *testing.T) {
	r := newRouter(&stubService{err: apperrors.ErrProfileNotFound})

	w := do(r, http.MethodGet, "/api/v1/profiles/"+profileID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/profiles/"+profileID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
