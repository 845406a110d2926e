package dto

import (
	"time"

	"github.com/yigit/cgpa/internal/app/models"
)

// Program filters accepted by calculation endpoints
const (
	ProgramAll     = ""
	ProgramBEd     = "bed"
	ProgramRegular = "regular"
)

// CalculateRequest carries a complete profile to be recalculated without
// persisting it
type CalculateRequest struct {
	Profile models.Profile `json:"profile"`
	Program string         `json:"program" binding:"omitempty,oneof=bed regular"`
}

// ImportResultsRequest carries raw result rows of one student
type ImportResultsRequest struct {
	Rows []models.ResultRow `json:"rows" binding:"required,min=1,dive"`
}

// ProfileResponse is a profile with its recomputed cumulative summary and its
// semesters in chronological order
type ProfileResponse struct {
	Profile   models.Profile     `json:"profile"`
	Summary   models.CgpaSummary `json:"summary"`
	Semesters []models.Semester  `json:"semesters"`
}

// ProfileListItem is the condensed form of a stored profile
type ProfileListItem struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"displayName"`
	Registration  string    `json:"registration"`
	SemesterCount int       `json:"semesterCount"`
	CGPA          float64   `json:"cgpa"`
	GradingError  string    `json:"gradingError,omitempty"`
	UpdatedAt     time.Time `json:"lastModified"`
}

// AddCourseRequest represents a manually entered course
type AddCourseRequest struct {
	Code        string  `json:"code" binding:"required"`
	Title       string  `json:"title"`
	CreditHours int     `json:"creditHours" binding:"gte=0"`
	Marks       float64 `json:"marks" binding:"gte=0"`
	Grade       string  `json:"grade" binding:"omitempty,grade"`
}

// ToCourse converts the request into a custom course
func (r AddCourseRequest) ToCourse() models.Course {
	return models.Course{
		Code:        r.Code,
		Title:       r.Title,
		CreditHours: r.CreditHours,
		Marks:       r.Marks,
		Grade:       r.Grade,
	}
}

// UpdateCourseRequest edits the user-editable fields of a course; absent
// fields are left unchanged
type UpdateCourseRequest struct {
	Marks       *float64 `json:"marks" binding:"omitempty,gte=0"`
	CreditHours *int     `json:"creditHours" binding:"omitempty,gte=0"`
	Grade       *string  `json:"grade" binding:"omitempty,grade"`
}

// TrendPoint is one semester GPA in chronological order
type TrendPoint struct {
	Semester   string  `json:"semester"`
	GPA        float64 `json:"gpa"`
	IsForecast bool    `json:"isForecast"`
}
