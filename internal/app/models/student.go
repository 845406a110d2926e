package models

// ResultRow is one course line as delivered by a results source (for example
// the LMS result table). Numeric columns arrive as free text.
type ResultRow struct {
	StudentName    string `json:"studentName"`
	RegistrationNo string `json:"registrationNo" validate:"required"`
	Semester       string `json:"semester"`
	TeacherName    string `json:"teacherName"`
	CourseCode     string `json:"courseCode" validate:"required"`
	CourseTitle    string `json:"courseTitle"`
	CreditHours    string `json:"creditHours"`
	Total          string `json:"total"`
	Grade          string `json:"grade"`
	Mid            string `json:"mid,omitempty"`
	Assignment     string `json:"assignment,omitempty"`
	Final          string `json:"final,omitempty"`
	Practical      string `json:"practical,omitempty"`
}
