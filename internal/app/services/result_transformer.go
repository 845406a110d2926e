package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/cgpa/internal/app/models"
	"github.com/yigit/cgpa/internal/grading"
)

const (
	unknownSemester     = "Unknown"
	unknownStudentName  = "Unknown Student"
	unknownRegistration = "Unknown ID"
)

var (
	leadingIntPattern   = regexp.MustCompile(`\d+`)
	leadingFloatPattern = regexp.MustCompile(`^\s*[-+]?(\d+(\.\d*)?|\.\d+)`)
	sessionPattern      = regexp.MustCompile(`(\d{4})-(\d{2})`)
)

// NormalizeSemesterName cleans a semester label from a results source.
// Spring labels carrying an academic session ("Spring 2021-22") are renamed
// after the calendar year they fall in ("Spring 2022").
func NormalizeSemesterName(name string) string {
	n := strings.Join(strings.Fields(name), " ")
	if n == "" {
		return unknownSemester
	}
	if strings.Contains(strings.ToLower(n), "spring") {
		if m := sessionPattern.FindStringSubmatch(n); m != nil {
			return "Spring 20" + m[2]
		}
	}
	return n
}

// ParseCreditHours extracts the first integer of a credit-hour label such as
// "3(2-1)". Labels without digits yield 0.
func ParseCreditHours(text string) int {
	m := leadingIntPattern.FindString(text)
	if m == "" {
		return 0
	}
	ch, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return ch
}

// ParseMarks reads the leading decimal number of a marks label. Unparsable or
// negative values yield 0.
func ParseMarks(text string) float64 {
	m := leadingFloatPattern.FindString(text)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// TransformResults builds a profile from the result rows of one student.
// Courses keep the row order within their semester. Quality points and flags
// are left for the grading pass.
func TransformResults(rows []models.ResultRow, id string, now time.Time) models.Profile {
	name, registration := unknownStudentName, unknownRegistration
	if len(rows) > 0 {
		if v := strings.TrimSpace(rows[0].StudentName); v != "" {
			name = v
		}
		if v := strings.TrimSpace(rows[0].RegistrationNo); v != "" {
			registration = v
		}
	}

	semesters := make(map[string]models.Semester)
	for _, row := range rows {
		semName := NormalizeSemesterName(row.Semester)
		sem, ok := semesters[semName]
		if !ok {
			sem = models.Semester{
				Name:    semName,
				SortKey: grading.SemesterOrderKey(semName),
				Courses: []models.Course{},
			}
		}

		sem.Courses = append(sem.Courses, models.Course{
			Code:               strings.TrimSpace(row.CourseCode),
			Title:              strings.TrimSpace(row.CourseTitle),
			CreditHours:        ParseCreditHours(row.CreditHours),
			CreditHoursDisplay: strings.TrimSpace(row.CreditHours),
			Marks:              ParseMarks(row.Total),
			Grade:              strings.TrimSpace(row.Grade),
			Teacher:            strings.TrimSpace(row.TeacherName),
			Source:             models.SourceLMS,
			Components:         markComponents(row),
		})
		semesters[semName] = sem
	}

	return models.Profile{
		ID:          id,
		DisplayName: fmt.Sprintf("%s (%s)", name, registration),
		Student:     models.StudentInfo{Name: name, Registration: registration},
		Semesters:   semesters,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// markComponents returns the breakdown of row, or nil when it carries none.
func markComponents(row models.ResultRow) *models.MarkComponents {
	mc := models.MarkComponents{
		Mid:        strings.TrimSpace(row.Mid),
		Assignment: strings.TrimSpace(row.Assignment),
		Final:      strings.TrimSpace(row.Final),
		Practical:  strings.TrimSpace(row.Practical),
	}
	if mc == (models.MarkComponents{}) {
		return nil
	}
	return &mc
}
