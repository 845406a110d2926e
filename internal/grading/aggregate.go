package grading

import "github.com/yigit/cgpa/internal/app/models"

const (
	marksPerCreditHour = 20
	// passCourseMaxMarks overrides the maximum marks of a one-credit "P" course.
	passCourseMaxMarks = 100
)

// MaxMarks is the maximum obtainable marks of a course.
func MaxMarks(c models.Course) float64 {
	if NormalizeGrade(c.Grade) == models.GradePass && c.CreditHours == 1 {
		return passCourseMaxMarks
	}
	return float64(c.CreditHours * marksPerCreditHour)
}

// AggregateSemester recomputes the totals, GPA and percentage of sem from its
// counted courses: not deleted, not extra-enrolled and accepted by include.
// Course flags must already be resolved.
func AggregateSemester(sem models.Semester, include CoursePredicate) models.Semester {
	sem.TotalQualityPoints = 0
	sem.TotalCreditHours = 0
	sem.TotalMarksObtained = 0
	sem.TotalMaxMarks = 0

	for _, c := range sem.Courses {
		if !c.Counted() || !include.includes(c) {
			continue
		}
		sem.TotalQualityPoints += c.QualityPoints
		sem.TotalCreditHours += c.CreditHours
		sem.TotalMarksObtained += c.Marks
		sem.TotalMaxMarks += MaxMarks(c)
	}

	sem.GPA = ratio(sem.TotalQualityPoints, float64(sem.TotalCreditHours), 4)
	sem.Percentage = ratio(sem.TotalMarksObtained*100, sem.TotalMaxMarks, 2)
	return sem
}

// Summarize folds already aggregated semesters into the cumulative summary.
// Raw totals are re-summed; per-semester GPAs are never averaged.
func Summarize(semesters []models.Semester) models.CgpaSummary {
	var s models.CgpaSummary
	for _, sem := range semesters {
		s.TotalQualityPoints += sem.TotalQualityPoints
		s.TotalCreditHours += sem.TotalCreditHours
		s.TotalMarksObtained += sem.TotalMarksObtained
		s.TotalMaxMarks += sem.TotalMaxMarks
	}
	s.CGPA = ratio(s.TotalQualityPoints, float64(s.TotalCreditHours), 4)
	s.Percentage = ratio(s.TotalMarksObtained*100, s.TotalMaxMarks, 2)
	return s
}

func ratio(num, den float64, places int) float64 {
	if den <= 0 {
		return 0
	}
	return round(num/den, places)
}
