package models

import "time"

// StudentInfo identifies the student a profile belongs to.
type StudentInfo struct {
	Name         string `json:"name"`
	Registration string `json:"registration" validate:"required"`
}

// Profile is a student's complete academic record keyed by semester name.
//
// Cumulative figures are not stored here; they are recomputed from Semesters
// whenever they are needed.
type Profile struct {
	ID          string              `json:"id"`
	DisplayName string              `json:"displayName"`
	Student     StudentInfo         `json:"studentInfo"`
	Semesters   map[string]Semester `json:"semesters"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"lastModified"`
}

// CgpaSummary is the cumulative result over every counted course of a profile.
type CgpaSummary struct {
	CGPA               float64 `json:"cgpa"`
	Percentage         float64 `json:"percentage"`
	TotalQualityPoints float64 `json:"totalQualityPoints"`
	TotalCreditHours   int     `json:"totalCreditHours"`
	TotalMarksObtained float64 `json:"totalMarksObtained"`
	TotalMaxMarks      float64 `json:"totalMaxMarks"`
}

// Clone returns a deep copy of the profile so callers can derive a new
// snapshot without touching the original.
func (p Profile) Clone() Profile {
	out := p
	out.Semesters = make(map[string]Semester, len(p.Semesters))
	for name, sem := range p.Semesters {
		courses := make([]Course, len(sem.Courses))
		copy(courses, sem.Courses)
		for i, c := range courses {
			if c.Components != nil {
				mc := *c.Components
				courses[i].Components = &mc
			}
		}
		sem.Courses = courses
		out.Semesters[name] = sem
	}
	return out
}
