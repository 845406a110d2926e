package grading

import (
	"slices"

	"github.com/yigit/cgpa/internal/app/models"
)

// CoursePredicate selects the courses a calculation should consider. A nil
// predicate selects every course.
type CoursePredicate func(models.Course) bool

func (p CoursePredicate) includes(c models.Course) bool {
	return p == nil || p(c)
}

type attempt struct {
	semester string
	index    int
	marks    float64
}

// ResolveHistory applies the best-attempt policy to p and returns the resolved
// snapshot.
//
// Non-deleted courses accepted by include are grouped by normalized code.
// In a group with more than one attempt every member is marked repeated and
// all but the highest-marks attempt are marked extra-enrolled; on equal marks
// the attempt whose semester has the smallest SemesterOrderKey is kept. Spring
// belongs to the academic year before its calendar year, so "Spring 2022"
// precedes "Fall 2021". Courses outside the grouping
// have both flags cleared.
func ResolveHistory(p models.Profile, include CoursePredicate) models.Profile {
	out := p.Clone()
	resolveHistory(&out, include)
	return out
}

func resolveHistory(p *models.Profile, include CoursePredicate) {
	groups := make(map[string][]attempt)
	var order []string

	for _, name := range SortedSemesterNames(*p) {
		sem := p.Semesters[name]
		for i := range sem.Courses {
			c := &sem.Courses[i]
			c.IsRepeated = false
			c.IsExtraEnrolled = false

			if c.IsDeleted || !include.includes(*c) {
				continue
			}
			key := NormalizeCode(c.Code)
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], attempt{semester: name, index: i, marks: c.Marks})
		}
	}

	for _, key := range order {
		history := groups[key]
		if len(history) < 2 {
			continue
		}
		slices.SortStableFunc(history, func(a, b attempt) int {
			switch {
			case a.marks > b.marks:
				return -1
			case a.marks < b.marks:
				return 1
			}
			return 0
		})
		for rank, at := range history {
			c := &p.Semesters[at.semester].Courses[at.index]
			c.IsRepeated = true
			c.IsExtraEnrolled = rank > 0
		}
	}
}
