package services

import (
	"fmt"
	"strings"

	"github.com/yigit/cgpa/internal/app/models"
	"github.com/yigit/cgpa/internal/app/models/dto"
	"github.com/yigit/cgpa/internal/grading"
	"github.com/yigit/cgpa/internal/pkg/apperrors"
)

// bedCourses are the course codes of the B.Ed programme.
var bedCourses = map[string]struct{}{
	"EDU-501": {}, "EDU-502": {}, "EDU-503": {}, "EDU-504": {}, "EDU-505": {},
	"EDU-506": {}, "EDU-507": {}, "EDU-508": {}, "EDU-509": {}, "EDU-510": {},
	"EDU-511": {}, "EDU-512": {}, "EDU-513": {}, "EDU-516": {},
	"EDU-601": {}, "EDU-604": {}, "EDU-605": {}, "EDU-607": {}, "EDU-608": {},
	"EDU-623": {},
}

// IsBEdCourse reports whether code belongs to the B.Ed programme.
func IsBEdCourse(code string) bool {
	_, ok := bedCourses[grading.NormalizeCode(code)]
	return ok
}

// ProgramPredicate returns the course filter for a programme name. The empty
// name selects every course.
func ProgramPredicate(program string) (grading.CoursePredicate, error) {
	switch strings.ToLower(strings.TrimSpace(program)) {
	case dto.ProgramAll:
		return nil, nil
	case dto.ProgramBEd:
		return func(c models.Course) bool { return IsBEdCourse(c.Code) }, nil
	case dto.ProgramRegular:
		return func(c models.Course) bool { return !IsBEdCourse(c.Code) }, nil
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown program %q", program))
	}
}
