package models

// CourseSource identifies the system a course record originated from.
type CourseSource string

const (
	SourceLMS    CourseSource = "lms"
	SourceCustom CourseSource = "custom"
)

// Course is a single attempt of a course inside a semester.
//
// QualityPoints, IsRepeated and IsExtraEnrolled are derived state: they are
// rewritten by every recalculation and are never authoritative on input.
type Course struct {
	Code               string          `json:"code" validate:"required"`
	Title              string          `json:"title"`
	CreditHours        int             `json:"creditHours" validate:"gte=0"`
	CreditHoursDisplay string          `json:"creditHoursDisplay,omitempty"`
	Marks              float64         `json:"marks" validate:"gte=0"`
	Grade              string          `json:"grade" validate:"omitempty,grade"`
	QualityPoints      float64         `json:"qualityPoints"`
	Teacher            string          `json:"teacher,omitempty"`
	IsRepeated         bool            `json:"isRepeated"`
	IsExtraEnrolled    bool            `json:"isExtraEnrolled"`
	IsDeleted          bool            `json:"isDeleted"`
	IsCustom           bool            `json:"isCustom"`
	Source             CourseSource    `json:"source,omitempty"`
	Components         *MarkComponents `json:"components,omitempty"`
}

// MarkComponents is the assessment breakdown reported by a results source.
// It is display-only; grading uses Marks.
type MarkComponents struct {
	Mid        string `json:"mid,omitempty"`
	Assignment string `json:"assignment,omitempty"`
	Final      string `json:"final,omitempty"`
	Practical  string `json:"practical,omitempty"`
}

// Counted reports whether the course contributes to any total.
func (c Course) Counted() bool {
	return !c.IsDeleted && !c.IsExtraEnrolled
}
