package grading

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/yigit/cgpa/internal/app/models"
	"github.com/yigit/cgpa/internal/pkg/apperrors"
)

// Slopes of the two interpolated segments of the grading curve.
const (
	upperSlope = 1.0 / 3.0
	lowerSlope = 0.5
)

// supportedCreditHours lists the brackets defined by the grading table.
var supportedCreditHours = []int{1, 2, 3, 4, 9, 10}

// Bracket holds the thresholds of the quality-point curve for one credit-hour
// value.
type Bracket struct {
	CreditHours    int
	MaxQP          float64
	MidQP          float64
	UpperThreshold float64
	MidThreshold   float64
	FloorThreshold float64
}

// NewBracket derives the bracket for creditHours from the general pattern
// (max 4×CH, mid 2×CH, thresholds 16×, 10× and 8×CH).
func NewBracket(creditHours int) Bracket {
	ch := float64(creditHours)
	return Bracket{
		CreditHours:    creditHours,
		MaxQP:          4 * ch,
		MidQP:          2 * ch,
		UpperThreshold: 16 * ch,
		MidThreshold:   10 * ch,
		FloorThreshold: 8 * ch,
	}
}

// QualityPoints applies the bracket curve to marks. The result is clamped to
// [0, MaxQP] but not rounded.
func (b Bracket) QualityPoints(marks float64) float64 {
	var qp float64
	switch {
	case marks >= b.UpperThreshold:
		qp = b.MaxQP
	case marks >= b.MidThreshold:
		qp = b.MaxQP - (b.UpperThreshold-marks)*upperSlope
	default:
		qp = b.MidQP - (b.MidThreshold-marks)*lowerSlope
	}
	// hard floor, applied after the curve
	if marks < b.FloorThreshold {
		qp = 0
	}
	return clamp(qp, 0, b.MaxQP)
}

// UnsupportedCreditHoursError reports a course whose credit hours have no
// bracket in the rule table.
type UnsupportedCreditHoursError struct {
	CreditHours int
	Semester    string
	Course      string
}

func (e *UnsupportedCreditHoursError) Error() string {
	if e.Course == "" {
		return fmt.Sprintf("%s: %d", apperrors.ErrUnsupportedCreditHours, e.CreditHours)
	}
	return fmt.Sprintf("%s: %d for course %q in semester %q",
		apperrors.ErrUnsupportedCreditHours, e.CreditHours, e.Course, e.Semester)
}

func (e *UnsupportedCreditHoursError) Unwrap() error {
	return apperrors.ErrUnsupportedCreditHours
}

// Rules is an immutable quality-point rule table.
type Rules struct {
	brackets map[int]Bracket
	extend   bool
}

// DefaultRules returns the table restricted to the observed brackets
// {1, 2, 3, 4, 9, 10}. Any other credit-hour value is an error.
func DefaultRules() Rules {
	brackets := make(map[int]Bracket, len(supportedCreditHours))
	for _, ch := range supportedCreditHours {
		brackets[ch] = NewBracket(ch)
	}
	return Rules{brackets: brackets}
}

// ExtendedRules returns a table that derives a bracket for every positive
// credit-hour value from the general pattern.
func ExtendedRules() Rules {
	r := DefaultRules()
	r.extend = true
	return r
}

// Bracket looks up the bracket for creditHours.
func (r Rules) Bracket(creditHours int) (Bracket, bool) {
	if b, ok := r.brackets[creditHours]; ok {
		return b, true
	}
	if r.extend && creditHours > 0 {
		return NewBracket(creditHours), true
	}
	return Bracket{}, false
}

// CreditHours lists the explicitly tabled credit-hour values in ascending order.
func (r Rules) CreditHours() []int {
	out := make([]int, 0, len(r.brackets))
	for ch := range r.brackets {
		out = append(out, ch)
	}
	sort.Ints(out)
	return out
}

// QualityPoints computes the quality points for one course attempt, rounded to
// two decimals and bounded by [0, 4×creditHours].
//
// Grade "P" earns the full 4×creditHours and grade "F" earns zero, both
// independent of marks. Zero credit hours score zero. Negative credit hours
// and values without a bracket return *UnsupportedCreditHoursError.
func (r Rules) QualityPoints(marks float64, creditHours int, grade string) (float64, error) {
	if creditHours < 0 {
		return 0, &UnsupportedCreditHoursError{CreditHours: creditHours}
	}

	switch NormalizeGrade(grade) {
	case models.GradePass:
		return round(4*float64(creditHours), 2), nil
	case models.GradeFail:
		return 0, nil
	}

	if creditHours == 0 {
		return 0, nil
	}

	b, ok := r.Bracket(creditHours)
	if !ok {
		return 0, &UnsupportedCreditHoursError{CreditHours: creditHours}
	}
	return round(b.QualityPoints(marks), 2), nil
}

// QualityPoints evaluates the default rule table.
func QualityPoints(marks float64, creditHours int, grade string) (float64, error) {
	return DefaultRules().QualityPoints(marks, creditHours, grade)
}

// NormalizeGrade trims and upper-cases a grade letter.
func NormalizeGrade(grade string) string {
	return strings.ToUpper(strings.TrimSpace(grade))
}

// NormalizeCode is the grouping key of a course code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
