package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Letter grade with an optional sign, e.g. "A", "B+", "P"
	GradePattern = `^[A-Za-z][+-]?$`

	// Semester names travel in URL paths and must not contain a slash
	SemesterNamePattern = `^[^/]+$`

	SemesterNameMaxLength = 64
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Grade        *regexp.Regexp
	SemesterName *regexp.Regexp
}{
	Grade:        regexp.MustCompile(GradePattern),
	SemesterName: regexp.MustCompile(SemesterNamePattern),
}

// Validator tags registered by RegisterRules
const (
	TagGrade    = "grade"
	TagSemester = "semester"
)

// StringValidation checks a single string value
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}
	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}

// IsValidGrade reports whether grade is empty or a letter grade
func IsValidGrade(grade string) bool {
	return NewStringValidation(strings.TrimSpace(grade)).
		WithRequired(false).
		WithPattern(CompiledPatterns.Grade).
		Validate()
}

// IsValidSemesterName reports whether name can be used as a semester key
func IsValidSemesterName(name string) bool {
	return NewStringValidation(strings.TrimSpace(name)).
		WithMaxLength(SemesterNameMaxLength).
		WithPattern(CompiledPatterns.SemesterName).
		Validate()
}

// RegisterRules adds the grade and semester tags to v
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation(TagGrade, func(fl validator.FieldLevel) bool {
		return IsValidGrade(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register %s: %w", TagGrade, err)
	}
	if err := v.RegisterValidation(TagSemester, func(fl validator.FieldLevel) bool {
		return IsValidSemesterName(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register %s: %w", TagSemester, err)
	}
	return nil
}

// New returns a validator with the rules registered
func New() *validator.Validate {
	v := validator.New()
	if err := RegisterRules(v); err != nil {
		panic(err)
	}
	return v
}

var ginOnce sync.Once

// RegisterGinRules registers the rules on gin's binding validator once per
// process
func RegisterGinRules() {
	ginOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := RegisterRules(v); err != nil {
				panic(err)
			}
		}
	})
}
