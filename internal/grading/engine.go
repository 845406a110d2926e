package grading

import (
	"errors"

	"github.com/yigit/cgpa/internal/app/models"
)

// Engine runs the full grading pass. It holds configuration only and keeps no
// state between calls, so one Engine may be shared freely.
type Engine struct {
	rules   Rules
	include CoursePredicate
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the default rule table.
func WithRules(r Rules) Option {
	return func(e *Engine) {
		e.rules = r
	}
}

// WithPredicate restricts every grouping and total to courses accepted by p.
func WithPredicate(p CoursePredicate) Option {
	return func(e *Engine) {
		e.include = p
	}
}

// NewEngine builds an Engine using DefaultRules unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{rules: DefaultRules()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the engine's rule table.
func (e *Engine) Rules() Rules {
	return e.rules
}

// With returns a copy of e with opts applied on top.
func (e *Engine) With(opts ...Option) *Engine {
	cp := *e
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// Recalculate recomputes quality points, retake flags, semester totals and the
// cumulative summary of p. The input is left untouched.
//
// Every non-deleted course whose credit hours have no bracket is reported;
// the returned error joins one *UnsupportedCreditHoursError per course and
// the zero profile and summary are returned alongside it.
func (e *Engine) Recalculate(p models.Profile) (models.Profile, models.CgpaSummary, error) {
	out := p.Clone()
	names := SortedSemesterNames(out)

	var errs []error
	for _, name := range names {
		sem := out.Semesters[name]
		sem.Name = name
		sem.SortKey = SemesterOrderKey(name)
		sem.IsForecast = sem.IsForecast || sem.SortKey.Forecast

		for i := range sem.Courses {
			c := &sem.Courses[i]
			qp, err := e.rules.QualityPoints(c.Marks, c.CreditHours, c.Grade)
			if err != nil {
				if !c.IsDeleted {
					var chErr *UnsupportedCreditHoursError
					if errors.As(err, &chErr) {
						chErr.Semester = name
						chErr.Course = c.Code
					}
					errs = append(errs, err)
				}
				qp = 0
			}
			c.QualityPoints = qp
		}
		out.Semesters[name] = sem
	}
	if len(errs) > 0 {
		return models.Profile{}, models.CgpaSummary{}, errors.Join(errs...)
	}

	resolveHistory(&out, e.include)

	ordered := make([]models.Semester, 0, len(names))
	for _, name := range names {
		sem := AggregateSemester(out.Semesters[name], e.include)
		out.Semesters[name] = sem
		ordered = append(ordered, sem)
	}
	return out, Summarize(ordered), nil
}

// Recalculate runs a default Engine over p.
func Recalculate(p models.Profile) (models.Profile, models.CgpaSummary, error) {
	return NewEngine().Recalculate(p)
}
