package models

// Grade values with special handling in quality-point calculation.
const (
	GradePass = "P" // pass / credit-only
	GradeFail = "F"
)

// ForecastPrefix starts the name of every what-if semester.
const ForecastPrefix = "Forecast"
