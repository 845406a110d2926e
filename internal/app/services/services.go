package services

// Services defined in this package:
// - ProfileService: imports result rows, recalculates profiles through the
//   grading engine and manages semesters, courses and forecasts
//
// Helpers:
// - TransformResults: turns raw result rows into a profile
// - ProgramPredicate: course filters for programme-specific CGPA
