// Package grading converts raw course marks into quality points and folds them
// into semester and cumulative GPA figures.
//
// Every function in this package is pure: profiles are taken by value and a
// fresh snapshot is returned. Derived course state (quality points, repeat and
// extra-enrolment flags) is recomputed from scratch on each pass.
package grading
