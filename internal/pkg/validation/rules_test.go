package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidGrade(t *testing.T) {
	for _, g := range []string{"", "A", "b", "B+", "C-", "P", "F"} {
		assert.True(t, IsValidGrade(g), g)
	}
	for _, g := range []string{"AB", "1", "A++", "+"} {
		assert.False(t, IsValidGrade(g), g)
	}
}

func TestIsValidSemesterName(t *testing.T) {
	assert.True(t, IsValidSemesterName("Fall 2021"))
	assert.True(t, IsValidSemesterName("Forecast 3"))
	assert.False(t, IsValidSemesterName(""))
	assert.False(t, IsValidSemesterName("   "))
	assert.False(t, IsValidSemesterName("Fall/2021"))
	assert.False(t, IsValidSemesterName(strings.Repeat("x", SemesterNameMaxLength+1)))
}

func TestRegisterRules(t *testing.T) {
	v := New()

	type course struct {
		Grade    string `validate:"omitempty,grade"`
		Semester string `validate:"semester"`
	}
	require.NoError(t, v.Struct(course{Grade: "A", Semester: "Fall 2021"}))
	assert.Error(t, v.Struct(course{Grade: "AA", Semester: "Fall 2021"}))
	assert.Error(t, v.Struct(course{Grade: "A", Semester: "a/b"}))

	RegisterGinRules()
	RegisterGinRules()
}
