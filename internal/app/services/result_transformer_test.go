package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/cgpa/internal/app/models"
)

func TestNormalizeSemesterName(t *testing.T) {
	tests := map[string]string{
		"Spring 2021-22":      "Spring 2022",
		"  spring   2019-20 ": "Spring 2020",
		"Fall 2021":           "Fall 2021",
		"Winter 2021-22":      "Winter 2021-22",
		"":                    "Unknown",
		"   ":                 "Unknown",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeSemesterName(in), "%q", in)
	}
}

func TestParseCreditHours(t *testing.T) {
	assert.Equal(t, 3, ParseCreditHours("3(2-1)"))
	assert.Equal(t, 10, ParseCreditHours("10(0-10)"))
	assert.Equal(t, 1, ParseCreditHours(" 1 "))
	assert.Equal(t, 0, ParseCreditHours("N/A"))
	assert.Equal(t, 0, ParseCreditHours(""))
}

func TestParseMarks(t *testing.T) {
	assert.Equal(t, 48.0, ParseMarks("48"))
	assert.Equal(t, 47.5, ParseMarks(" 47.5 "))
	assert.Equal(t, 0.5, ParseMarks(".5"))
	assert.Equal(t, 0.0, ParseMarks("absent"))
	assert.Equal(t, 0.0, ParseMarks("-4"))
}

func TestTransformResults(t *testing.T) {
	rows := sampleRows()
	rows[0].TeacherName = " Dr. Saima "

	p := TransformResults(rows, "p1", fixedNow)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, models.StudentInfo{Name: "Ali Raza", Registration: "2019-ag-1234"}, p.Student)
	require.Len(t, p.Semesters, 2)

	spring := p.Semesters["Spring 2022"]
	require.Len(t, spring.Courses, 2)
	assert.Equal(t, "MTH-101", spring.Courses[0].Code)
	assert.Equal(t, "EDU-501", spring.Courses[1].Code)
	assert.Equal(t, models.OrderKey{Year: 2021, Weight: 2}, spring.SortKey)

	cs := p.Semesters["Fall 2020"].Courses[0]
	assert.Equal(t, 3, cs.CreditHours)
	assert.Equal(t, "3(2-1)", cs.CreditHoursDisplay)
	assert.Equal(t, 48.0, cs.Marks)
	assert.Equal(t, "Dr. Saima", cs.Teacher)
	assert.Equal(t, models.SourceLMS, cs.Source)
	assert.Zero(t, cs.QualityPoints)
	assert.Nil(t, cs.Components)
}

func TestTransformResultsKeepsMarkComponents(t *testing.T) {
	rows := sampleRows()
	rows[0].Mid = " 12 "
	rows[0].Final = "24"
	rows[0].Practical = "12"

	p := TransformResults(rows, "p1", fixedNow)

	cs := p.Semesters["Fall 2020"].Courses[0]
	require.NotNil(t, cs.Components)
	assert.Equal(t, models.MarkComponents{Mid: "12", Final: "24", Practical: "12"}, *cs.Components)

	clone := p.Clone()
	clone.Semesters["Fall 2020"].Courses[0].Components.Mid = "0"
	assert.Equal(t, "12", cs.Components.Mid)
}

func TestTransformResultsDefaults(t *testing.T) {
	p := TransformResults([]models.ResultRow{{CourseCode: "CS-101", CreditHours: "3"}}, "p2", fixedNow)

	assert.Equal(t, "Unknown Student (Unknown ID)", p.DisplayName)
	assert.Contains(t, p.Semesters, "Unknown")
}
