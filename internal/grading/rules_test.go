package grading

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/cgpa/internal/pkg/apperrors"
)

func TestQualityPointsThreeCreditHours(t *testing.T) {
	tests := []struct {
		marks float64
		want  float64
	}{
		{60, 12.00},
		{48, 12.00},
		{47, 11.67},
		{40, 9.33},
		{30, 6.00},
		{29, 5.50},
		{24, 3.00},
		{23, 0.00},
		{0, 0.00},
	}

	for _, tt := range tests {
		got, err := QualityPoints(tt.marks, 3, "B")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "marks=%v", tt.marks)
	}
}

func TestQualityPointsSpecialGrades(t *testing.T) {
	for _, ch := range []int{1, 2, 3, 4, 9, 10} {
		for _, marks := range []float64{0, 7, 35, 99, 200} {
			qp, err := QualityPoints(marks, ch, "F")
			require.NoError(t, err)
			assert.Zero(t, qp)

			qp, err = QualityPoints(marks, ch, "P")
			require.NoError(t, err)
			assert.Equal(t, 4.0*float64(ch), qp)
		}
	}

	qp, err := QualityPoints(10, 2, " p ")
	require.NoError(t, err)
	assert.Equal(t, 8.0, qp, "grade should be normalized")
}

func TestQualityPointsBounded(t *testing.T) {
	rules := ExtendedRules()
	for ch := 1; ch <= 10; ch++ {
		for marks := 0.0; marks <= 25*float64(ch); marks += 0.5 {
			qp, err := rules.QualityPoints(marks, ch, "C")
			require.NoError(t, err)
			assert.GreaterOrEqual(t, qp, 0.0)
			assert.LessOrEqual(t, qp, 4*float64(ch))
		}
	}
}

func TestQualityPointsBracketBoundaries(t *testing.T) {
	tests := []struct {
		ch    int
		marks float64
		want  float64
	}{
		{1, 16, 4},
		{1, 10, 2},
		{1, 8, 1},
		{1, 7.99, 0},
		{2, 32, 8},
		{2, 20, 4},
		{4, 64, 16},
		{4, 40, 8},
		{4, 32, 4},
		{9, 144, 36},
		{9, 90, 18},
		{9, 71, 0},
		{10, 160, 40},
		{10, 100, 20},
		{10, 80, 10},
	}

	for _, tt := range tests {
		got, err := QualityPoints(tt.marks, tt.ch, "")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "ch=%d marks=%v", tt.ch, tt.marks)
	}
}

func TestQualityPointsUnsupportedCreditHours(t *testing.T) {
	for _, ch := range []int{5, 6, 7, 8, 11, -1} {
		_, err := QualityPoints(50, ch, "A")
		require.Error(t, err, "ch=%d", ch)
		assert.True(t, errors.Is(err, apperrors.ErrUnsupportedCreditHours))

		var chErr *UnsupportedCreditHoursError
		require.True(t, errors.As(err, &chErr))
		assert.Equal(t, ch, chErr.CreditHours)
	}
}

func TestQualityPointsZeroCreditHours(t *testing.T) {
	qp, err := QualityPoints(0, 0, "")
	require.NoError(t, err)
	assert.Zero(t, qp)
}

func TestExtendedRulesCoverMissingBrackets(t *testing.T) {
	rules := ExtendedRules()

	qp, err := rules.QualityPoints(80, 5, "A")
	require.NoError(t, err)
	assert.Equal(t, 20.0, qp)

	qp, err = rules.QualityPoints(50, 5, "C")
	require.NoError(t, err)
	assert.Equal(t, 10.0, qp)

	_, err = rules.QualityPoints(50, -2, "C")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedCreditHours)
}

func TestRulesCreditHours(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 9, 10}, DefaultRules().CreditHours())
}
