package models

import "fmt"

// OrderKey orders semesters chronologically.
//
// Keys compare numerically on (Year, Weight). Forecast keys sort after every
// non-forecast key regardless of year.
type OrderKey struct {
	Year     int  `json:"year"`
	Weight   int  `json:"weight"`
	Forecast bool `json:"forecast,omitempty"`
}

// Compare returns -1, 0 or +1 depending on whether k sorts before, equal to or
// after other.
func (k OrderKey) Compare(other OrderKey) int {
	switch {
	case k.Forecast != other.Forecast:
		if k.Forecast {
			return 1
		}
		return -1
	case k.Year != other.Year:
		if k.Year < other.Year {
			return -1
		}
		return 1
	case k.Weight != other.Weight:
		if k.Weight < other.Weight {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether k sorts strictly before other.
func (k OrderKey) Less(other OrderKey) bool {
	return k.Compare(other) < 0
}

func (k OrderKey) String() string {
	if k.Forecast {
		return fmt.Sprintf("%d-%02d", k.Year, k.Weight)
	}
	return fmt.Sprintf("%d-%d", k.Year, k.Weight)
}

// Semester groups the course attempts taken under one display name.
type Semester struct {
	Name               string   `json:"name"`
	SortKey            OrderKey `json:"sortKey"`
	Courses            []Course `json:"courses"`
	GPA                float64  `json:"gpa"`
	Percentage         float64  `json:"percentage"`
	TotalCreditHours   int      `json:"totalCreditHours"`
	TotalMarksObtained float64  `json:"totalMarksObtained"`
	TotalMaxMarks      float64  `json:"totalMaxMarks"`
	TotalQualityPoints float64  `json:"totalQualityPoints"`
	IsForecast         bool     `json:"isForecast"`
}
