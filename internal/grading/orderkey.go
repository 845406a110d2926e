package grading

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/yigit/cgpa/internal/app/models"
)

const (
	// ForecastYear is the year component of every forecast key.
	ForecastYear = 3000
	// UndatedYear is used for names without a four-digit year.
	UndatedYear = 9999
	// UnknownSeason is the weight of names without a recognised season.
	UnknownSeason = 9
)

var (
	yearPattern     = regexp.MustCompile(`\d{4}`)
	sequencePattern = regexp.MustCompile(`(\d+)\s*$`)
)

// seasons are matched in order; the first substring hit wins.
var seasons = []struct {
	name       string
	weight     int
	yearOffset int
}{
	{"winter", 1, 0},
	{"spring", 2, -1},
	{"summer", 3, -1},
	{"fall", 4, 0},
}

// SemesterOrderKey maps a semester display name to its chronological key.
//
// "Fall 2021" → (2021, 4), "Spring 2021" → (2020, 2): spring and summer belong
// to the academic year that started the previous calendar year. Names starting
// with "forecast" map to (3000, n) where n is the trailing number (1 when
// absent) and always sort last. Names without a year map to (9999, 9).
func SemesterOrderKey(name string) models.OrderKey {
	n := strings.ToLower(strings.TrimSpace(name))

	if strings.HasPrefix(n, "forecast") {
		seq := 1
		if m := sequencePattern.FindStringSubmatch(n); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				seq = v
			}
		}
		return models.OrderKey{Year: ForecastYear, Weight: seq, Forecast: true}
	}

	match := yearPattern.FindString(n)
	if match == "" {
		return models.OrderKey{Year: UndatedYear, Weight: UnknownSeason}
	}
	year, _ := strconv.Atoi(match)

	for _, s := range seasons {
		if strings.Contains(n, s.name) {
			return models.OrderKey{Year: year + s.yearOffset, Weight: s.weight}
		}
	}
	return models.OrderKey{Year: year, Weight: UnknownSeason}
}

// SortedSemesterNames returns the semester names of p in chronological order.
// Names with equal keys are ordered lexically so the result is deterministic.
func SortedSemesterNames(p models.Profile) []string {
	type entry struct {
		name string
		key  models.OrderKey
	}
	entries := make([]entry, 0, len(p.Semesters))
	for name := range p.Semesters {
		entries = append(entries, entry{name: name, key: SemesterOrderKey(name)})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := a.key.Compare(b.key); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// SortedSemesters returns the semesters of p in chronological order.
func SortedSemesters(p models.Profile) []models.Semester {
	names := SortedSemesterNames(p)
	out := make([]models.Semester, len(names))
	for i, name := range names {
		out[i] = p.Semesters[name]
	}
	return out
}
