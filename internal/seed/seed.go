package seed

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/cgpa/internal/app/models"
	"github.com/yigit/cgpa/internal/app/models/dto"
)

// DemoRegistration is the registration number of the demo student.
const DemoRegistration = "2020-ag-0001"

// Importer is the part of the profile service the seeder needs.
type Importer interface {
	ImportResults(ctx context.Context, rows []models.ResultRow) (*dto.ProfileResponse, error)
}

// CreateDemoProfile imports a sample transcript with a retaken course, a pass
// grade and a B.Ed course. Importing replaces by registration number, so
// running it on every start keeps a single demo profile.
func CreateDemoProfile(ctx context.Context, importer Importer, lgr zerolog.Logger) error {
	lgr.Info().Str("registration", DemoRegistration).Msg("Creating demo profile...")

	resp, err := importer.ImportResults(ctx, DemoRows())
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating demo profile")
		return err
	}

	lgr.Info().
		Str("profileID", resp.Profile.ID).
		Float64("cgpa", resp.Summary.CGPA).
		Msg("Demo profile ready")
	return nil
}

// DemoRows returns the result rows of the demo student.
func DemoRows() []models.ResultRow {
	row := func(semester, code, title, ch, total, grade string) models.ResultRow {
		return models.ResultRow{
			StudentName:    "Demo Student",
			RegistrationNo: DemoRegistration,
			Semester:       semester,
			CourseCode:     code,
			CourseTitle:    title,
			CreditHours:    ch,
			Total:          total,
			Grade:          grade,
		}
	}

	return []models.ResultRow{
		row("Winter 2020-21", "CS-301", "Programming Fundamentals", "4(3-1)", "58", "B"),
		row("Winter 2020-21", "STAT-301", "Statistics", "3(2-1)", "22", "F"),
		row("Winter 2020-21", "ISL-301", "Islamic Studies", "2(2-0)", "30", "B"),
		row("Spring 2020-21", "STAT-301", "Statistics", "3(2-1)", "41", "B"),
		row("Spring 2020-21", "ENG-301", "English Composition", "3(3-0)", "45", "A"),
		row("Spring 2020-21", "CS-302", "Object Oriented Programming", "4(3-1)", "62", "A"),
		row("Winter 2021-22", "EDU-501", "Foundations of Education", "3(3-0)", "40", "B"),
		row("Winter 2021-22", "CS-401", "Seminar", "1(1-0)", "", "P"),
		row("Winter 2021-22", "CS-402", "Internship", "10(0-10)", "170", "A"),
	}
}
