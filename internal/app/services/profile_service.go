package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/cgpa/internal/app/models"
	"github.com/yigit/cgpa/internal/app/models/dto"
	"github.com/yigit/cgpa/internal/grading"
	"github.com/yigit/cgpa/internal/pkg/apperrors"
	"github.com/yigit/cgpa/internal/pkg/helpers"
	"github.com/yigit/cgpa/internal/pkg/validation"
)

// ProfileStore persists profiles. Cumulative figures are never stored.
type ProfileStore interface {
	// Upsert inserts p or replaces the profile with the same registration,
	// setting p.ID and p.CreatedAt to the stored values.
	Upsert(ctx context.Context, p *models.Profile) error
	Update(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context, offset uint64, limit int) ([]*models.Profile, int64, error)
	Delete(ctx context.Context, id string) error
}

// ProfileService defines the interface for profile and CGPA operations
type ProfileService interface {
	ImportResults(ctx context.Context, rows []models.ResultRow) (*dto.ProfileResponse, error)
	Calculate(ctx context.Context, profile models.Profile, program string) (*dto.ProfileResponse, error)
	GetProfile(ctx context.Context, id, program string) (*dto.ProfileResponse, error)
	ListProfiles(ctx context.Context, page, size int) ([]dto.ProfileListItem, dto.PaginationInfo, error)
	DeleteProfile(ctx context.Context, id string) error
	AddForecastSemester(ctx context.Context, id string) (*dto.ProfileResponse, error)
	DeleteSemester(ctx context.Context, id, semester string) (*dto.ProfileResponse, error)
	AddCourse(ctx context.Context, id, semester string, course models.Course) (*dto.ProfileResponse, error)
	UpdateCourse(ctx context.Context, id, semester string, index int, req dto.UpdateCourseRequest) (*dto.ProfileResponse, error)
	SetCourseDeleted(ctx context.Context, id, semester string, index int, deleted bool) (*dto.ProfileResponse, error)
	Trend(ctx context.Context, id string) ([]dto.TrendPoint, error)
}

// profileServiceImpl implements the ProfileService interface
type profileServiceImpl struct {
	store    ProfileStore
	engine   *grading.Engine
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
	newID    func() string
}

// NewProfileService creates a new profile service instance
func NewProfileService(store ProfileStore, engine *grading.Engine, logger zerolog.Logger) ProfileService {
	return &profileServiceImpl{
		store:    store,
		engine:   engine,
		validate: validation.New(),
		logger:   logger.With().Str("service", "profile").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// ImportResults builds a profile from raw result rows, grades it and stores it
// under the student's registration number
func (s *profileServiceImpl) ImportResults(ctx context.Context, rows []models.ResultRow) (*dto.ProfileResponse, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewValidationError("no result rows")
	}
	for i := range rows {
		if err := s.validate.Struct(rows[i]); err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("row %d: %v", i, err))
		}
	}

	profile := TransformResults(rows, s.newID(), s.now())

	graded, summary, err := s.engine.Recalculate(profile)
	if err != nil {
		s.logger.Warn().Err(err).Str("registration", profile.Student.Registration).Msg("Imported results could not be graded")
		return nil, err
	}

	if err := s.store.Upsert(ctx, &graded); err != nil {
		return nil, fmt.Errorf("error saving imported profile: %w", err)
	}

	s.logger.Info().
		Str("profileID", graded.ID).
		Str("registration", graded.Student.Registration).
		Int("semesters", len(graded.Semesters)).
		Int("rows", len(rows)).
		Float64("cgpa", summary.CGPA).
		Msg("Results imported")

	return newProfileResponse(graded, summary), nil
}

// Calculate grades a caller-supplied profile without storing it
func (s *profileServiceImpl) Calculate(ctx context.Context, profile models.Profile, program string) (*dto.ProfileResponse, error) {
	engine, err := s.engineFor(program)
	if err != nil {
		return nil, err
	}

	graded, summary, err := engine.Recalculate(profile)
	if err != nil {
		return nil, err
	}
	return newProfileResponse(graded, summary), nil
}

// GetProfile loads a profile and recomputes its summary, optionally limited to
// one programme's courses
func (s *profileServiceImpl) GetProfile(ctx context.Context, id, program string) (*dto.ProfileResponse, error) {
	engine, err := s.engineFor(program)
	if err != nil {
		return nil, err
	}

	profile, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	graded, summary, err := engine.Recalculate(*profile)
	if err != nil {
		return nil, err
	}
	return newProfileResponse(graded, summary), nil
}

// ListProfiles returns one page of stored profiles with their current CGPA.
// A profile the engine rejects is still listed, with a zero CGPA and the
// grading error attached.
func (s *profileServiceImpl) ListProfiles(ctx context.Context, page, size int) ([]dto.ProfileListItem, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	profiles, total, err := s.store.List(ctx, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error listing profiles: %w", err)
	}

	items := make([]dto.ProfileListItem, 0, len(profiles))
	for _, p := range profiles {
		item := dto.ProfileListItem{
			ID:            p.ID,
			DisplayName:   p.DisplayName,
			Registration:  p.Student.Registration,
			SemesterCount: len(p.Semesters),
			UpdatedAt:     p.UpdatedAt,
		}
		if _, summary, err := s.engine.Recalculate(*p); err != nil {
			s.logger.Warn().Err(err).Str("profileID", p.ID).Msg("Stored profile could not be graded")
			item.GradingError = err.Error()
		} else {
			item.CGPA = summary.CGPA
		}
		items = append(items, item)
	}

	return items, helpers.NewPaginationInfo(total, page, limit), nil
}

// DeleteProfile removes a stored profile
func (s *profileServiceImpl) DeleteProfile(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return apperrors.ErrProfileNotFound
		}
		return fmt.Errorf("error deleting profile: %w", err)
	}
	s.logger.Info().Str("profileID", id).Msg("Profile deleted")
	return nil
}

// AddForecastSemester appends an empty what-if semester named "Forecast N"
// using the smallest free N
func (s *profileServiceImpl) AddForecastSemester(ctx context.Context, id string) (*dto.ProfileResponse, error) {
	return s.mutate(ctx, id, func(p *models.Profile) error {
		name := NextForecastName(p.Semesters)
		p.Semesters[name] = models.Semester{
			Name:       name,
			SortKey:    grading.SemesterOrderKey(name),
			Courses:    []models.Course{},
			IsForecast: true,
		}
		s.logger.Debug().Str("profileID", id).Str("semester", name).Msg("Forecast semester added")
		return nil
	})
}

// DeleteSemester removes a semester and all of its courses
func (s *profileServiceImpl) DeleteSemester(ctx context.Context, id, semester string) (*dto.ProfileResponse, error) {
	return s.mutate(ctx, id, func(p *models.Profile) error {
		if _, ok := p.Semesters[semester]; !ok {
			return semesterNotFound(semester)
		}
		delete(p.Semesters, semester)
		return nil
	})
}

// AddCourse appends a manually entered course, creating the semester on first
// insertion
func (s *profileServiceImpl) AddCourse(ctx context.Context, id, semester string, course models.Course) (*dto.ProfileResponse, error) {
	semester = strings.TrimSpace(semester)
	if !validation.IsValidSemesterName(semester) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid semester name %q", semester))
	}
	if err := s.validate.Struct(course); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	course.IsCustom = true
	course.IsDeleted = false
	course.Source = models.SourceCustom

	return s.mutate(ctx, id, func(p *models.Profile) error {
		sem, ok := p.Semesters[semester]
		if !ok {
			key := grading.SemesterOrderKey(semester)
			sem = models.Semester{Name: semester, SortKey: key, IsForecast: key.Forecast}
		}
		sem.Courses = append(sem.Courses, course)
		p.Semesters[semester] = sem
		return nil
	})
}

// UpdateCourse applies a user edit to the marks, credit hours or grade of a
// course
func (s *profileServiceImpl) UpdateCourse(ctx context.Context, id, semester string, index int, req dto.UpdateCourseRequest) (*dto.ProfileResponse, error) {
	if req.Marks != nil && *req.Marks < 0 {
		return nil, apperrors.NewValidationError("marks cannot be negative")
	}
	if req.CreditHours != nil && *req.CreditHours < 0 {
		return nil, apperrors.NewValidationError("credit hours cannot be negative")
	}
	if req.Grade != nil && !validation.IsValidGrade(*req.Grade) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid grade %q", *req.Grade))
	}

	return s.mutate(ctx, id, func(p *models.Profile) error {
		c, err := courseAt(p, semester, index)
		if err != nil {
			return err
		}
		if req.Marks != nil {
			c.Marks = *req.Marks
		}
		if req.CreditHours != nil {
			c.CreditHours = *req.CreditHours
		}
		if req.Grade != nil {
			c.Grade = strings.TrimSpace(*req.Grade)
		}
		return nil
	})
}

// SetCourseDeleted soft-deletes or restores a course; the course always stays
// in the semester's list
func (s *profileServiceImpl) SetCourseDeleted(ctx context.Context, id, semester string, index int, deleted bool) (*dto.ProfileResponse, error) {
	return s.mutate(ctx, id, func(p *models.Profile) error {
		c, err := courseAt(p, semester, index)
		if err != nil {
			return err
		}
		c.IsDeleted = deleted
		return nil
	})
}

// Trend returns each semester's GPA in chronological order
func (s *profileServiceImpl) Trend(ctx context.Context, id string) ([]dto.TrendPoint, error) {
	profile, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	graded, _, err := s.engine.Recalculate(*profile)
	if err != nil {
		return nil, err
	}

	semesters := grading.SortedSemesters(graded)
	points := make([]dto.TrendPoint, 0, len(semesters))
	for _, sem := range semesters {
		points = append(points, dto.TrendPoint{
			Semester:   sem.Name,
			GPA:        sem.GPA,
			IsForecast: sem.IsForecast,
		})
	}
	return points, nil
}

// mutate loads a profile, applies fn, regrades the whole profile and stores
// the result. Nothing is stored when fn or grading fails.
func (s *profileServiceImpl) mutate(ctx context.Context, id string, fn func(p *models.Profile) error) (*dto.ProfileResponse, error) {
	profile, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	working := profile.Clone()
	if err := fn(&working); err != nil {
		return nil, err
	}

	graded, summary, err := s.engine.Recalculate(working)
	if err != nil {
		s.logger.Warn().Err(err).Str("profileID", id).Msg("Profile change rejected by grading")
		return nil, err
	}
	graded.UpdatedAt = s.now()

	if err := s.store.Update(ctx, &graded); err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return newProfileResponse(graded, summary), nil
}

func (s *profileServiceImpl) load(ctx context.Context, id string) (*models.Profile, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	profile, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}
	if profile.Semesters == nil {
		profile.Semesters = make(map[string]models.Semester)
	}
	return profile, nil
}

func (s *profileServiceImpl) engineFor(program string) (*grading.Engine, error) {
	pred, err := ProgramPredicate(program)
	if err != nil {
		return nil, err
	}
	if pred == nil {
		return s.engine, nil
	}
	return s.engine.With(grading.WithPredicate(pred)), nil
}

// NextForecastName returns "Forecast N" for the smallest N >= 1 not yet used.
func NextForecastName(semesters map[string]models.Semester) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s %d", models.ForecastPrefix, n)
		if _, taken := semesters[name]; !taken {
			return name
		}
	}
}

func courseAt(p *models.Profile, semester string, index int) (*models.Course, error) {
	sem, ok := p.Semesters[semester]
	if !ok {
		return nil, semesterNotFound(semester)
	}
	if index < 0 || index >= len(sem.Courses) {
		return nil, apperrors.NewCustomError(apperrors.ErrCourseNotFound,
			fmt.Sprintf("course %d not found in semester %q", index, semester))
	}
	return &p.Semesters[semester].Courses[index], nil
}

func semesterNotFound(name string) error {
	return apperrors.NewCustomError(apperrors.ErrSemesterNotFound, fmt.Sprintf("semester %q not found", name))
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError("invalid profile ID")
	}
	return nil
}

func newProfileResponse(p models.Profile, summary models.CgpaSummary) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		Profile:   p,
		Summary:   summary,
		Semesters: grading.SortedSemesters(p),
	}
}
