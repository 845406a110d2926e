package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yigit/cgpa/internal/app/models"
	"github.com/yigit/cgpa/internal/pkg/apperrors"
	"github.com/yigit/cgpa/internal/pkg/dberrors"
	"github.com/yigit/cgpa/internal/pkg/logger"
)

const (
	profilesTable = "profiles"
	// registrationConstraint is the unique constraint on profiles.registration.
	registrationConstraint = "profiles_registration_key"
)

var profileColumns = []string{
	"id", "registration", "student_name", "display_name", "semesters", "created_at", "updated_at",
}

// DBTX is the subset of pgx used by repositories. Both *pgxpool.Pool and
// pgx.Tx satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProfileRepository stores profiles in PostgreSQL. Semesters, courses and
// their derived figures are kept as one JSONB document per profile.
type ProfileRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository bound to tx
func (r *ProfileRepository) WithTx(tx pgx.Tx) *ProfileRepository {
	return &ProfileRepository{db: tx, sb: r.sb}
}

// Upsert inserts the profile or replaces the one with the same registration
// number. The stored ID and creation time are written back to p.
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	sql, args, err := r.upsertQuery(p)
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert profile SQL")
		return fmt.Errorf("failed to build upsert profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		logger.Error().Err(err).Str("registration", p.Student.Registration).Msg("Error executing upsert profile query")
		return fmt.Errorf("error upserting profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) upsertQuery(p *models.Profile) (string, []interface{}, error) {
	semesters, err := encodeSemesters(p.Semesters)
	if err != nil {
		return "", nil, err
	}

	return r.sb.Insert(profilesTable).
		Columns(profileColumns...).
		Values(p.ID, p.Student.Registration, p.Student.Name, p.DisplayName, semesters, p.CreatedAt, p.UpdatedAt).
		Suffix(`ON CONFLICT (registration) DO UPDATE SET
			student_name = EXCLUDED.student_name,
			display_name = EXCLUDED.display_name,
			semesters = EXCLUDED.semesters,
			updated_at = EXCLUDED.updated_at
			RETURNING id, created_at`).
		ToSql()
}

// Update overwrites a stored profile
func (r *ProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	sql, args, err := r.updateQuery(p)
	if err != nil {
		logger.Error().Err(err).Msg("Error building update profile SQL")
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, registrationConstraint) {
			return apperrors.NewConflictError(fmt.Sprintf("a profile for registration %q already exists", p.Student.Registration))
		}
		logger.Error().Err(err).Str("profileID", p.ID).Msg("Error executing update profile query")
		return fmt.Errorf("error updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepository) updateQuery(p *models.Profile) (string, []interface{}, error) {
	semesters, err := encodeSemesters(p.Semesters)
	if err != nil {
		return "", nil, err
	}

	return r.sb.Update(profilesTable).
		SetMap(map[string]interface{}{
			"registration": p.Student.Registration,
			"student_name": p.Student.Name,
			"display_name": p.DisplayName,
			"semesters":    semesters,
			"updated_at":   p.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns...).
		From(profilesTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get profile SQL")
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Str("profileID", id).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error getting profile by ID: %w", err)
	}
	return p, nil
}

// List returns one page of profiles, most recently modified first, and the
// total number of stored profiles
func (r *ProfileRepository) List(ctx context.Context, offset uint64, limit int) ([]*models.Profile, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From(profilesTable).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count profiles query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting profiles")
		return nil, 0, fmt.Errorf("error counting profiles: %w", err)
	}
	if total == 0 {
		return []*models.Profile{}, 0, nil
	}

	sql, args, err := r.listQuery(offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list profiles query")
		return nil, 0, fmt.Errorf("error querying profiles: %w", err)
	}
	defer rows.Close()

	profiles := []*models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning profile row during list")
			return nil, 0, fmt.Errorf("error scanning profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating profile rows: %w", err)
	}

	return profiles, total, nil
}

func (r *ProfileRepository) listQuery(offset uint64, limit int) (string, []interface{}, error) {
	return r.sb.Select(profileColumns...).
		From(profilesTable).
		OrderBy("updated_at DESC", "id ASC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
}

// Delete removes a profile
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete(profilesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete profile query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("profileID", id).Msg("Error executing delete profile query")
		return fmt.Errorf("error deleting profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var (
		p         models.Profile
		semesters []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&p.ID, &p.Student.Registration, &p.Student.Name, &p.DisplayName,
		&semesters, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	decoded, err := decodeSemesters(semesters)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.ID, err)
	}
	p.Semesters = decoded
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return &p, nil
}

func encodeSemesters(semesters map[string]models.Semester) ([]byte, error) {
	if semesters == nil {
		semesters = map[string]models.Semester{}
	}
	b, err := json.Marshal(semesters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode semesters: %w", err)
	}
	return b, nil
}

func decodeSemesters(b []byte) (map[string]models.Semester, error) {
	semesters := make(map[string]models.Semester)
	if len(b) == 0 {
		return semesters, nil
	}
	if err := json.Unmarshal(b, &semesters); err != nil {
		return nil, fmt.Errorf("failed to decode semesters: %w", err)
	}
	for name, sem := range semesters {
		sem.Name = name
		if sem.Courses == nil {
			sem.Courses = []models.Course{}
		}
		semesters[name] = sem
	}
	return semesters, nil
}
