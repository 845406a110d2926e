package filestorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/yigit/cgpa/internal/app/models"
	"github.com/yigit/cgpa/internal/pkg/apperrors"
	"github.com/yigit/cgpa/internal/pkg/logger"
)

const profileExt = ".json"

// LocalStorage stores profiles under basePath as <id>.json. All access goes
// through one mutex, so it is safe for a single process only.
type LocalStorage struct {
	basePath string
	mu       sync.RWMutex
}

var _ ProfileFiles = (*LocalStorage)(nil)

// NewLocalStorage creates a new LocalStorage instance, creating basePath when
// it does not exist.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local profile storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// Upsert writes p, replacing any profile with the same registration number.
func (ls *LocalStorage) Upsert(_ context.Context, p *models.Profile) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	all, err := ls.readAll()
	if err != nil {
		return err
	}
	for _, existing := range all {
		if existing.Student.Registration == p.Student.Registration {
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
			break
		}
	}
	return ls.write(p)
}

// Update overwrites an existing profile.
func (ls *LocalStorage) Update(_ context.Context, p *models.Profile) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	path, err := ls.pathFor(p.ID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return apperrors.ErrProfileNotFound
	}
	return ls.write(p)
}

// GetByID reads one profile.
func (ls *LocalStorage) GetByID(_ context.Context, id string) (*models.Profile, error) {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	path, err := ls.pathFor(id)
	if err != nil {
		return nil, err
	}
	return readProfile(path)
}

// List returns profiles ordered by last modification, newest first.
func (ls *LocalStorage) List(_ context.Context, offset uint64, limit int) ([]*models.Profile, int64, error) {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	all, err := ls.readAll()
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].UpdatedAt.Equal(all[j].UpdatedAt) {
			return all[i].UpdatedAt.After(all[j].UpdatedAt)
		}
		return all[i].ID < all[j].ID
	})

	total := int64(len(all))
	if offset >= uint64(len(all)) {
		return []*models.Profile{}, total, nil
	}
	end := int(offset) + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// Delete removes a profile file.
func (ls *LocalStorage) Delete(_ context.Context, id string) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	path, err := ls.pathFor(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Str("path", path).Msg("Failed to delete profile file")
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// pathFor only accepts UUIDs so an ID can never escape basePath.
func (ls *LocalStorage) pathFor(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.ErrProfileNotFound
	}
	return filepath.Join(ls.basePath, id+profileExt), nil
}

func (ls *LocalStorage) write(p *models.Profile) error {
	path, err := ls.pathFor(p.ID)
	if err != nil {
		return fmt.Errorf("invalid profile ID %q", p.ID)
	}

	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	// write-then-rename keeps readers from seeing a partial file
	tmp, err := os.CreateTemp(ls.basePath, ".profile-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to store profile: %w", err)
	}
	return nil
}

func (ls *LocalStorage) readAll() ([]*models.Profile, error) {
	entries, err := os.ReadDir(ls.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	var out []*models.Profile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), profileExt) || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		p, err := readProfile(filepath.Join(ls.basePath, e.Name()))
		if err != nil {
			logger.Warn().Err(err).Str("file", e.Name()).Msg("Skipping unreadable profile file")
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func readProfile(path string) (*models.Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p models.Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", filepath.Base(path), err)
	}
	if p.Semesters == nil {
		p.Semesters = make(map[string]models.Semester)
	}
	return &p, nil
}
