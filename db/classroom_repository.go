package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"classroom-roster/logger"
	"classroom-roster/models"

	"github.com/google/uuid"
)

// ErrNoChange can be returned from an UpdateClassroom callback to skip the write
var ErrNoChange = errors.New("no change")

// legacyIDSpace seeds ids for students persisted before ids existed
var legacyIDSpace = uuid.MustParse("6f1c1b1e-3a7a-4c55-9d0e-2b8a6c1f0e42")

// ClassroomRepository reads and rewrites the whole classroom collection
// stored under ClassroomsKey. Every write replaces the full blob.
type ClassroomRepository struct {
	store KVStore
	key   string
	mu    sync.Mutex // serialises read-modify-write within this process
}

func NewClassroomRepository(store KVStore) *ClassroomRepository {
	return &ClassroomRepository{store: store, key: ClassroomsKey}
}

// Load returns every classroom in stored order. A missing key is an empty collection.
func (r *ClassroomRepository) Load(ctx context.Context) ([]models.Classroom, error) {
	raw, found, err := r.store.Get(ctx, r.key)
	if err != nil {
		logger.Logger.Error().Err(err).Str("key", r.key).Msg("Failed to read classrooms")
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !found || raw == "" {
		return []models.Classroom{}, nil
	}

	var classrooms []models.Classroom
	if err := json.Unmarshal([]byte(raw), &classrooms); err != nil {
		logger.Logger.Error().Err(err).Str("key", r.key).Msg("Failed to decode classrooms")
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	if classrooms == nil {
		classrooms = []models.Classroom{}
	}
	normalize(classrooms)
	return classrooms, nil
}

// Save serialises and writes the full collection
func (r *ClassroomRepository) Save(ctx context.Context, classrooms []models.Classroom) error {
	if classrooms == nil {
		classrooms = []models.Classroom{}
	}
	payload, err := json.Marshal(classrooms)
	if err != nil {
		return fmt.Errorf("failed to encode classrooms: %w", err)
	}
	if err := r.store.Set(ctx, r.key, string(payload)); err != nil {
		logger.Logger.Error().Err(err).Str("key", r.key).Msg("Failed to write classrooms")
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// GetClassroom returns the first classroom named className, or nil if none matches
func (r *ClassroomRepository) GetClassroom(ctx context.Context, className string) (*models.Classroom, error) {
	classrooms, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(classrooms, className); i >= 0 {
		return &classrooms[i], nil
	}
	return nil, nil
}

// ListClassrooms returns all classrooms in stored order
func (r *ClassroomRepository) ListClassrooms(ctx context.Context) ([]models.Classroom, error) {
	return r.Load(ctx)
}

// AddClassroom appends an empty classroom. Names must be non-blank and unique.
func (r *ClassroomRepository) AddClassroom(ctx context.Context, className string) (*models.Classroom, error) {
	if strings.TrimSpace(className) == "" {
		return nil, ErrInvalidClassName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	classrooms, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if indexOf(classrooms, className) >= 0 {
		return nil, ErrClassroomExists
	}

	c := models.Classroom{ClassName: className, Students: []models.Student{}}
	if err := r.Save(ctx, append(classrooms, c)); err != nil {
		return nil, err
	}
	logger.Logger.Info().Str("class", className).Msg("Added classroom")
	return &c, nil
}

// DeleteClassroom removes the first classroom named className
func (r *ClassroomRepository) DeleteClassroom(ctx context.Context, className string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	classrooms, err := r.Load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(classrooms, className)
	if i < 0 {
		return ErrClassroomNotFound
	}
	return r.Save(ctx, append(classrooms[:i], classrooms[i+1:]...))
}

// UpdateClassroom applies fn to a copy of the first classroom named className
// and writes the whole collection back. No match returns ErrClassroomNotFound
// without writing. If fn returns ErrNoChange the unchanged classroom is
// returned and nothing is written; any other fn error aborts the write.
func (r *ClassroomRepository) UpdateClassroom(ctx context.Context, className string, fn func(*models.Classroom) error) (*models.Classroom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	classrooms, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(classrooms, className)
	if i < 0 {
		return nil, ErrClassroomNotFound
	}

	updated := classrooms[i].Clone()
	if err := fn(&updated); err != nil {
		if errors.Is(err, ErrNoChange) {
			return &classrooms[i], nil
		}
		return nil, err
	}

	classrooms[i] = updated
	if err := r.Save(ctx, classrooms); err != nil {
		return nil, err
	}
	return &updated, nil
}

func indexOf(classrooms []models.Classroom, className string) int {
	for i := range classrooms {
		if classrooms[i].ClassName == className {
			return i
		}
	}
	return -1
}

// normalize fills nil slices and gives id-less students a stable id derived
// from their classroom and student positions, so repeated loads agree until
// the next save and duplicate class names still get distinct ids.
func normalize(classrooms []models.Classroom) {
	for ci := range classrooms {
		c := &classrooms[ci]
		if c.Students == nil {
			c.Students = []models.Student{}
		}
		for si := range c.Students {
			s := &c.Students[si]
			if s.ID == "" {
				s.ID = uuid.NewSHA1(legacyIDSpace, []byte(fmt.Sprintf("%d/%s/%d", ci, c.ClassName, si))).String()
			}
			if s.Attendance == nil {
				s.Attendance = []models.AttendanceRecord{}
			}
		}
	}
}
