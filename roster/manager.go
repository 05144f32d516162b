// Package roster implements add/rename/delete of students on one classroom's
// roster. Each mutation is a full read-modify-write of the stored classroom
// collection; nothing is cached between calls.
package roster

import (
	"context"
	"errors"
	"math/rand"

	"classroom-roster/db"
	"classroom-roster/logger"
	"classroom-roster/models"
	"classroom-roster/validator"

	"github.com/google/uuid"
)

var ErrInvalidStudentName = errors.New("student name cannot be blank")

// ClassroomStore is the persistence the manager needs. *db.ClassroomRepository implements it.
type ClassroomStore interface {
	GetClassroom(ctx context.Context, className string) (*models.Classroom, error)
	AddClassroom(ctx context.Context, className string) (*models.Classroom, error)
	UpdateClassroom(ctx context.Context, className string, fn func(*models.Classroom) error) (*models.Classroom, error)
}

type Manager struct {
	store    ClassroomStore
	validate *validator.Validator
	newID    func() string
	pick     func(n int) int
}

func NewManager(store ClassroomStore, v *validator.Validator) *Manager {
	if v == nil {
		v = validator.New()
	}
	return &Manager{
		store:    store,
		validate: v,
		newID:    uuid.NewString,
		pick:     rand.Intn,
	}
}

// LoadRoster returns the students of the first classroom named className.
// A missing store or classroom yields an empty roster, not an error.
func (m *Manager) LoadRoster(ctx context.Context, className string) ([]models.Student, error) {
	c, err := m.store.GetClassroom(ctx, className)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return []models.Student{}, nil
	}
	return c.Students, nil
}

// AddStudent appends a new student with no attendance. A blank name leaves the
// roster untouched and returns it with ErrInvalidStudentName.
func (m *Manager) AddStudent(ctx context.Context, className, name string) ([]models.Student, error) {
	if err := m.checkName(name); err != nil {
		return m.unchanged(ctx, className, err)
	}

	c, err := m.store.UpdateClassroom(ctx, className, func(c *models.Classroom) error {
		c.Students = append(c.Students, models.Student{
			ID:         m.newID(),
			Name:       name,
			Attendance: []models.AttendanceRecord{},
		})
		return nil
	})
	return m.result(className, "add", c, err)
}

// RenameStudent replaces the name of the student with studentID as given.
// Attendance is kept as is. An unknown id is a no-op.
func (m *Manager) RenameStudent(ctx context.Context, className, studentID, newName string) ([]models.Student, error) {
	c, err := m.store.UpdateClassroom(ctx, className, func(c *models.Classroom) error {
		i := indexOfStudent(c.Students, studentID)
		if i < 0 {
			return db.ErrNoChange
		}
		c.Students[i].Name = newName
		return nil
	})
	return m.result(className, "rename", c, err)
}

// DeleteStudent removes the student with studentID. An unknown id is a no-op.
func (m *Manager) DeleteStudent(ctx context.Context, className, studentID string) ([]models.Student, error) {
	c, err := m.store.UpdateClassroom(ctx, className, func(c *models.Classroom) error {
		i := indexOfStudent(c.Students, studentID)
		if i < 0 {
			return db.ErrNoChange
		}
		c.Students = append(c.Students[:i], c.Students[i+1:]...)
		return nil
	})
	return m.result(className, "delete", c, err)
}

// RandomStudent picks one student for roll call, or nil when the roster is empty
func (m *Manager) RandomStudent(ctx context.Context, className string) (*models.Student, error) {
	students, err := m.LoadRoster(ctx, className)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, nil
	}
	s := students[m.pick(len(students))]
	return &s, nil
}

func (m *Manager) checkName(name string) error {
	if err := m.validate.Var(name, "notblank"); err != nil {
		return ErrInvalidStudentName
	}
	return nil
}

// unchanged reloads the current roster so a rejected call still hands back the authoritative list
func (m *Manager) unchanged(ctx context.Context, className string, cause error) ([]models.Student, error) {
	students, err := m.LoadRoster(ctx, className)
	if err != nil {
		return nil, err
	}
	return students, cause
}

func (m *Manager) result(className, op string, c *models.Classroom, err error) ([]models.Student, error) {
	if errors.Is(err, db.ErrClassroomNotFound) {
		logger.Logger.Debug().Str("class", className).Str("op", op).Msg("Classroom not found, nothing changed")
		return []models.Student{}, nil
	}
	if err != nil {
		logger.Logger.Error().Err(err).Str("class", className).Str("op", op).Msg("Roster update failed")
		return nil, err
	}
	return c.Students, nil
}

func indexOfStudent(students []models.Student, id string) int {
	for i := range students {
		if students[i].ID == id {
			return i
		}
	}
	return -1
}
