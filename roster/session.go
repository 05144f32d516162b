package roster

import (
	"context"

	"classroom-roster/models"
)

// EditSession holds the state of the rename dialog for one classroom
type EditSession struct {
	manager   *Manager
	className string
	studentID string
	name      string
	visible   bool
}

func NewEditSession(m *Manager, className string) *EditSession {
	return &EditSession{manager: m, className: className}
}

// Select opens the editor for a student, pre-filled with its current name
func (e *EditSession) Select(s models.Student) {
	e.studentID = s.ID
	e.name = s.Name
	e.visible = true
}

func (e *EditSession) SetName(name string) { e.name = name }

func (e *EditSession) Name() string { return e.name }

func (e *EditSession) Visible() bool { return e.visible }

func (e *EditSession) Cancel() {
	e.studentID = ""
	e.name = ""
	e.visible = false
}

// Save renames the selected student. The editor closes only when the write succeeded.
func (e *EditSession) Save(ctx context.Context) ([]models.Student, error) {
	students, err := e.manager.RenameStudent(ctx, e.className, e.studentID, e.name)
	if err != nil {
		return students, err
	}
	e.Cancel()
	return students, nil
}
