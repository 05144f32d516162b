package roster

import (
	"context"
	"testing"

	"classroom-roster/db"
	"classroom-roster/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEditSession_SaveClosesEditor(t *testing.T) {
	ctx := context.Background()
	m, _ := setupManager(t, "Math")
	students, err := m.AddStudent(ctx, "Math", "Ana")
	require.NoError(t, err)

	e := NewEditSession(m, "Math")
	assert.False(t, e.Visible())

	e.Select(students[0])
	assert.True(t, e.Visible())
	assert.Equal(t, "Ana", e.Name())

	e.SetName("Ana Maria")
	updated, err := e.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated[0].Name)
	assert.False(t, e.Visible())
	assert.Empty(t, e.Name())
}

func TestEditSession_StorageFailureKeepsEditorOpen(t *testing.T) {
	store := new(MockClassroomStore)
	store.On("UpdateClassroom", mock.Anything, "Math", mock.Anything).Return(nil, db.ErrStorageUnavailable)

	e := NewEditSession(NewManager(store, nil), "Math")
	e.Select(models.Student{ID: "s1", Name: "Ana"})
	e.SetName("Ana Maria")

	_, err := e.Save(context.Background())
	assert.ErrorIs(t, err, db.ErrStorageUnavailable)
	assert.True(t, e.Visible())
	assert.Equal(t, "Ana Maria", e.Name())
}

func TestEditSession_Cancel(t *testing.T) {
	ctx := context.Background()
	m, store := setupManager(t, "Math")
	students, _ := m.AddStudent(ctx, "Math", "Ana")
	store.sets = 0

	e := NewEditSession(m, "Math")
	e.Select(students[0])
	e.SetName("Other")
	e.Cancel()

	assert.False(t, e.Visible())
	assert.Zero(t, store.sets)
	roster, _ := m.LoadRoster(ctx, "Math")
	assert.Equal(t, "Ana", roster[0].Name)
}
