package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"classroom-roster/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockKVStore is a mock implementation of KVStore
type MockKVStore struct {
	mock.Mock
}

var _ KVStore = (*MockKVStore)(nil)

func (m *MockKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockKVStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func seedStore(t *testing.T, store KVStore, classrooms []models.Classroom) {
	t.Helper()
	b, err := json.Marshal(classrooms)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), ClassroomsKey, string(b)))
}

func TestLoad_MissingKeyIsEmpty(t *testing.T) {
	repo := NewClassroomRepository(NewMemoryStore())

	classrooms, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, classrooms)
	assert.Empty(t, classrooms)
}

func TestLoad_CorruptBlob(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), ClassroomsKey, "{not json"))

	_, err := NewClassroomRepository(store).Load(context.Background())
	assert.ErrorIs(t, err, ErrCorruptStore)
}

func TestLoad_StorageFailure(t *testing.T) {
	store := new(MockKVStore)
	store.On("Get", mock.Anything, ClassroomsKey).Return("", false, errors.New("disk gone"))

	_, err := NewClassroomRepository(store).Load(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	store.AssertExpectations(t)
}

func TestLoad_LegacyStudentsGetStableIDs(t *testing.T) {
	store := NewMemoryStore()
	legacy := `[{"className":"Math","students":[{"name":"Ana","attendance":[]},{"name":"Bruno"}]}]`
	require.NoError(t, store.Set(context.Background(), ClassroomsKey, legacy))
	repo := NewClassroomRepository(store)

	first, err := repo.Load(context.Background())
	require.NoError(t, err)
	second, err := repo.Load(context.Background())
	require.NoError(t, err)

	students := first[0].Students
	require.Len(t, students, 2)
	assert.NotEmpty(t, students[0].ID)
	assert.NotEqual(t, students[0].ID, students[1].ID)
	assert.Equal(t, students[0].ID, second[0].Students[0].ID)
	assert.NotNil(t, students[1].Attendance)
}

func TestLoad_LegacyIDsUniqueAcrossDuplicateClassNames(t *testing.T) {
	store := NewMemoryStore()
	legacy := `[{"className":"Math","students":[{"name":"Ana"}]},{"className":"Math","students":[{"name":"Ana"}]}]`
	require.NoError(t, store.Set(context.Background(), ClassroomsKey, legacy))

	classrooms, err := NewClassroomRepository(store).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, classrooms, 2)
	assert.NotEqual(t, classrooms[0].Students[0].ID, classrooms[1].Students[0].ID)
}

func TestAddClassroom(t *testing.T) {
	ctx := context.Background()
	repo := NewClassroomRepository(NewMemoryStore())

	c, err := repo.AddClassroom(ctx, "Math")
	require.NoError(t, err)
	assert.Equal(t, "Math", c.ClassName)

	_, err = repo.AddClassroom(ctx, "Math")
	assert.ErrorIs(t, err, ErrClassroomExists)

	_, err = repo.AddClassroom(ctx, "  ")
	assert.ErrorIs(t, err, ErrInvalidClassName)

	_, err = repo.AddClassroom(ctx, "History")
	require.NoError(t, err)

	all, err := repo.ListClassrooms(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Math", all[0].ClassName)
	assert.Equal(t, "History", all[1].ClassName)
}

func TestDeleteClassroom(t *testing.T) {
	ctx := context.Background()
	repo := NewClassroomRepository(NewMemoryStore())
	_, _ = repo.AddClassroom(ctx, "Math")
	_, _ = repo.AddClassroom(ctx, "Art")

	require.NoError(t, repo.DeleteClassroom(ctx, "Math"))
	assert.ErrorIs(t, repo.DeleteClassroom(ctx, "Math"), ErrClassroomNotFound)

	c, err := repo.GetClassroom(ctx, "Math")
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = repo.GetClassroom(ctx, "Art")
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestUpdateClassroom_RewritesWholeStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seedStore(t, store, []models.Classroom{
		{ClassName: "Math", Students: []models.Student{{ID: "a", Name: "Ana", Attendance: []models.AttendanceRecord{}}}},
		{ClassName: "Art", Students: []models.Student{{ID: "b", Name: "Bia", Attendance: []models.AttendanceRecord{}}}},
	})
	repo := NewClassroomRepository(store)

	updated, err := repo.UpdateClassroom(ctx, "Art", func(c *models.Classroom) error {
		c.Students = append(c.Students, models.Student{ID: "c", Name: "Caio", Attendance: []models.AttendanceRecord{}})
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, updated.Students, 2)

	all, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Len(t, all[0].Students, 1, "other classrooms survive the rewrite")
	assert.Len(t, all[1].Students, 2)
}

func TestUpdateClassroom_FirstMatchOnly(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seedStore(t, store, []models.Classroom{
		{ClassName: "Math", Students: []models.Student{}},
		{ClassName: "Math", Students: []models.Student{}},
	})
	repo := NewClassroomRepository(store)

	_, err := repo.UpdateClassroom(ctx, "Math", func(c *models.Classroom) error {
		c.Students = append(c.Students, models.Student{ID: "x", Name: "X"})
		return nil
	})
	require.NoError(t, err)

	all, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, all[0].Students, 1)
	assert.Empty(t, all[1].Students)
}

func TestUpdateClassroom_NotFoundDoesNotWrite(t *testing.T) {
	store := new(MockKVStore)
	store.On("Get", mock.Anything, ClassroomsKey).Return(`[]`, true, nil)

	called := false
	_, err := NewClassroomRepository(store).UpdateClassroom(context.Background(), "Math", func(*models.Classroom) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrClassroomNotFound)
	assert.False(t, called)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateClassroom_NoChangeSkipsWrite(t *testing.T) {
	store := new(MockKVStore)
	store.On("Get", mock.Anything, ClassroomsKey).Return(`[{"className":"Math","students":[]}]`, true, nil)

	c, err := NewClassroomRepository(store).UpdateClassroom(context.Background(), "Math", func(c *models.Classroom) error {
		c.Students = append(c.Students, models.Student{Name: "discarded"})
		return ErrNoChange
	})

	require.NoError(t, err)
	assert.Empty(t, c.Students)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateClassroom_CallbackErrorAborts(t *testing.T) {
	store := new(MockKVStore)
	store.On("Get", mock.Anything, ClassroomsKey).Return(`[{"className":"Math","students":[]}]`, true, nil)
	boom := errors.New("boom")

	_, err := NewClassroomRepository(store).UpdateClassroom(context.Background(), "Math", func(*models.Classroom) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateClassroom_WriteFailure(t *testing.T) {
	store := new(MockKVStore)
	store.On("Get", mock.Anything, ClassroomsKey).Return(`[{"className":"Math","students":[]}]`, true, nil)
	store.On("Set", mock.Anything, ClassroomsKey, mock.Anything).Return(errors.New("quota exceeded"))

	_, err := NewClassroomRepository(store).UpdateClassroom(context.Background(), "Math", func(c *models.Classroom) error {
		c.Students = append(c.Students, models.Student{ID: "x", Name: "X"})
		return nil
	})

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	store.AssertExpectations(t)
}
