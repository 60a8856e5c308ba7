package todo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/example/tasks-service/domain/todo"
)

func createTestTodo(t *testing.T, m *TodoModule, req CreateTodoRequest) TodoView {
	t.Helper()

	if req.AssignedBy == "" {
		req.AssignedBy = "Ram"
	}
	if req.AssignedTo == "" {
		req.AssignedTo = "Sita"
	}
	result, err := m.createTodo(context.Background(), req, nil)
	require.NoError(t, err)
	require.Empty(t, result.Error)
	require.True(t, result.Found)
	return result.Todo
}

func TestCreateGroup(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)

	result, err := m.createGroup(context.Background(), CreateGroupRequest{Name: "Eng"}, nil)
	require.NoError(t, err)
	require.Empty(t, result.Error)

	assert.True(t, result.Found)
	assert.NotZero(t, result.Group.ID)
	assert.Equal(t, "Eng", result.Group.Name)
	assert.NotNil(t, result.Group.Todos)
	assert.Empty(t, result.Group.Todos)
}

func TestCreateGroup_Validation(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)

	result, err := m.createGroup(context.Background(), CreateGroupRequest{Name: "  "}, nil)
	require.NoError(t, err)
	assert.Equal(t, "name is required", result.Error)
}

func TestCreateGroup_DuplicateName(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)
	ctx := context.Background()

	_, err := m.createGroup(ctx, CreateGroupRequest{Name: "Eng"}, nil)
	require.NoError(t, err)

	result, err := m.createGroup(ctx, CreateGroupRequest{Name: "Eng"}, nil)
	require.NoError(t, err)
	assert.Contains(t, result.Error, "UNIQUE")
	assert.False(t, result.Found)
}

func TestListGroups_NewestFirst(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := m.createGroup(ctx, CreateGroupRequest{Name: name}, nil)
		require.NoError(t, err)
	}

	result, err := m.listGroups(ctx, ListGroupsRequest{}, nil)
	require.NoError(t, err)
	require.Len(t, result.Groups, 3)

	names := []string{result.Groups[0].Name, result.Groups[1].Name, result.Groups[2].Name}
	assert.Equal(t, []string{"C", "B", "A"}, names)
}

func TestGetGroup_NotFound(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)

	result, err := m.getGroup(context.Background(), GetGroupRequest{GroupID: 7}, nil)
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Empty(t, result.Error)
}

func TestCreateTodo_Priority(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)

	for p := domain.MinPriority; p <= domain.MaxPriority; p++ {
		todo := createTestTodo(t, m, CreateTodoRequest{Task: "task", Priority: ptr(p)})
		require.NotNil(t, todo.Priority)
		assert.Equal(t, p, *todo.Priority)
	}

	for _, p := range []int{-1, 4} {
		result, err := m.createTodo(context.Background(), CreateTodoRequest{
			Task: "task", AssignedBy: "Ram", AssignedTo: "Sita", Priority: ptr(p),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "priority must be between 0 and 3", result.Error)
	}
}

func TestCreateTodo_RequiredFields(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)

	tests := []struct {
		name string
		req  CreateTodoRequest
		want string
	}{
		{"missing task", CreateTodoRequest{AssignedBy: "a", AssignedTo: "b"}, "task is required"},
		{"missing assigned_by", CreateTodoRequest{Task: "t", AssignedTo: "b"}, "assigned_by is required"},
		{"missing assigned_to", CreateTodoRequest{Task: "t", AssignedBy: "a"}, "assigned_to is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := m.createTodo(context.Background(), tt.req, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Error)
		})
	}
}

func TestCreateTodo_UnknownGroup(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)

	result, err := m.createTodo(context.Background(), CreateTodoRequest{
		Task: "task", AssignedBy: "Ram", AssignedTo: "Sita", GroupID: ptr(uint(99)),
	}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Error)
}

func TestCreateTodo_SubtaskVisibleOnParent(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)
	ctx := context.Background()

	parent := createTestTodo(t, m, CreateTodoRequest{Task: "parent"})
	child := createTestTodo(t, m, CreateTodoRequest{Task: "child", ParentID: &parent.ID})

	result, err := m.getTodo(ctx, GetTodoRequest{TodoID: parent.ID}, nil)
	require.NoError(t, err)
	require.True(t, result.Found)
	require.Len(t, result.Todo.Subtasks, 1)
	assert.Equal(t, child.ID, result.Todo.Subtasks[0].ID)
	assert.Equal(t, "child", result.Todo.Subtasks[0].Task)
}

func TestDeleteGroup_TodosBecomeNotFound(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)
	ctx := context.Background()

	group, err := m.createGroup(ctx, CreateGroupRequest{Name: "Eng"}, nil)
	require.NoError(t, err)

	owned := createTestTodo(t, m, CreateTodoRequest{Task: "owned", GroupID: &group.Group.ID})
	sub := createTestTodo(t, m, CreateTodoRequest{Task: "sub", ParentID: &owned.ID})

	result, err := m.deleteGroup(ctx, DeleteGroupRequest{GroupID: group.Group.ID}, nil)
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.ElementsMatch(t, []uint{owned.ID, sub.ID}, result.DeletedIDs)

	for _, id := range []uint{owned.ID, sub.ID} {
		got, err := m.getTodo(ctx, GetTodoRequest{TodoID: id}, nil)
		require.NoError(t, err)
		assert.False(t, got.Found, "todo %d should be gone", id)
	}

	got, err := m.getGroup(ctx, GetGroupRequest{GroupID: group.Group.ID}, nil)
	require.NoError(t, err)
	assert.False(t, got.Found)
}

func TestUpdateTodo_PriorityOnly(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)
	ctx := context.Background()

	original := createTestTodo(t, m, CreateTodoRequest{
		Task:        "Write report",
		Description: ptr("quarterly"),
		Priority:    ptr(3),
	})

	result, err := m.updateTodo(ctx, UpdateTodoRequest{
		TodoID:  original.ID,
		Changes: TodoChanges{Priority: ptr(0)},
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Found)

	updated := result.Todo
	require.NotNil(t, updated.Priority)
	assert.Equal(t, 0, *updated.Priority)
	assert.Equal(t, original.Task, updated.Task)
	assert.Equal(t, original.Description, updated.Description)
	assert.Equal(t, original.AssignedBy, updated.AssignedBy)
	assert.Equal(t, original.AssignedTo, updated.AssignedTo)
	assert.Equal(t, original.Completed, updated.Completed)
}

func TestUpdateTodo_Clear(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)
	ctx := context.Background()

	original := createTestTodo(t, m, CreateTodoRequest{Task: "t", Description: ptr("d"), Priority: ptr(1)})

	result, err := m.updateTodo(ctx, UpdateTodoRequest{
		TodoID:  original.ID,
		Changes: TodoChanges{Cleared: []string{ColumnDescription, ColumnPriority}},
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.Nil(t, result.Todo.Description)
	assert.Nil(t, result.Todo.Priority)
}

func TestUpdateTodo_Rejected(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)
	ctx := context.Background()

	parent := createTestTodo(t, m, CreateTodoRequest{Task: "parent"})
	child := createTestTodo(t, m, CreateTodoRequest{Task: "child", ParentID: &parent.ID})

	tests := []struct {
		name    string
		changes TodoChanges
		want    string
	}{
		{"clear task", TodoChanges{Cleared: []string{"task"}}, "task cannot be null"},
		{"empty task", TodoChanges{Task: ptr("")}, "task cannot be empty"},
		{"priority out of range", TodoChanges{Priority: ptr(9)}, "priority must be between 0 and 3"},
		{"cycle", TodoChanges{ParentID: &child.ID}, ErrInvalidParent.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := m.updateTodo(ctx, UpdateTodoRequest{TodoID: parent.ID, Changes: tt.changes}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Error)
		})
	}
}

func TestUpdateTodo_NotFound(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)

	result, err := m.updateTodo(context.Background(), UpdateTodoRequest{
		TodoID:  404,
		Changes: TodoChanges{Task: ptr("x")},
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Empty(t, result.Error)
}

func TestDeleteTodo_NotFound(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)

	result, err := m.deleteTodo(context.Background(), DeleteTodoRequest{TodoID: 404}, nil)
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Empty(t, result.Error)
}

func TestDeleteTodo_Policies(t *testing.T) {
	tests := []struct {
		policy        domain.SubtaskPolicy
		childSurvives bool
	}{
		{domain.SubtaskCascade, false},
		{domain.SubtaskDetach, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			m := newTestModule(t, tt.policy)
			ctx := context.Background()

			parent := createTestTodo(t, m, CreateTodoRequest{Task: "parent"})
			child := createTestTodo(t, m, CreateTodoRequest{Task: "child", ParentID: &parent.ID})

			result, err := m.deleteTodo(ctx, DeleteTodoRequest{TodoID: parent.ID}, nil)
			require.NoError(t, err)
			require.True(t, result.Found)

			got, err := m.getTodo(ctx, GetTodoRequest{TodoID: child.ID}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.childSurvives, got.Found)
			if tt.childSurvives {
				assert.Nil(t, got.Todo.ParentID)
				assert.Equal(t, []uint{child.ID}, result.DetachedIDs)
			} else {
				assert.Equal(t, []uint{parent.ID, child.ID}, result.DeletedIDs)
			}
		})
	}
}

func TestListTodos(t *testing.T) {
	m := newTestModule(t, domain.SubtaskCascade)
	ctx := context.Background()

	empty, err := m.listTodos(ctx, ListTodosRequest{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty.Todos)
	assert.Empty(t, empty.Todos)

	parent := createTestTodo(t, m, CreateTodoRequest{Task: "parent"})
	createTestTodo(t, m, CreateTodoRequest{Task: "child", ParentID: &parent.ID})

	result, err := m.listTodos(ctx, ListTodosRequest{}, nil)
	require.NoError(t, err)
	require.Len(t, result.Todos, 2)
	assert.Len(t, result.Todos[0].Subtasks, 1)
	assert.NotNil(t, result.Todos[1].Subtasks)
}

func TestHealth(t *testing.T) {
	m := NewModule(testDBConfig(), defaultTodoConfig(), newMockLogger())

	status := m.Health(context.Background())
	assert.False(t, status.Healthy)

	require.NoError(t, m.Start(context.Background()))
	defer m.Stop(context.Background())

	status = m.Health(context.Background())
	assert.True(t, status.Healthy)
	assert.Equal(t, "operational", status.Message)
	assert.Equal(t, "cascade", status.Details["subtask_policy"])
}

func TestModule_Name(t *testing.T) {
	m := NewModule(testDBConfig(), defaultTodoConfig(), newMockLogger())
	assert.Equal(t, "todo", m.Name())
	assert.Len(t, m.EmitEvents(), 5)
}
