package todo

import (
	"context"
	"sort"
	"time"
)

// Column names accepted in TodoChanges.Cleared.
const (
	ColumnDescription = "description"
	ColumnDueDate     = "due_date"
	ColumnPriority    = "priority"
	ColumnGroupID     = "group_id"
	ColumnParentID    = "parent_id"
)

// nullableColumns lists the todo columns that may be set to NULL.
var nullableColumns = map[string]bool{
	ColumnDescription: true,
	ColumnDueDate:     true,
	ColumnPriority:    true,
	ColumnGroupID:     true,
	ColumnParentID:    true,
}

// TodoView is a todo as returned by the todo services. Subtasks holds the
// direct subtasks only, and is empty for todos listed inside a group.
type TodoView struct {
	ID          uint       `json:"id"`
	Task        string     `json:"task"`
	Description *string    `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	AssignedBy  string     `json:"assigned_by"`
	AssignedTo  string     `json:"assigned_to"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	GroupID     *uint      `json:"group_id,omitempty"`
	ParentID    *uint      `json:"parent_id,omitempty"`
	Subtasks    []TodoView `json:"subtasks,omitempty"`
}

// GroupView is a group with the todos it owns.
type GroupView struct {
	ID    uint       `json:"id"`
	Name  string     `json:"name"`
	Todos []TodoView `json:"todos"`
}

// CreateGroupRequest is the request for creating a group.
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// GetGroupRequest is the request for getting a group.
type GetGroupRequest struct {
	GroupID uint `json:"group_id"`
}

// DeleteGroupRequest is the request for deleting a group.
type DeleteGroupRequest struct {
	GroupID uint `json:"group_id"`
}

// ListGroupsRequest is the request for listing groups.
type ListGroupsRequest struct{}

// CreateTodoRequest is the request for creating a todo or a subtask.
type CreateTodoRequest struct {
	Task        string     `json:"task"`
	Description *string    `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	AssignedBy  string     `json:"assigned_by"`
	AssignedTo  string     `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	GroupID     *uint      `json:"group_id,omitempty"`
	ParentID    *uint      `json:"parent_id,omitempty"`
}

// GetTodoRequest is the request for getting a todo.
type GetTodoRequest struct {
	TodoID uint `json:"todo_id"`
}

// TodoChanges is a partial update. Nil fields are left untouched; columns
// named in Cleared are set to NULL.
type TodoChanges struct {
	Task        *string    `json:"task,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	AssignedBy  *string    `json:"assigned_by,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	GroupID     *uint      `json:"group_id,omitempty"`
	ParentID    *uint      `json:"parent_id,omitempty"`
	Cleared     []string   `json:"cleared,omitempty"`
}

// Columns returns the column values to write.
func (c TodoChanges) Columns() map[string]any {
	columns := make(map[string]any)
	if c.Task != nil {
		columns["task"] = *c.Task
	}
	if c.Description != nil {
		columns[ColumnDescription] = *c.Description
	}
	if c.Completed != nil {
		columns["completed"] = *c.Completed
	}
	if c.AssignedBy != nil {
		columns["assigned_by"] = *c.AssignedBy
	}
	if c.AssignedTo != nil {
		columns["assigned_to"] = *c.AssignedTo
	}
	if c.DueDate != nil {
		columns[ColumnDueDate] = *c.DueDate
	}
	if c.Priority != nil {
		columns[ColumnPriority] = *c.Priority
	}
	if c.GroupID != nil {
		columns[ColumnGroupID] = *c.GroupID
	}
	if c.ParentID != nil {
		columns[ColumnParentID] = *c.ParentID
	}
	for _, name := range c.Cleared {
		columns[name] = nil
	}
	return columns
}

// Empty reports whether the changes touch no column.
func (c TodoChanges) Empty() bool {
	return len(c.Columns()) == 0
}

// fieldNames returns the sorted names of the changed columns.
func fieldNames(columns map[string]any) []string {
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UpdateTodoRequest is the request for partially updating a todo.
type UpdateTodoRequest struct {
	TodoID  uint        `json:"todo_id"`
	Changes TodoChanges `json:"changes"`
}

// DeleteTodoRequest is the request for deleting a todo.
type DeleteTodoRequest struct {
	TodoID uint `json:"todo_id"`
}

// ListTodosRequest is the request for listing todos.
type ListTodosRequest struct{}

// GroupResult is the reply of the group services. Found is false when the
// group does not exist; Error carries any other failure.
type GroupResult struct {
	Group GroupView `json:"group"`
	Found bool      `json:"found"`
	Error string    `json:"error,omitempty"`
}

// GroupListResult is the reply of the list-groups service.
type GroupListResult struct {
	Groups []GroupView `json:"groups"`
	Error  string      `json:"error,omitempty"`
}

// TodoResult is the reply of the todo services.
type TodoResult struct {
	Todo  TodoView `json:"todo"`
	Found bool     `json:"found"`
	Error string   `json:"error,omitempty"`
}

// TodoListResult is the reply of the list-todos service.
type TodoListResult struct {
	Todos []TodoView `json:"todos"`
	Error string     `json:"error,omitempty"`
}

// DeleteResult is the reply of the delete services.
type DeleteResult struct {
	Found       bool   `json:"found"`
	Error       string `json:"error,omitempty"`
	DeletedIDs  []uint `json:"deleted_ids,omitempty"`
	DetachedIDs []uint `json:"detached_ids,omitempty"`
}

// TodoPort defines the group and todo operations available to driving
// adapters such as the HTTP API. Absence is reported as ErrGroupNotFound or
// ErrTodoNotFound; other failures as *OperationError.
type TodoPort interface {
	CreateGroup(ctx context.Context, name string) (*GroupView, error)
	ListGroups(ctx context.Context) ([]GroupView, error)
	GetGroup(ctx context.Context, groupID uint) (*GroupView, error)
	DeleteGroup(ctx context.Context, groupID uint) error
	CreateTodo(ctx context.Context, req *CreateTodoRequest) (*TodoView, error)
	GetTodo(ctx context.Context, todoID uint) (*TodoView, error)
	UpdateTodo(ctx context.Context, todoID uint, changes TodoChanges) (*TodoView, error)
	DeleteTodo(ctx context.Context, todoID uint) error
	ListTodos(ctx context.Context) ([]TodoView, error)
}
