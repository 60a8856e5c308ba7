package api

import (
	"time"

	"github.com/example/tasks-service/modules/todo"
)

// CreateGroupRequest is the HTTP request body for creating a group.
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CreateTodoRequest is the HTTP request body for creating a todo or subtask.
type CreateTodoRequest struct {
	Task        string     `json:"task" validate:"required"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	AssignedBy  string     `json:"assigned_by" validate:"required"`
	AssignedTo  string     `json:"assigned_to" validate:"required"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *int       `json:"priority" validate:"omitempty,min=0,max=3"`
	GroupID     *uint      `json:"group_id"`
	ParentID    *uint      `json:"parent_id"`
}

// UpdateTodoRequest is the HTTP request body for a partial todo update.
// Fields missing from the body are left untouched. id and created_at are
// not settable and are ignored if sent.
type UpdateTodoRequest struct {
	Task        Optional[string]    `json:"task"`
	Description Optional[string]    `json:"description"`
	Completed   Optional[bool]      `json:"completed"`
	AssignedBy  Optional[string]    `json:"assigned_by"`
	AssignedTo  Optional[string]    `json:"assigned_to"`
	DueDate     Optional[time.Time] `json:"due_date"`
	Priority    Optional[int]       `json:"priority" validate:"omitempty,min=0,max=3"`
	GroupID     Optional[uint]      `json:"group_id"`
	ParentID    Optional[uint]      `json:"parent_id"`
}

// nullViolations returns the json names of non-nullable fields sent as null.
func (r *UpdateTodoRequest) nullViolations() []string {
	var names []string
	if r.Task.Null {
		names = append(names, "task")
	}
	if r.Completed.Null {
		names = append(names, "completed")
	}
	if r.AssignedBy.Null {
		names = append(names, "assigned_by")
	}
	if r.AssignedTo.Null {
		names = append(names, "assigned_to")
	}
	return names
}

// toChanges converts the request into the todo service's change set.
func (r *UpdateTodoRequest) toChanges() todo.TodoChanges {
	var changes todo.TodoChanges
	changes.Task = r.Task.ptr()
	changes.Description = r.Description.ptr()
	changes.Completed = r.Completed.ptr()
	changes.AssignedBy = r.AssignedBy.ptr()
	changes.AssignedTo = r.AssignedTo.ptr()
	changes.DueDate = r.DueDate.ptr()
	changes.Priority = r.Priority.ptr()
	changes.GroupID = r.GroupID.ptr()
	changes.ParentID = r.ParentID.ptr()

	nullable := []struct {
		column string
		null   bool
	}{
		{todo.ColumnDescription, r.Description.Null},
		{todo.ColumnDueDate, r.DueDate.Null},
		{todo.ColumnPriority, r.Priority.Null},
		{todo.ColumnGroupID, r.GroupID.Null},
		{todo.ColumnParentID, r.ParentID.Null},
	}
	for _, field := range nullable {
		if field.null {
			changes.Cleared = append(changes.Cleared, field.column)
		}
	}
	return changes
}

// TodoSummary is the reduced todo view used inside groups and subtask lists.
type TodoSummary struct {
	ID          uint       `json:"id"`
	Task        string     `json:"task"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	AssignedBy  string     `json:"assigned_by"`
	AssignedTo  string     `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *int       `json:"priority"`
	ParentID    *uint      `json:"parent_id"`
}

// TodoResponse is the full todo read shape with one level of subtasks.
type TodoResponse struct {
	TodoSummary
	CreatedAt time.Time     `json:"created_at"`
	GroupID   *uint         `json:"group_id"`
	Subtasks  []TodoSummary `json:"subtasks"`
}

// GroupResponse is the group read shape.
type GroupResponse struct {
	ID    uint          `json:"id"`
	Name  string        `json:"name"`
	Todos []TodoSummary `json:"todos"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the response for the health endpoint.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse carries a not-found or operation failure.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ValidationError describes one rejected request field.
type ValidationError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationErrorResponse is returned with 422 for malformed requests.
type ValidationErrorResponse struct {
	Detail []ValidationError `json:"detail"`
}

func toTodoSummary(view *todo.TodoView) TodoSummary {
	return TodoSummary{
		ID:          view.ID,
		Task:        view.Task,
		Description: view.Description,
		Completed:   view.Completed,
		AssignedBy:  view.AssignedBy,
		AssignedTo:  view.AssignedTo,
		DueDate:     view.DueDate,
		Priority:    view.Priority,
		ParentID:    view.ParentID,
	}
}

func toTodoResponse(view *todo.TodoView) TodoResponse {
	resp := TodoResponse{
		TodoSummary: toTodoSummary(view),
		CreatedAt:   view.CreatedAt,
		GroupID:     view.GroupID,
		Subtasks:    make([]TodoSummary, 0, len(view.Subtasks)),
	}
	for i := range view.Subtasks {
		resp.Subtasks = append(resp.Subtasks, toTodoSummary(&view.Subtasks[i]))
	}
	return resp
}

func toGroupResponse(view *todo.GroupView) GroupResponse {
	resp := GroupResponse{
		ID:    view.ID,
		Name:  view.Name,
		Todos: make([]TodoSummary, 0, len(view.Todos)),
	}
	for i := range view.Todos {
		resp.Todos = append(resp.Todos, toTodoSummary(&view.Todos[i]))
	}
	return resp
}

func toGroupResponses(views []todo.GroupView) []GroupResponse {
	resp := make([]GroupResponse, 0, len(views))
	for i := range views {
		resp = append(resp, toGroupResponse(&views[i]))
	}
	return resp
}

func toTodoResponses(views []todo.TodoView) []TodoResponse {
	resp := make([]TodoResponse, 0, len(views))
	for i := range views {
		resp = append(resp, toTodoResponse(&views[i]))
	}
	return resp
}
