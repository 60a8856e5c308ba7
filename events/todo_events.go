package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// GroupCreatedEvent is emitted when a new group is created.
type GroupCreatedEvent struct {
	EventID   string    `json:"event_id"`
	GroupID   uint      `json:"group_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupCreatedV1 is the typed event definition for group creation.
// Subject: events.todo.v1.group-created
var GroupCreatedV1 = helper.EventDefinition[GroupCreatedEvent](
	"todo", "GroupCreated", "v1",
)

// GroupDeletedEvent is emitted when a group and its todos are deleted.
type GroupDeletedEvent struct {
	EventID         string    `json:"event_id"`
	GroupID         uint      `json:"group_id"`
	Name            string    `json:"name"`
	DeletedTodoIDs  []uint    `json:"deleted_todo_ids"`
	DetachedTodoIDs []uint    `json:"detached_todo_ids,omitempty"`
	DeletedAt       time.Time `json:"deleted_at"`
}

// GroupDeletedV1 is the typed event definition for group deletion.
// Subject: events.todo.v1.group-deleted
var GroupDeletedV1 = helper.EventDefinition[GroupDeletedEvent](
	"todo", "GroupDeleted", "v1",
)

// TodoCreatedEvent is emitted when a new todo or subtask is created.
type TodoCreatedEvent struct {
	EventID    string    `json:"event_id"`
	TodoID     uint      `json:"todo_id"`
	Task       string    `json:"task"`
	GroupID    *uint     `json:"group_id,omitempty"`
	ParentID   *uint     `json:"parent_id,omitempty"`
	AssignedBy string    `json:"assigned_by"`
	AssignedTo string    `json:"assigned_to"`
	CreatedAt  time.Time `json:"created_at"`
}

// TodoCreatedV1 is the typed event definition for todo creation.
// Subject: events.todo.v1.todo-created
var TodoCreatedV1 = helper.EventDefinition[TodoCreatedEvent](
	"todo", "TodoCreated", "v1",
)

// TodoUpdatedEvent is emitted after a partial update was applied.
type TodoUpdatedEvent struct {
	EventID   string    `json:"event_id"`
	TodoID    uint      `json:"todo_id"`
	Fields    []string  `json:"fields"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TodoUpdatedV1 is the typed event definition for todo updates.
// Subject: events.todo.v1.todo-updated
var TodoUpdatedV1 = helper.EventDefinition[TodoUpdatedEvent](
	"todo", "TodoUpdated", "v1",
)

// TodoDeletedEvent is emitted when a todo is deleted. CascadedIDs holds
// subtasks deleted with it, DetachedIDs subtasks promoted to top level.
type TodoDeletedEvent struct {
	EventID     string    `json:"event_id"`
	TodoID      uint      `json:"todo_id"`
	GroupID     *uint     `json:"group_id,omitempty"`
	CascadedIDs []uint    `json:"cascaded_ids,omitempty"`
	DetachedIDs []uint    `json:"detached_ids,omitempty"`
	DeletedAt   time.Time `json:"deleted_at"`
}

// TodoDeletedV1 is the typed event definition for todo deletion.
// Subject: events.todo.v1.todo-deleted
var TodoDeletedV1 = helper.EventDefinition[TodoDeletedEvent](
	"todo", "TodoDeleted", "v1",
)
