package todo

import (
	"time"

	"github.com/google/uuid"

	domain "github.com/example/tasks-service/domain/todo"
	"github.com/example/tasks-service/events"
)

// Event publishing is best-effort: failures are logged and never fail the
// write that triggered them.

func (m *TodoModule) publishGroupCreated(group *domain.Group) {
	if m.eventBus == nil {
		return
	}
	event := events.GroupCreatedEvent{
		EventID:   uuid.NewString(),
		GroupID:   group.ID,
		Name:      group.Name,
		CreatedAt: time.Now(),
	}
	if err := events.GroupCreatedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish GroupCreated event", "group_id", group.ID, "error", err)
	}
}

func (m *TodoModule) publishGroupDeleted(deletion *GroupDeletion) {
	if m.eventBus == nil {
		return
	}
	event := events.GroupDeletedEvent{
		EventID:         uuid.NewString(),
		GroupID:         deletion.Group.ID,
		Name:            deletion.Group.Name,
		DeletedTodoIDs:  deletion.DeletedTodoIDs,
		DetachedTodoIDs: deletion.DetachedTodoIDs,
		DeletedAt:       time.Now(),
	}
	if err := events.GroupDeletedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish GroupDeleted event", "group_id", deletion.Group.ID, "error", err)
	}
}

func (m *TodoModule) publishTodoCreated(todo *domain.Todo) {
	if m.eventBus == nil {
		return
	}
	event := events.TodoCreatedEvent{
		EventID:    uuid.NewString(),
		TodoID:     todo.ID,
		Task:       todo.Task,
		GroupID:    todo.GroupID,
		ParentID:   todo.ParentID,
		AssignedBy: todo.AssignedBy,
		AssignedTo: todo.AssignedTo,
		CreatedAt:  todo.CreatedAt,
	}
	if err := events.TodoCreatedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish TodoCreated event", "todo_id", todo.ID, "error", err)
	}
}

func (m *TodoModule) publishTodoUpdated(todoID uint, fields []string) {
	if m.eventBus == nil {
		return
	}
	event := events.TodoUpdatedEvent{
		EventID:   uuid.NewString(),
		TodoID:    todoID,
		Fields:    fields,
		UpdatedAt: time.Now(),
	}
	if err := events.TodoUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish TodoUpdated event", "todo_id", todoID, "error", err)
	}
}

func (m *TodoModule) publishTodoDeleted(deletion *TodoDeletion) {
	if m.eventBus == nil {
		return
	}
	event := events.TodoDeletedEvent{
		EventID:     uuid.NewString(),
		TodoID:      deletion.Todo.ID,
		GroupID:     deletion.Todo.GroupID,
		CascadedIDs: deletion.CascadedIDs,
		DetachedIDs: deletion.DetachedIDs,
		DeletedAt:   time.Now(),
	}
	if err := events.TodoDeletedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish TodoDeleted event", "todo_id", deletion.Todo.ID, "error", err)
	}
}
