package activity

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/tasks-service/events"
)

// Module records group and todo activity as structured log lines.
// It subscribes to the todo module's events and keeps no state.
type Module struct {
	logger types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventConsumerModule = (*Module)(nil)
)

// NewModule creates a new activity module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		logger: logger.WithModule("activity"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "activity"
}

// RegisterEventConsumers registers handlers for every todo event.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.GroupCreatedV1, m.handleGroupCreated, m); err != nil {
		return fmt.Errorf("failed to register GroupCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.GroupDeletedV1, m.handleGroupDeleted, m); err != nil {
		return fmt.Errorf("failed to register GroupDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TodoCreatedV1, m.handleTodoCreated, m); err != nil {
		return fmt.Errorf("failed to register TodoCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TodoUpdatedV1, m.handleTodoUpdated, m); err != nil {
		return fmt.Errorf("failed to register TodoUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TodoDeletedV1, m.handleTodoDeleted, m); err != nil {
		return fmt.Errorf("failed to register TodoDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers",
		"events", []string{"GroupCreated.v1", "GroupDeleted.v1", "TodoCreated.v1", "TodoUpdated.v1", "TodoDeleted.v1"})
	return nil
}

func (m *Module) handleGroupCreated(_ context.Context, event events.GroupCreatedEvent, _ *mono.Msg) error {
	m.logger.Info("Group created",
		"event_id", event.EventID,
		"group_id", event.GroupID,
		"name", event.Name)
	return nil
}

func (m *Module) handleGroupDeleted(_ context.Context, event events.GroupDeletedEvent, _ *mono.Msg) error {
	m.logger.Info("Group deleted",
		"event_id", event.EventID,
		"group_id", event.GroupID,
		"name", event.Name,
		"deleted_todos", event.DeletedTodoIDs,
		"detached_todos", event.DetachedTodoIDs)
	return nil
}

func (m *Module) handleTodoCreated(_ context.Context, event events.TodoCreatedEvent, _ *mono.Msg) error {
	kind := "todo"
	if event.ParentID != nil {
		kind = "subtask"
	}
	m.logger.Info("Todo created",
		"event_id", event.EventID,
		"todo_id", event.TodoID,
		"kind", kind,
		"assigned_by", event.AssignedBy,
		"assigned_to", event.AssignedTo)
	return nil
}

func (m *Module) handleTodoUpdated(_ context.Context, event events.TodoUpdatedEvent, _ *mono.Msg) error {
	m.logger.Info("Todo updated",
		"event_id", event.EventID,
		"todo_id", event.TodoID,
		"fields", event.Fields)
	return nil
}

func (m *Module) handleTodoDeleted(_ context.Context, event events.TodoDeletedEvent, _ *mono.Msg) error {
	m.logger.Info("Todo deleted",
		"event_id", event.EventID,
		"todo_id", event.TodoID,
		"cascaded", event.CascadedIDs,
		"detached", event.DetachedIDs)
	return nil
}

// Start initializes the activity module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Activity module started")
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Activity module stopped")
	return nil
}
