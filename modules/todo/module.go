package todo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"

	"github.com/example/tasks-service/config"
	domain "github.com/example/tasks-service/domain/todo"
	"github.com/example/tasks-service/events"
)

// TodoModule owns the group and todo store and exposes it as request-reply
// services.
type TodoModule struct {
	db       *gorm.DB
	repo     *Repository
	eventBus mono.EventBus
	dbCfg    config.Database
	policy   domain.SubtaskPolicy
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*TodoModule)(nil)
	_ mono.ServiceProviderModule = (*TodoModule)(nil)
	_ mono.EventEmitterModule    = (*TodoModule)(nil)
	_ mono.EventBusAwareModule   = (*TodoModule)(nil)
	_ mono.HealthCheckableModule = (*TodoModule)(nil)
)

// NewModule creates a new TodoModule.
func NewModule(dbCfg config.Database, todoCfg config.Todo, logger types.Logger) *TodoModule {
	return &TodoModule{
		dbCfg:  dbCfg,
		policy: todoCfg.SubtaskDeletePolicy,
		logger: logger.WithModule("todo"),
	}
}

// Name returns the module name.
func (m *TodoModule) Name() string {
	return "todo"
}

// SetEventBus receives the EventBus from the framework.
func (m *TodoModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *TodoModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.GroupCreatedV1.ToBase(),
		events.GroupDeletedV1.ToBase(),
		events.TodoCreatedV1.ToBase(),
		events.TodoUpdatedV1.ToBase(),
		events.TodoDeletedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
// The framework prefixes service names with "services.todo.".
func (m *TodoModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-group", json.Unmarshal, json.Marshal, m.createGroup,
	); err != nil {
		return fmt.Errorf("failed to register create-group service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-groups", json.Unmarshal, json.Marshal, m.listGroups,
	); err != nil {
		return fmt.Errorf("failed to register list-groups service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-group", json.Unmarshal, json.Marshal, m.getGroup,
	); err != nil {
		return fmt.Errorf("failed to register get-group service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-group", json.Unmarshal, json.Marshal, m.deleteGroup,
	); err != nil {
		return fmt.Errorf("failed to register delete-group service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-todo", json.Unmarshal, json.Marshal, m.createTodo,
	); err != nil {
		return fmt.Errorf("failed to register create-todo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-todo", json.Unmarshal, json.Marshal, m.getTodo,
	); err != nil {
		return fmt.Errorf("failed to register get-todo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-todo", json.Unmarshal, json.Marshal, m.updateTodo,
	); err != nil {
		return fmt.Errorf("failed to register update-todo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-todo", json.Unmarshal, json.Marshal, m.deleteTodo,
	); err != nil {
		return fmt.Errorf("failed to register delete-todo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-todos", json.Unmarshal, json.Marshal, m.listTodos,
	); err != nil {
		return fmt.Errorf("failed to register list-todos service: %w", err)
	}

	m.logger.Info("Registered services",
		"services", []string{
			"create-group", "list-groups", "get-group", "delete-group",
			"create-todo", "get-todo", "update-todo", "delete-todo", "list-todos",
		})
	return nil
}

// Health pings the database.
func (m *TodoModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	stats := sqlDB.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver":           m.dbCfg.Driver,
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
			"subtask_policy":   string(m.policy),
		},
	}
}

// Start opens the database connection pool and runs migrations.
func (m *TodoModule) Start(_ context.Context) error {
	m.logger.Info("Connecting to database", "driver", m.dbCfg.Driver)

	db, err := openDatabase(m.dbCfg)
	if err != nil {
		return err
	}
	m.db = db

	if err := migrate(m.db); err != nil {
		return err
	}

	m.repo = NewRepository(m.db)

	if m.eventBus == nil {
		m.logger.Warn("eventBus not set, events will not be published")
	}
	m.logger.Info("Module started",
		"max_open_conns", m.dbCfg.MaxOpenConns,
		"subtask_policy", string(m.policy))
	return nil
}

// Stop closes the database connection pool.
func (m *TodoModule) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	m.logger.Info("Closing database connection")

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	m.logger.Info("Database connection closed")
	return nil
}
