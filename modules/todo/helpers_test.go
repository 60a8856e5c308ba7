package todo

import (
	"context"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"

	"github.com/example/tasks-service/config"
	domain "github.com/example/tasks-service/domain/todo"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

func newMockLogger() types.Logger {
	return &mockLogger{}
}

// testDBConfig points at a private in-memory SQLite database. A single
// connection keeps every query on the same database.
func testDBConfig() config.Database {
	return config.Database{
		Driver:         config.DriverSQLite,
		DSN:            "file::memory:?_foreign_keys=on",
		MaxOpenConns:   1,
		MaxIdleConns:   1,
		AcquireTimeout: 5 * time.Second,
	}
}

// setupTestDB creates a migrated in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := openDatabase(testDBConfig())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// newTestModule starts a TodoModule on an in-memory database.
func newTestModule(t *testing.T, policy domain.SubtaskPolicy) *TodoModule {
	t.Helper()

	m := NewModule(testDBConfig(), config.Todo{SubtaskDeletePolicy: policy}, newMockLogger())
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		m.Stop(context.Background())
	})
	return m
}

func mustCreateGroup(t *testing.T, repo *Repository, name string) *domain.Group {
	t.Helper()

	group := &domain.Group{Name: name}
	if err := repo.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup(%q) error = %v", name, err)
	}
	return group
}

func mustCreateTodo(t *testing.T, repo *Repository, task string, groupID, parentID *uint) *domain.Todo {
	t.Helper()

	todo := &domain.Todo{
		Task:       task,
		AssignedBy: "Ram",
		AssignedTo: "Sita",
		GroupID:    groupID,
		ParentID:   parentID,
	}
	if err := repo.CreateTodo(context.Background(), todo); err != nil {
		t.Fatalf("CreateTodo(%q) error = %v", task, err)
	}
	return todo
}

func ptr[T any](v T) *T {
	return &v
}

func defaultTodoConfig() config.Todo {
	return config.Todo{SubtaskDeletePolicy: domain.SubtaskCascade}
}
