package todo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTodoChanges_Columns(t *testing.T) {
	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	changes := TodoChanges{
		Task:      ptr("Ship it"),
		Completed: ptr(true),
		DueDate:   &due,
		GroupID:   ptr(uint(2)),
		Cleared:   []string{ColumnParentID},
	}

	columns := changes.Columns()
	assert.Equal(t, map[string]any{
		"task":      "Ship it",
		"completed": true,
		"due_date":  due,
		"group_id":  uint(2),
		"parent_id": nil,
	}, columns)
	assert.Equal(t, []string{"completed", "due_date", "group_id", "parent_id", "task"}, fieldNames(columns))
	assert.False(t, changes.Empty())
}

func TestTodoChanges_Empty(t *testing.T) {
	assert.True(t, TodoChanges{}.Empty())
	assert.False(t, TodoChanges{Priority: ptr(0)}.Empty())
	assert.False(t, TodoChanges{Cleared: []string{ColumnDescription}}.Empty())
}

func TestStoreMessage(t *testing.T) {
	inner := errors.New("UNIQUE constraint failed: groups.name")
	wrapped := fmt.Errorf("failed to create group: %w", inner)

	assert.Equal(t, "UNIQUE constraint failed: groups.name", storeMessage(wrapped))
	assert.Equal(t, ErrInvalidParent.Error(), storeMessage(ErrInvalidParent))
}
