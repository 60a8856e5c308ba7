package activity

import (
	"context"
	"sync"
	"testing"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tasks-service/events"
)

type logEntry struct {
	msg  string
	args []any
}

// recordingLogger implements types.Logger and keeps Info lines.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) Debug(_ string, _ ...any) {}
func (l *recordingLogger) Info(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{msg: msg, args: args})
}
func (l *recordingLogger) Warn(_ string, _ ...any)  {}
func (l *recordingLogger) Error(_ string, _ ...any) {}
func (l *recordingLogger) With(_ ...any) types.Logger {
	return l
}
func (l *recordingLogger) WithModule(_ string) types.Logger {
	return l
}
func (l *recordingLogger) WithError(_ error) types.Logger {
	return l
}

func (l *recordingLogger) last() logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries[len(l.entries)-1]
}

func argValue(args []any, key string) (any, bool) {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1], true
		}
	}
	return nil, false
}

func TestModule_Name(t *testing.T) {
	m := NewModule(&recordingLogger{})
	assert.Equal(t, "activity", m.Name())
}

func TestHandleTodoCreated_Kind(t *testing.T) {
	log := &recordingLogger{}
	m := NewModule(log)
	parent := uint(1)

	require.NoError(t, m.handleTodoCreated(context.Background(), events.TodoCreatedEvent{TodoID: 1}, nil))
	kind, ok := argValue(log.last().args, "kind")
	require.True(t, ok)
	assert.Equal(t, "todo", kind)

	require.NoError(t, m.handleTodoCreated(context.Background(), events.TodoCreatedEvent{TodoID: 2, ParentID: &parent}, nil))
	kind, _ = argValue(log.last().args, "kind")
	assert.Equal(t, "subtask", kind)
}

func TestHandleDeletions(t *testing.T) {
	log := &recordingLogger{}
	m := NewModule(log)
	ctx := context.Background()

	require.NoError(t, m.handleTodoDeleted(ctx, events.TodoDeletedEvent{TodoID: 3, CascadedIDs: []uint{4, 5}}, nil))
	entry := log.last()
	assert.Equal(t, "Todo deleted", entry.msg)
	cascaded, _ := argValue(entry.args, "cascaded")
	assert.Equal(t, []uint{4, 5}, cascaded)

	require.NoError(t, m.handleGroupDeleted(ctx, events.GroupDeletedEvent{GroupID: 1, Name: "Eng", DeletedTodoIDs: []uint{3}}, nil))
	entry = log.last()
	assert.Equal(t, "Group deleted", entry.msg)
	name, _ := argValue(entry.args, "name")
	assert.Equal(t, "Eng", name)
}

func TestHandleUpdatesAndCreations(t *testing.T) {
	log := &recordingLogger{}
	m := NewModule(log)
	ctx := context.Background()

	require.NoError(t, m.handleTodoUpdated(ctx, events.TodoUpdatedEvent{TodoID: 7, Fields: []string{"priority"}}, nil))
	fields, _ := argValue(log.last().args, "fields")
	assert.Equal(t, []string{"priority"}, fields)

	require.NoError(t, m.handleGroupCreated(ctx, events.GroupCreatedEvent{GroupID: 2, Name: "Ops"}, nil))
	assert.Equal(t, "Group created", log.last().msg)
}

func TestStartStop(t *testing.T) {
	m := NewModule(&recordingLogger{})
	assert.NoError(t, m.Start(context.Background()))
	assert.NoError(t, m.Stop(context.Background()))
}
