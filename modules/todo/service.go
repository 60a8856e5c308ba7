package todo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-monolith/mono"

	domain "github.com/example/tasks-service/domain/todo"
)

// storeContext bounds a persistence call by the pool acquire timeout.
func (m *TodoModule) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.dbCfg.AcquireTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.dbCfg.AcquireTimeout)
}

// createGroup handles the create-group service request.
func (m *TodoModule) createGroup(ctx context.Context, req CreateGroupRequest, _ *mono.Msg) (GroupResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return GroupResult{Error: "name is required"}, nil
	}

	ctx, cancel := m.storeContext(ctx)
	defer cancel()

	group := &domain.Group{Name: name}
	if err := m.repo.CreateGroup(ctx, group); err != nil {
		m.logger.Warn("Failed to create group", "name", name, "error", err)
		return GroupResult{Error: storeMessage(err)}, nil
	}

	m.logger.Info("Group created", "group_id", group.ID, "name", group.Name)
	m.publishGroupCreated(group)

	return GroupResult{Group: toGroupView(group), Found: true}, nil
}

// listGroups handles the list-groups service request.
func (m *TodoModule) listGroups(ctx context.Context, _ ListGroupsRequest, _ *mono.Msg) (GroupListResult, error) {
	ctx, cancel := m.storeContext(ctx)
	defer cancel()

	groups, err := m.repo.ListGroups(ctx)
	if err != nil {
		m.logger.Warn("Failed to list groups", "error", err)
		return GroupListResult{Error: storeMessage(err)}, nil
	}

	result := GroupListResult{Groups: make([]GroupView, 0, len(groups))}
	for i := range groups {
		result.Groups = append(result.Groups, toGroupView(&groups[i]))
	}
	return result, nil
}

// getGroup handles the get-group service request.
func (m *TodoModule) getGroup(ctx context.Context, req GetGroupRequest, _ *mono.Msg) (GroupResult, error) {
	ctx, cancel := m.storeContext(ctx)
	defer cancel()

	group, err := m.repo.FindGroup(ctx, req.GroupID)
	if errors.Is(err, ErrGroupNotFound) {
		return GroupResult{Found: false}, nil
	}
	if err != nil {
		m.logger.Warn("Failed to get group", "group_id", req.GroupID, "error", err)
		return GroupResult{Error: storeMessage(err)}, nil
	}

	return GroupResult{Group: toGroupView(group), Found: true}, nil
}

// deleteGroup handles the delete-group service request.
func (m *TodoModule) deleteGroup(ctx context.Context, req DeleteGroupRequest, _ *mono.Msg) (DeleteResult, error) {
	ctx, cancel := m.storeContext(ctx)
	defer cancel()

	deletion, err := m.repo.DeleteGroup(ctx, req.GroupID, m.policy)
	if errors.Is(err, ErrGroupNotFound) {
		return DeleteResult{Found: false}, nil
	}
	if err != nil {
		m.logger.Warn("Failed to delete group", "group_id", req.GroupID, "error", err)
		return DeleteResult{Error: storeMessage(err)}, nil
	}

	m.logger.Info("Group deleted",
		"group_id", req.GroupID,
		"policy", string(m.policy),
		"deleted_todos", len(deletion.DeletedTodoIDs),
		"detached_todos", len(deletion.DetachedTodoIDs))
	m.publishGroupDeleted(deletion)

	return DeleteResult{
		Found:       true,
		DeletedIDs:  deletion.DeletedTodoIDs,
		DetachedIDs: deletion.DetachedTodoIDs,
	}, nil
}

// createTodo handles the create-todo service request.
func (m *TodoModule) createTodo(ctx context.Context, req CreateTodoRequest, _ *mono.Msg) (TodoResult, error) {
	if err := validateCreateTodo(req); err != nil {
		return TodoResult{Error: err.Error()}, nil
	}

	ctx, cancel := m.storeContext(ctx)
	defer cancel()

	todo := &domain.Todo{
		Task:        req.Task,
		Description: req.Description,
		Completed:   req.Completed,
		AssignedBy:  req.AssignedBy,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		GroupID:     req.GroupID,
		ParentID:    req.ParentID,
	}
	if err := m.repo.CreateTodo(ctx, todo); err != nil {
		m.logger.Warn("Failed to create todo", "task", req.Task, "error", err)
		return TodoResult{Error: storeMessage(err)}, nil
	}

	m.logger.Info("Todo created", "todo_id", todo.ID, "group_id", todo.GroupID, "parent_id", todo.ParentID)
	m.publishTodoCreated(todo)

	view := toTodoView(todo, true)
	return TodoResult{Todo: view, Found: true}, nil
}

// getTodo handles the get-todo service request.
func (m *TodoModule) getTodo(ctx context.Context, req GetTodoRequest, _ *mono.Msg) (TodoResult, error) {
	ctx, cancel := m.storeContext(ctx)
	defer cancel()

	todo, err := m.repo.FindTodo(ctx, req.TodoID)
	if errors.Is(err, ErrTodoNotFound) {
		return TodoResult{Found: false}, nil
	}
	if err != nil {
		m.logger.Warn("Failed to get todo", "todo_id", req.TodoID, "error", err)
		return TodoResult{Error: storeMessage(err)}, nil
	}

	return TodoResult{Todo: toTodoView(todo, true), Found: true}, nil
}

// updateTodo handles the update-todo service request.
func (m *TodoModule) updateTodo(ctx context.Context, req UpdateTodoRequest, _ *mono.Msg) (TodoResult, error) {
	if err := validateChanges(req.Changes); err != nil {
		return TodoResult{Error: err.Error()}, nil
	}

	ctx, cancel := m.storeContext(ctx)
	defer cancel()

	columns := req.Changes.Columns()
	todo, err := m.repo.UpdateTodo(ctx, req.TodoID, columns)
	if errors.Is(err, ErrTodoNotFound) {
		return TodoResult{Found: false}, nil
	}
	if err != nil {
		m.logger.Warn("Failed to update todo", "todo_id", req.TodoID, "error", err)
		return TodoResult{Error: storeMessage(err)}, nil
	}

	if len(columns) > 0 {
		fields := fieldNames(columns)
		m.logger.Info("Todo updated", "todo_id", todo.ID, "fields", fields)
		m.publishTodoUpdated(todo.ID, fields)
	}

	return TodoResult{Todo: toTodoView(todo, true), Found: true}, nil
}

// deleteTodo handles the delete-todo service request.
func (m *TodoModule) deleteTodo(ctx context.Context, req DeleteTodoRequest, _ *mono.Msg) (DeleteResult, error) {
	ctx, cancel := m.storeContext(ctx)
	defer cancel()

	deletion, err := m.repo.DeleteTodo(ctx, req.TodoID, m.policy)
	if errors.Is(err, ErrTodoNotFound) {
		return DeleteResult{Found: false}, nil
	}
	if err != nil {
		m.logger.Warn("Failed to delete todo", "todo_id", req.TodoID, "error", err)
		return DeleteResult{Error: storeMessage(err)}, nil
	}

	m.logger.Info("Todo deleted",
		"todo_id", req.TodoID,
		"policy", string(m.policy),
		"cascaded", len(deletion.CascadedIDs),
		"detached", len(deletion.DetachedIDs))
	m.publishTodoDeleted(deletion)

	return DeleteResult{
		Found:       true,
		DeletedIDs:  append([]uint{req.TodoID}, deletion.CascadedIDs...),
		DetachedIDs: deletion.DetachedIDs,
	}, nil
}

// listTodos handles the list-todos service request.
func (m *TodoModule) listTodos(ctx context.Context, _ ListTodosRequest, _ *mono.Msg) (TodoListResult, error) {
	ctx, cancel := m.storeContext(ctx)
	defer cancel()

	todos, err := m.repo.ListTodos(ctx)
	if err != nil {
		m.logger.Warn("Failed to list todos", "error", err)
		return TodoListResult{Error: storeMessage(err)}, nil
	}

	result := TodoListResult{Todos: make([]TodoView, 0, len(todos))}
	for i := range todos {
		result.Todos = append(result.Todos, toTodoView(&todos[i], true))
	}
	return result, nil
}

func validateCreateTodo(req CreateTodoRequest) error {
	if strings.TrimSpace(req.Task) == "" {
		return fmt.Errorf("task is required")
	}
	if strings.TrimSpace(req.AssignedBy) == "" {
		return fmt.Errorf("assigned_by is required")
	}
	if strings.TrimSpace(req.AssignedTo) == "" {
		return fmt.Errorf("assigned_to is required")
	}
	if req.Priority != nil && !domain.ValidPriority(*req.Priority) {
		return fmt.Errorf("priority must be between %d and %d", domain.MinPriority, domain.MaxPriority)
	}
	return nil
}

func validateChanges(c TodoChanges) error {
	if c.Task != nil && strings.TrimSpace(*c.Task) == "" {
		return fmt.Errorf("task cannot be empty")
	}
	if c.AssignedBy != nil && strings.TrimSpace(*c.AssignedBy) == "" {
		return fmt.Errorf("assigned_by cannot be empty")
	}
	if c.AssignedTo != nil && strings.TrimSpace(*c.AssignedTo) == "" {
		return fmt.Errorf("assigned_to cannot be empty")
	}
	if c.Priority != nil && !domain.ValidPriority(*c.Priority) {
		return fmt.Errorf("priority must be between %d and %d", domain.MinPriority, domain.MaxPriority)
	}
	for _, name := range c.Cleared {
		if !nullableColumns[name] {
			return fmt.Errorf("%s cannot be null", name)
		}
	}
	return nil
}

// toTodoView converts a domain Todo. Subtasks are included one level deep
// when withSubtasks is set.
func toTodoView(todo *domain.Todo, withSubtasks bool) TodoView {
	view := TodoView{
		ID:          todo.ID,
		Task:        todo.Task,
		Description: todo.Description,
		Completed:   todo.Completed,
		AssignedBy:  todo.AssignedBy,
		AssignedTo:  todo.AssignedTo,
		CreatedAt:   todo.CreatedAt,
		DueDate:     todo.DueDate,
		Priority:    todo.Priority,
		GroupID:     todo.GroupID,
		ParentID:    todo.ParentID,
	}
	if withSubtasks {
		view.Subtasks = make([]TodoView, 0, len(todo.Subtasks))
		for i := range todo.Subtasks {
			view.Subtasks = append(view.Subtasks, toTodoView(&todo.Subtasks[i], false))
		}
	}
	return view
}

func toGroupView(group *domain.Group) GroupView {
	view := GroupView{
		ID:    group.ID,
		Name:  group.Name,
		Todos: make([]TodoView, 0, len(group.Todos)),
	}
	for i := range group.Todos {
		view.Todos = append(view.Todos, toTodoView(&group.Todos[i], false))
	}
	return view
}
