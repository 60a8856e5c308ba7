package todo

import (
	"context"
	"encoding/json"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// todoAdapter wraps ServiceContainer for type-safe cross-module communication.
// This is the adapter that implements the TodoPort interface.
type todoAdapter struct {
	container mono.ServiceContainer
}

// NewTodoAdapter creates a new adapter for todo services.
// container is the ServiceContainer from the todo module received via SetDependencyServiceContainer.
func NewTodoAdapter(container mono.ServiceContainer) TodoPort {
	if container == nil {
		panic("todo adapter requires non-nil ServiceContainer")
	}
	return &todoAdapter{container: container}
}

// callService invokes a todo request-reply service with JSON encoding.
func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return serviceCallError(service, err)
	}
	return nil
}

// CreateGroup creates a group via the create-group service.
func (a *todoAdapter) CreateGroup(ctx context.Context, name string) (*GroupView, error) {
	req := CreateGroupRequest{Name: name}
	var resp GroupResult
	if err := callService(ctx, a.container, "create-group", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, newOperationError("create-group", resp.Error)
	}
	return &resp.Group, nil
}

// ListGroups lists every group via the list-groups service.
func (a *todoAdapter) ListGroups(ctx context.Context) ([]GroupView, error) {
	req := ListGroupsRequest{}
	var resp GroupListResult
	if err := callService(ctx, a.container, "list-groups", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, newOperationError("list-groups", resp.Error)
	}
	return resp.Groups, nil
}

// GetGroup retrieves a group via the get-group service.
func (a *todoAdapter) GetGroup(ctx context.Context, groupID uint) (*GroupView, error) {
	req := GetGroupRequest{GroupID: groupID}
	var resp GroupResult
	if err := callService(ctx, a.container, "get-group", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, newOperationError("get-group", resp.Error)
	}
	if !resp.Found {
		return nil, ErrGroupNotFound
	}
	return &resp.Group, nil
}

// DeleteGroup deletes a group via the delete-group service.
func (a *todoAdapter) DeleteGroup(ctx context.Context, groupID uint) error {
	req := DeleteGroupRequest{GroupID: groupID}
	var resp DeleteResult
	if err := callService(ctx, a.container, "delete-group", &req, &resp); err != nil {
		return err
	}
	if resp.Error != "" {
		return newOperationError("delete-group", resp.Error)
	}
	if !resp.Found {
		return ErrGroupNotFound
	}
	return nil
}

// CreateTodo creates a todo via the create-todo service.
func (a *todoAdapter) CreateTodo(ctx context.Context, req *CreateTodoRequest) (*TodoView, error) {
	var resp TodoResult
	if err := callService(ctx, a.container, "create-todo", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, newOperationError("create-todo", resp.Error)
	}
	return &resp.Todo, nil
}

// GetTodo retrieves a todo via the get-todo service.
func (a *todoAdapter) GetTodo(ctx context.Context, todoID uint) (*TodoView, error) {
	req := GetTodoRequest{TodoID: todoID}
	var resp TodoResult
	if err := callService(ctx, a.container, "get-todo", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, newOperationError("get-todo", resp.Error)
	}
	if !resp.Found {
		return nil, ErrTodoNotFound
	}
	return &resp.Todo, nil
}

// UpdateTodo applies a partial update via the update-todo service.
func (a *todoAdapter) UpdateTodo(ctx context.Context, todoID uint, changes TodoChanges) (*TodoView, error) {
	req := UpdateTodoRequest{TodoID: todoID, Changes: changes}
	var resp TodoResult
	if err := callService(ctx, a.container, "update-todo", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, newOperationError("update-todo", resp.Error)
	}
	if !resp.Found {
		return nil, ErrTodoNotFound
	}
	return &resp.Todo, nil
}

// DeleteTodo deletes a todo via the delete-todo service.
func (a *todoAdapter) DeleteTodo(ctx context.Context, todoID uint) error {
	req := DeleteTodoRequest{TodoID: todoID}
	var resp DeleteResult
	if err := callService(ctx, a.container, "delete-todo", &req, &resp); err != nil {
		return err
	}
	if resp.Error != "" {
		return newOperationError("delete-todo", resp.Error)
	}
	if !resp.Found {
		return ErrTodoNotFound
	}
	return nil
}

// ListTodos lists every todo via the list-todos service.
func (a *todoAdapter) ListTodos(ctx context.Context) ([]TodoView, error) {
	req := ListTodosRequest{}
	var resp TodoListResult
	if err := callService(ctx, a.container, "list-todos", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, newOperationError("list-todos", resp.Error)
	}
	return resp.Todos, nil
}
