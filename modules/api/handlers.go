package api

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/example/tasks-service/modules/todo"
)

// Handlers serves the group and todo endpoints on top of a TodoPort.
type Handlers struct {
	todos    todo.TodoPort
	validate *validator.Validate
	logger   types.Logger
}

// NewHandlers creates the HTTP handlers.
func NewHandlers(todos todo.TodoPort, logger types.Logger) *Handlers {
	return &Handlers{
		todos:    todos,
		validate: newValidator(),
		logger:   logger,
	}
}

// register mounts every route on app.
func (h *Handlers) register(app *fiber.App) {
	app.Get("/health", h.Health)

	app.Post("/create/groups/", h.CreateGroup)
	app.Get("/list/groups/", h.ListGroups)
	app.Get("/get/groups/:group_id", h.GetGroup)
	app.Delete("/delete/groups/:group_id", h.DeleteGroup)

	app.Post("/create/todos/", h.CreateTodo)
	app.Get("/get/grouped/todos", h.GroupedTodos)
	app.Get("/get/todos/:todo_id", h.GetTodo)
	app.Put("/update/todos/:todo_id", h.UpdateTodo)
	app.Delete("/delete/todos/:todo_id", h.DeleteTodo)
	app.Get("/list/todos/", h.ListTodos)
}

// Health handles GET /health.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "healthy",
		Details: map[string]any{"module": "api"},
	})
}

// CreateGroup handles POST /create/groups/.
func (h *Handlers) CreateGroup(c *fiber.Ctx) error {
	var req CreateGroupRequest
	if ok, err := h.decode(c, &req); !ok {
		return err
	}

	group, err := h.todos.CreateGroup(c.UserContext(), req.Name)
	if err != nil {
		return h.fail(c, "creating group", err)
	}
	return c.JSON(toGroupResponse(group))
}

// ListGroups handles GET /list/groups/.
func (h *Handlers) ListGroups(c *fiber.Ctx) error {
	groups, err := h.todos.ListGroups(c.UserContext())
	if err != nil {
		return h.fail(c, "fetching groups", err)
	}
	return c.JSON(toGroupResponses(groups))
}

// GetGroup handles GET /get/groups/:group_id.
func (h *Handlers) GetGroup(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "group_id")
	if !ok {
		return err
	}

	group, err := h.todos.GetGroup(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "fetching group", err)
	}
	return c.JSON(toGroupResponse(group))
}

// DeleteGroup handles DELETE /delete/groups/:group_id.
func (h *Handlers) DeleteGroup(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "group_id")
	if !ok {
		return err
	}

	if err := h.todos.DeleteGroup(c.UserContext(), id); err != nil {
		return h.fail(c, "deleting group", err)
	}
	return c.JSON(DeleteResponse{Message: "Group deleted successfully"})
}

// CreateTodo handles POST /create/todos/.
func (h *Handlers) CreateTodo(c *fiber.Ctx) error {
	var req CreateTodoRequest
	if ok, err := h.decode(c, &req); !ok {
		return err
	}

	created, err := h.todos.CreateTodo(c.UserContext(), &todo.CreateTodoRequest{
		Task:        req.Task,
		Description: req.Description,
		Completed:   req.Completed,
		AssignedBy:  req.AssignedBy,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		GroupID:     req.GroupID,
		ParentID:    req.ParentID,
	})
	if err != nil {
		return h.fail(c, "creating todo", err)
	}
	return c.JSON(toTodoResponse(created))
}

// GroupedTodos handles GET /get/grouped/todos.
func (h *Handlers) GroupedTodos(c *fiber.Ctx) error {
	groups, err := h.todos.ListGroups(c.UserContext())
	if err != nil {
		return h.fail(c, "fetching grouped todos", err)
	}
	return c.JSON(toGroupResponses(groups))
}

// GetTodo handles GET /get/todos/:todo_id.
func (h *Handlers) GetTodo(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "todo_id")
	if !ok {
		return err
	}

	found, err := h.todos.GetTodo(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "fetching todo", err)
	}
	return c.JSON(toTodoResponse(found))
}

// UpdateTodo handles PUT /update/todos/:todo_id.
func (h *Handlers) UpdateTodo(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "todo_id")
	if !ok {
		return err
	}

	var req UpdateTodoRequest
	if ok, err := h.decode(c, &req); !ok {
		return err
	}
	if nulls := req.nullViolations(); len(nulls) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(nullErrors(nulls))
	}

	updated, err := h.todos.UpdateTodo(c.UserContext(), id, req.toChanges())
	if err != nil {
		return h.fail(c, "updating todo", err)
	}
	return c.JSON(toTodoResponse(updated))
}

// DeleteTodo handles DELETE /delete/todos/:todo_id.
func (h *Handlers) DeleteTodo(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "todo_id")
	if !ok {
		return err
	}

	if err := h.todos.DeleteTodo(c.UserContext(), id); err != nil {
		return h.fail(c, "deleting todo", err)
	}
	return c.JSON(DeleteResponse{Message: "Todo deleted successfully"})
}

// ListTodos handles GET /list/todos/.
func (h *Handlers) ListTodos(c *fiber.Ctx) error {
	todos, err := h.todos.ListTodos(c.UserContext())
	if err != nil {
		return h.fail(c, "fetching todos", err)
	}
	return c.JSON(toTodoResponses(todos))
}

// decode parses and validates the body into dst. When it returns false the
// 422 response has already been written and err is its send result.
func (h *Handlers) decode(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusUnprocessableEntity).JSON(bodyError(err))
	}
	if err := h.validate.Struct(dst); err != nil {
		return false, c.Status(fiber.StatusUnprocessableEntity).JSON(validationErrors(err))
	}
	return true, nil
}

// fail maps a TodoPort error onto the response: absence is 404, anything
// else 400 with the underlying message.
func (h *Handlers) fail(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, todo.ErrTodoNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Detail: "Todo not found"})
	case errors.Is(err, todo.ErrGroupNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Detail: "Group not found"})
	}

	h.logger.Warn("Request failed",
		"action", action,
		"path", c.Path(),
		"request_id", c.Locals(requestIDKey),
		"error", err)
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Detail: fmt.Sprintf("Error %s: %s", action, err.Error()),
	})
}

// pathID parses an unsigned integer path parameter. When it returns false
// the 422 response has already been written and err is its send result.
func pathID(c *fiber.Ctx, param string) (uint, bool, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil {
		return 0, false, c.Status(fiber.StatusUnprocessableEntity).JSON(pathError(param))
	}
	return uint(id), true, nil
}
