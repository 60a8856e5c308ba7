package todo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/example/tasks-service/domain/todo"
)

// Repository provides access to group and todo storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new todo repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// TodoDeletion describes the rows removed or changed by DeleteTodo.
type TodoDeletion struct {
	Todo        domain.Todo
	CascadedIDs []uint
	DetachedIDs []uint
}

// GroupDeletion describes the rows removed or changed by DeleteGroup.
type GroupDeletion struct {
	Group           domain.Group
	DeletedTodoIDs  []uint
	DetachedTodoIDs []uint
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// CreateGroup saves a new group.
func (r *Repository) CreateGroup(ctx context.Context, group *domain.Group) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(group).Error; err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// CreateTodo saves a new todo. Group and parent references are checked by
// the store's foreign keys.
func (r *Repository) CreateTodo(ctx context.Context, todo *domain.Todo) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(todo).Error; err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// ListGroups returns every group with its todos, newest group first.
func (r *Repository) ListGroups(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	err := r.db.WithContext(ctx).
		Preload("Todos", orderByID).
		Order("id DESC").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// FindGroup retrieves a group and its todos.
func (r *Repository) FindGroup(ctx context.Context, id uint) (*domain.Group, error) {
	var group domain.Group
	if err := r.db.WithContext(ctx).Preload("Todos", orderByID).First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	return &group, nil
}

// FindTodo retrieves a todo with its direct subtasks.
func (r *Repository) FindTodo(ctx context.Context, id uint) (*domain.Todo, error) {
	var todo domain.Todo
	if err := r.db.WithContext(ctx).Preload("Subtasks", orderByID).First(&todo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return &todo, nil
}

// ListTodos returns every todo with its direct subtasks.
func (r *Repository) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := r.db.WithContext(ctx).Preload("Subtasks", orderByID).Order("id ASC").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// UpdateTodo writes only the given columns and returns the reloaded todo.
// A nil column value stores NULL.
func (r *Repository) UpdateTodo(ctx context.Context, id uint, columns map[string]any) (*domain.Todo, error) {
	var updated domain.Todo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.Todo
		if err := tx.First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTodoNotFound
			}
			return fmt.Errorf("failed to find todo: %w", err)
		}

		if parentID, ok := columns["parent_id"].(uint); ok {
			if err := ensureNotAncestor(tx, id, parentID); err != nil {
				return err
			}
		}

		if len(columns) > 0 {
			if err := tx.Model(&current).Updates(columns).Error; err != nil {
				return fmt.Errorf("failed to update todo: %w", err)
			}
		}

		if err := tx.Preload("Subtasks", orderByID).First(&updated, id).Error; err != nil {
			return fmt.Errorf("failed to reload todo: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTodo removes a todo. With SubtaskCascade its whole subtask tree is
// removed too; with SubtaskDetach its direct subtasks become top-level.
func (r *Repository) DeleteTodo(ctx context.Context, id uint, policy domain.SubtaskPolicy) (*TodoDeletion, error) {
	var deletion TodoDeletion
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deletion.Todo, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTodoNotFound
			}
			return fmt.Errorf("failed to find todo: %w", err)
		}

		ids := []uint{id}
		switch policy {
		case domain.SubtaskDetach:
			detached, err := detachSubtasks(tx, []uint{id}, nil)
			if err != nil {
				return err
			}
			deletion.DetachedIDs = detached
		default:
			cascaded, err := collectSubtaskIDs(tx, []uint{id})
			if err != nil {
				return err
			}
			deletion.CascadedIDs = cascaded
			ids = append(ids, cascaded...)
		}

		result := tx.Delete(&domain.Todo{}, ids)
		if err := result.Error; err != nil {
			return fmt.Errorf("failed to delete todo: %w", err)
		}
		if result.RowsAffected == 0 {
			return ErrTodoNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deletion, nil
}

// DeleteGroup removes a group and every todo it owns. Subtasks of owned
// todos that live outside the group are deleted (SubtaskCascade) or
// detached (SubtaskDetach).
func (r *Repository) DeleteGroup(ctx context.Context, id uint, policy domain.SubtaskPolicy) (*GroupDeletion, error) {
	var deletion GroupDeletion
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Todos", orderByID).First(&deletion.Group, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return fmt.Errorf("failed to find group: %w", err)
		}

		var owned []uint
		if err := tx.Model(&domain.Todo{}).Where("group_id = ?", id).Order("id ASC").Pluck("id", &owned).Error; err != nil {
			return fmt.Errorf("failed to collect group todos: %w", err)
		}

		doomed := owned
		switch policy {
		case domain.SubtaskDetach:
			detached, err := detachSubtasks(tx, owned, &id)
			if err != nil {
				return err
			}
			deletion.DetachedTodoIDs = detached
		default:
			cascaded, err := collectSubtaskIDs(tx, owned)
			if err != nil {
				return err
			}
			doomed = append(doomed, cascaded...)
		}
		deletion.DeletedTodoIDs = doomed

		if len(doomed) > 0 {
			if err := tx.Delete(&domain.Todo{}, doomed).Error; err != nil {
				return fmt.Errorf("failed to delete group todos: %w", err)
			}
		}

		result := tx.Delete(&domain.Group{}, id)
		if err := result.Error; err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		if result.RowsAffected == 0 {
			return ErrGroupNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deletion, nil
}

// collectSubtaskIDs walks parent_id breadth-first and returns every
// descendant of roots, roots excluded.
func collectSubtaskIDs(tx *gorm.DB, roots []uint) ([]uint, error) {
	seen := make(map[uint]bool, len(roots))
	for _, id := range roots {
		seen[id] = true
	}

	var found []uint
	frontier := roots
	for len(frontier) > 0 {
		var children []uint
		err := tx.Model(&domain.Todo{}).
			Where("parent_id IN ?", frontier).
			Order("id ASC").
			Pluck("id", &children).Error
		if err != nil {
			return nil, fmt.Errorf("failed to collect subtasks: %w", err)
		}

		var next []uint
		for _, child := range children {
			if seen[child] {
				continue
			}
			seen[child] = true
			found = append(found, child)
			next = append(next, child)
		}
		frontier = next
	}
	return found, nil
}

// detachSubtasks clears parent_id on the direct subtasks of parents and
// returns their ids. A non-nil outsideGroup leaves subtasks of that group
// untouched.
func detachSubtasks(tx *gorm.DB, parents []uint, outsideGroup *uint) ([]uint, error) {
	if len(parents) == 0 {
		return nil, nil
	}

	query := tx.Model(&domain.Todo{}).Where("parent_id IN ?", parents)
	if outsideGroup != nil {
		query = query.Where("(group_id IS NULL OR group_id <> ?)", *outsideGroup)
	}

	var detached []uint
	if err := query.Order("id ASC").Pluck("id", &detached).Error; err != nil {
		return nil, fmt.Errorf("failed to collect subtasks: %w", err)
	}
	if len(detached) == 0 {
		return nil, nil
	}

	if err := tx.Model(&domain.Todo{}).Where("id IN ?", detached).Update("parent_id", nil).Error; err != nil {
		return nil, fmt.Errorf("failed to detach subtasks: %w", err)
	}
	return detached, nil
}

// ensureNotAncestor rejects parentID when id is parentID itself or one of
// its ancestors.
func ensureNotAncestor(tx *gorm.DB, id, parentID uint) error {
	seen := make(map[uint]bool)
	next := &parentID
	for next != nil {
		if *next == id {
			return ErrInvalidParent
		}
		if seen[*next] {
			return nil
		}
		seen[*next] = true

		var row domain.Todo
		err := tx.Select("id", "parent_id").First(&row, *next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// dangling reference, the foreign key rejects it on write
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to check parent: %w", err)
		}
		next = row.ParentID
	}
	return nil
}
