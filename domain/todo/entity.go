package todo

import "time"

// Priority bounds accepted for a todo.
const (
	MinPriority = 0
	MaxPriority = 3
)

// Group is a named collection that owns zero or more todos.
type Group struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"size:255;uniqueIndex;not null"`
	Todos []Todo `gorm:"foreignKey:GroupID"`
}

// TableName returns the table name for the Group entity.
func (Group) TableName() string {
	return "groups"
}

// Todo is a task record, optionally owned by a group and optionally a
// subtask of another todo. Subtasks are never stored on the row; they are
// loaded by querying parent_id.
type Todo struct {
	ID          uint      `gorm:"primaryKey"`
	Task        string    `gorm:"index;not null"`
	Description *string   `gorm:"type:text"`
	Completed   bool      `gorm:"not null;default:false"`
	AssignedBy  string    `gorm:"not null"`
	AssignedTo  string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"<-:create;autoCreateTime"`
	DueDate     *time.Time
	Priority    *int
	GroupID     *uint  `gorm:"index"`
	ParentID    *uint  `gorm:"index"`
	Subtasks    []Todo `gorm:"foreignKey:ParentID"`
}

// TableName returns the table name for the Todo entity.
func (Todo) TableName() string {
	return "todos"
}

// ValidPriority reports whether p is inside the accepted priority range.
func ValidPriority(p int) bool {
	return p >= MinPriority && p <= MaxPriority
}

// SubtaskPolicy controls what happens to the subtasks of a deleted todo.
type SubtaskPolicy string

const (
	// SubtaskCascade deletes the whole subtask tree together with its root.
	SubtaskCascade SubtaskPolicy = "cascade"
	// SubtaskDetach turns direct subtasks into top-level todos.
	SubtaskDetach SubtaskPolicy = "detach"
)

// Valid reports whether the policy is one of the known values.
func (p SubtaskPolicy) Valid() bool {
	return p == SubtaskCascade || p == SubtaskDetach
}
