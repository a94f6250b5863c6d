package storage

import "time"

// DefaultPriority is used when a todo is created without one. 1 is high, 3 is low.
const DefaultPriority = 3

// Todo is the database model of a todo item
type Todo struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	IsDone      bool      `gorm:"column:is_done;not null" json:"isDone"`
	Priority    int       `gorm:"column:priority;not null" json:"priority"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName returns the table name for the Todo model
func (Todo) TableName() string {
	return "todo_list"
}
