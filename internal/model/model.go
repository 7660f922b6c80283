package model

import "time"

// SourceCalDAV is the provenance tag recorded on events imported from a
// CalDAV server. Together with ExternalID it forms the dedup key for
// repeated imports.
const SourceCalDAV = "caldav"

// Event is a calendar event. Events created through the API carry no
// provenance; events imported from an external calendar carry
// ExternalID + Source.
type Event struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `json:"description"`
	Start       time.Time  `gorm:"not null;index" json:"start"`
	End         time.Time  `gorm:"not null" json:"end"`
	AllDay      bool       `gorm:"default:false" json:"all_day"`
	Recurrence  *string    `gorm:"size:100" json:"recurrence"`
	CategoryID  *uint      `json:"category_id"`
	ExternalID  *string    `gorm:"size:255;index" json:"external_id"`
	Source      *string    `gorm:"size:50" json:"source"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Event) TableName() string { return "events" }

// Chore is a recurring-ish household task with an optional assignee and
// due date. CompletedAt is derived from Completed transitions and never
// set directly by callers.
type Chore struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `json:"description"`
	Assignee    *string    `gorm:"size:100" json:"assignee"`
	DueDate     *time.Time `json:"due_date"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CategoryID  *uint      `json:"category_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Chore) TableName() string { return "chores" }

// TodoList owns its items; deleting a list deletes them.
type TodoList struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Color      *string   `gorm:"size:20" json:"color"`
	CategoryID *uint     `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (TodoList) TableName() string { return "todo_lists" }

// TodoItem belongs to a TodoList. SortOrder drives display ordering,
// ties broken by ID.
type TodoItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ListID    uint      `gorm:"not null;index" json:"list_id"`
	Title     string    `gorm:"size:500;not null" json:"title"`
	Completed bool      `gorm:"default:false" json:"completed"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TodoItem) TableName() string { return "todo_items" }

// Category is referenced weakly by events, chores and lists; no
// referential integrity is enforced beyond the optional foreign key.
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Color     string    `gorm:"size:20;default:'#6366f1'" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

// CalendarSync is a configured external calendar source. The on-demand
// import endpoint takes connection parameters directly; these rows are
// consumed by the background scheduler.
type CalendarSync struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Source    string     `gorm:"size:50;not null" json:"source"`
	URL       *string    `json:"url"`
	Username  *string    `gorm:"size:255" json:"username"`
	Token     *string    `gorm:"column:token_encrypted" json:"-"`
	LastSync  *time.Time `json:"last_sync"`
	Enabled   bool       `json:"enabled"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (CalendarSync) TableName() string { return "calendar_syncs" }
