package models

import "time"

// Task represents a single card on the board.
type Task struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Deadline  *LocalTime `json:"deadline"`
	Status    Status     `json:"status"`
	DeletedAt *LocalTime `json:"deleted_at"`
}

// Active reports whether the task has not been soft-deleted.
func (t Task) Active() bool {
	return t.DeletedAt == nil
}

// NewTask carries the mutable fields of a task. It is used both to insert a task and to replace the
// fields of an existing one.
type NewTask struct {
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	Deadline *LocalTime `json:"deadline"`
	Status   Status     `json:"status"`
}

// TaskRow is the raw column set of the tasks table as the drivers scan it.
type TaskRow struct {
	ID        int64
	Title     string
	Content   string
	Deadline  *time.Time
	Status    string
	DeletedAt *time.Time
}

// Task converts the scanned row into the API entity.
func (r TaskRow) Task() Task {
	return Task{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Deadline:  localTimePtr(r.Deadline),
		Status:    ParseStatus(r.Status),
		DeletedAt: localTimePtr(r.DeletedAt),
	}
}

// Dest returns scan destinations in TaskColumns order.
func (r *TaskRow) Dest() []any {
	return []any{&r.ID, &r.Title, &r.Content, &r.Deadline, &r.Status, &r.DeletedAt}
}

// TaskColumns lists the tasks columns in the order Dest expects them.
const TaskColumns = "id, title, content, deadline, status, deleted_at"

// DeadlineValue returns the deadline as a bindable query argument.
func (n NewTask) DeadlineValue() *time.Time {
	return timePtr(n.Deadline)
}
