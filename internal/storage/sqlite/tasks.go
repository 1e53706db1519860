package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"tasktracker/internal/models"
	"tasktracker/internal/storage"
)

// Conn is a checked-out SQLite connection.
type Conn struct {
	conn *sql.Conn
}

var _ storage.Conn = (*Conn)(nil)

// Release returns the connection to the pool.
func (c *Conn) Release() {
	// sql.Conn.Close is idempotent and returns ErrConnDone on repeated calls.
	_ = c.conn.Close()
}

// CreateTask inserts a new active task and reads it back.
func (c *Conn) CreateTask(ctx context.Context, t models.NewTask) (models.Task, error) {
	res, err := c.conn.ExecContext(ctx, `INSERT INTO tasks(title, content, deadline, status) VALUES(?, ?, ?, ?)`,
		t.Title, t.Content, t.DeadlineValue(), t.Status.String())
	if err != nil {
		return models.Task{}, storage.StoreError("insert task", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, storage.StoreError("task id", err)
	}
	return c.GetTask(ctx, id)
}

// ListActiveTasks returns every task that has not been soft-deleted.
func (c *Conn) ListActiveTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := c.conn.QueryContext(ctx, `SELECT `+models.TaskColumns+` FROM tasks WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, storage.StoreError("list tasks", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var row models.TaskRow
		if err := rows.Scan(row.Dest()...); err != nil {
			return nil, storage.StoreError("scan task", err)
		}
		tasks = append(tasks, row.Task())
	}
	if err := rows.Err(); err != nil {
		return nil, storage.StoreError("list tasks", err)
	}
	return tasks, nil
}

// GetTask retrieves an active task by id.
func (c *Conn) GetTask(ctx context.Context, id int64) (models.Task, error) {
	var row models.TaskRow
	err := c.conn.QueryRowContext(ctx, `SELECT `+models.TaskColumns+` FROM tasks WHERE id = ? AND deleted_at IS NULL`, id).
		Scan(row.Dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, storage.StoreError("get task", err)
	}
	return row.Task(), nil
}

// UpdateTask replaces the mutable fields of an active task.
func (c *Conn) UpdateTask(ctx context.Context, id int64, t models.NewTask) (models.Task, error) {
	res, err := c.conn.ExecContext(ctx, `UPDATE tasks SET title = ?, content = ?, deadline = ?, status = ? WHERE id = ? AND deleted_at IS NULL`,
		t.Title, t.Content, t.DeadlineValue(), t.Status.String(), id)
	if err != nil {
		return models.Task{}, storage.StoreError("update task", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Task{}, storage.StoreError("update task", err)
	}
	if affected == 0 {
		return models.Task{}, storage.ErrNotFound
	}
	return c.GetTask(ctx, id)
}

// SoftDeleteTask stamps deleted_at with the current local time.
func (c *Conn) SoftDeleteTask(ctx context.Context, id int64) (int64, error) {
	res, err := c.conn.ExecContext(ctx, `UPDATE tasks SET deleted_at = ? WHERE id = ?`, models.Now().Time, id)
	if err != nil {
		return 0, storage.StoreError("delete task", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, storage.StoreError("delete task", err)
	}
	return affected, nil
}
