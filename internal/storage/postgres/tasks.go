package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tasktracker/internal/models"
	"tasktracker/internal/storage"
)

// Conn is a connection checked out of the pool.
type Conn struct {
	conn *pgxpool.Conn
}

var _ storage.Conn = (*Conn)(nil)

// Release returns the connection to the pool. Repeated calls are no-ops.
func (c *Conn) Release() {
	c.conn.Release()
}

// CreateTask inserts a new active task and returns the stored row.
func (c *Conn) CreateTask(ctx context.Context, t models.NewTask) (models.Task, error) {
	query := `
		INSERT INTO tasks (title, content, deadline, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + models.TaskColumns

	var row models.TaskRow
	err := c.conn.QueryRow(ctx, query, t.Title, t.Content, t.DeadlineValue(), t.Status.String()).Scan(row.Dest()...)
	if err != nil {
		return models.Task{}, storage.StoreError("insert task", err)
	}
	return row.Task(), nil
}

// ListActiveTasks returns every task without a deletion stamp.
func (c *Conn) ListActiveTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := c.conn.Query(ctx, `SELECT `+models.TaskColumns+` FROM tasks WHERE deleted_at IS NULL`)
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
	query := `
		SELECT ` + models.TaskColumns + `
		FROM tasks
		WHERE id = $1 AND deleted_at IS NULL`

	var row models.TaskRow
	err := c.conn.QueryRow(ctx, query, id).Scan(row.Dest()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, storage.StoreError("get task", err)
	}
	return row.Task(), nil
}

// UpdateTask overwrites title, content, deadline and status of an active task.
func (c *Conn) UpdateTask(ctx context.Context, id int64, t models.NewTask) (models.Task, error) {
	query := `
		UPDATE tasks
		SET title = $1, content = $2, deadline = $3, status = $4
		WHERE id = $5 AND deleted_at IS NULL`

	tag, err := c.conn.Exec(ctx, query, t.Title, t.Content, t.DeadlineValue(), t.Status.String(), id)
	if err != nil {
		return models.Task{}, storage.StoreError("update task", err)
	}
	if tag.RowsAffected() == 0 {
		return models.Task{}, storage.ErrNotFound
	}
	return c.GetTask(ctx, id)
}

// SoftDeleteTask stamps deleted_at on the row, deleted or not.
func (c *Conn) SoftDeleteTask(ctx context.Context, id int64) (int64, error) {
	tag, err := c.conn.Exec(ctx, `UPDATE tasks SET deleted_at = $1 WHERE id = $2`, models.Now().Time, id)
	if err != nil {
		return 0, storage.StoreError("delete task", err)
	}
	return tag.RowsAffected(), nil
}
