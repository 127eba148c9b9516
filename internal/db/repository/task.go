package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"taskhub/internal/domain"
)

const taskColumns = `id, title, description, status, priority, start_date, end_date, creator_id, assignee_id, created_at, updated_at`

// TaskRepo implements domain.TaskRepository over database/sql.
type TaskRepo struct {
	db *sql.DB
}

// NewTaskRepo creates a new TaskRepo.
func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func scanTask(row interface{ Scan(...interface{}) error }) (*domain.Task, error) {
	var t domain.Task
	var status, priority string
	var updatedAt sql.NullTime
	err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &priority,
		&t.StartDate, &t.EndDate, &t.CreatorID, &t.AssigneeID, &t.CreatedAt, &updatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	if updatedAt.Valid {
		ts := updatedAt.Time
		t.UpdatedAt = &ts
	}
	return &t, nil
}

// Create inserts a new task and returns the stored row.
func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, status, priority, start_date, end_date, creator_id, assignee_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Description, string(t.Status), string(t.Priority),
		t.StartDate.UTC(), t.EndDate.UTC(), t.CreatorID, t.AssigneeID)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID returns the task with the given id.
func (r *TaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// buildTaskWhere translates a TaskFilter into a WHERE clause. The date
// condition matches tasks whose [start_date, end_date] range overlaps the
// requested window in any of the three possible ways.
func buildTaskWhere(filter domain.TaskFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.AssigneeID != nil {
		conds = append(conds, "assignee_id = ?")
		args = append(args, *filter.AssigneeID)
	}
	if filter.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Search != "" {
		conds = append(conds, "(title LIKE ? OR description LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.From != nil && filter.To != nil {
		conds = append(conds,
			`((start_date >= ? AND start_date <= ?) OR (end_date >= ? AND end_date <= ?) OR (start_date <= ? AND end_date >= ?))`)
		from, to := filter.From.UTC(), filter.To.UTC()
		args = append(args, from, to, from, to, from, to)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns the tasks matching filter, ordered by id, plus the total
// count before pagination.
func (r *TaskRepo) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int64, error) {
	where, args := buildTaskWhere(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + where + ` ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, filter.Page.Size(), filter.Page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, total, rows.Err()
}

// Update applies the present fields of req to the task and returns the
// updated row.
func (r *TaskRepo) Update(ctx context.Context, id int64, req *domain.UpdateTaskRequest) (*domain.Task, error) {
	var sets []string
	var args []interface{}

	if req.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *req.Description)
	}
	if req.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*req.Status))
	}
	if req.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*req.Priority))
	}
	if req.StartDate != nil {
		sets = append(sets, "start_date = ?")
		args = append(args, req.StartDate.UTC())
	}
	if req.EndDate != nil {
		sets = append(sets, "end_date = ?")
		args = append(args, req.EndDate.UTC())
	}
	if req.AssigneeID != nil {
		sets = append(sets, "assignee_id = ?")
		args = append(args, *req.AssigneeID)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.ErrNotFound("task %d not found", id)
	}
	return r.GetByID(ctx, id)
}

// UpdateStatus sets only the status column and returns the updated row.
func (r *TaskRepo) UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(status), id)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.ErrNotFound("task %d not found", id)
	}
	return r.GetByID(ctx, id)
}

// Delete removes the task with the given id.
func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound("task %d not found", id)
	}
	return nil
}

// MarkOverdue promotes pending and in-progress tasks whose end date has
// passed to the overdue status. Returns the number of rows changed.
func (r *TaskRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE status IN (?, ?) AND end_date < ?`,
		string(domain.StatusOverdue), string(domain.StatusPending), string(domain.StatusInProgress), now.UTC())
	if err != nil {
		return 0, mapDBError(err)
	}
	return res.RowsAffected()
}
