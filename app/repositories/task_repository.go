package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/pkg/model"
)

const taskDetail = `
	SELECT t.*,
	       p.project_name, p.description AS project_description, p.status AS project_status,
	       u.name AS worker_name, u.email AS worker_email
	FROM TASKS t
	INNER JOIN PROJECTS p ON t.project_id = p.project_id
	LEFT JOIN USERS u ON t.worker_id = u.user_id`

// TaskFilter narrows List and Detailed. Zero fields are ignored.
type TaskFilter struct {
	ProjectID int64
	WorkerID  int64
	Status    string
}

func (f TaskFilter) where(alias string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.ProjectID > 0 {
		conds = append(conds, alias+"project_id = ?")
		args = append(args, f.ProjectID)
	}
	if f.WorkerID > 0 {
		conds = append(conds, alias+"worker_id = ?")
		args = append(args, f.WorkerID)
	}
	if f.Status != "" {
		conds = append(conds, alias+"status = ?")
		args = append(args, f.Status)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// TaskRepository handles database operations for TASKS.
type TaskRepository struct {
	store *model.Store
}

func NewTaskRepository(store *model.Store) *TaskRepository {
	return &TaskRepository{store: store}
}

// List returns the tasks matching f, newest first.
func (r *TaskRepository) List(ctx context.Context, f TaskFilter) ([]model.Record, error) {
	where, args := f.where("")
	return r.store.FindMany(ctx, models.Task,
		"SELECT * FROM TASKS"+where+" ORDER BY created_at DESC, task_id DESC", args...)
}

// Detailed is List joined with each task's project and worker.
func (r *TaskRepository) Detailed(ctx context.Context, f TaskFilter) ([]model.Record, error) {
	where, args := f.where("t.")
	return r.store.FindMany(ctx, models.TaskDetail,
		taskDetail+where+" ORDER BY t.created_at DESC, t.task_id DESC", args...)
}

func (r *TaskRepository) DetailedByID(ctx context.Context, id int64) (model.Record, error) {
	rec, err := r.store.GetOne(ctx, models.TaskDetail, taskDetail+" WHERE t.task_id = ?", id)
	return found(rec, err, models.ErrTaskNotFound)
}

// CreatedBetween returns detailed tasks created in [from, to].
func (r *TaskRepository) CreatedBetween(ctx context.Context, from, to time.Time) ([]model.Record, error) {
	return r.store.FindMany(ctx, models.TaskDetail,
		taskDetail+" WHERE t.created_at BETWEEN ? AND ? ORDER BY t.created_at DESC, t.task_id DESC",
		from.UTC(), to.UTC())
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (model.Record, error) {
	rec, err := r.store.GetOne(ctx, models.Task, "SELECT * FROM TASKS WHERE task_id = ?", id)
	return found(rec, err, models.ErrTaskNotFound)
}

func (r *TaskRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.store.Exists(ctx, "SELECT 1 FROM TASKS WHERE task_id = ?", id)
}

// AssignedTo reports whether the task is assigned to workerID.
func (r *TaskRepository) AssignedTo(ctx context.Context, id, workerID int64) (bool, error) {
	return r.store.Exists(ctx, "SELECT 1 FROM TASKS WHERE task_id = ? AND worker_id = ?", id, workerID)
}

func (r *TaskRepository) Create(ctx context.Context, task model.Record) (int64, error) {
	return r.store.Insert(ctx, models.TableTasks, task, models.Task)
}

func (r *TaskRepository) Update(ctx context.Context, id int64, fields model.Record) (int64, error) {
	res, err := r.store.Update(ctx, models.TableTasks, fields, model.Record{"taskId": id}, models.Task)
	return res.RowsAffected, err
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.store.Remove(ctx, models.TableTasks, model.Record{"taskId": id}, models.Task)
	return err
}

// TaskStats is the admin dashboard summary.
type TaskStats struct {
	models.Counts
	TotalProjects int64 `json:"totalProjects"`
	TotalWorkers  int64 `json:"totalWorkers"`
}

// Stats counts tasks by status plus the projects and workers they span.
func (r *TaskRepository) Stats(ctx context.Context) (TaskStats, error) {
	rec, err := r.store.GetOne(ctx, models.StatusCounts, statusCounts+" FROM TASKS")
	if err != nil {
		return TaskStats{}, err
	}
	spread, err := r.store.GetOne(ctx, model.Schema{
		model.F("totalProjects", model.Number),
		model.F("totalWorkers", model.Number),
	}, `SELECT COUNT(DISTINCT project_id) AS total_projects,
	           COUNT(DISTINCT worker_id) AS total_workers
	    FROM TASKS`)
	if err != nil {
		return TaskStats{}, err
	}
	return TaskStats{
		Counts:        models.CountsOf(rec),
		TotalProjects: models.Int(spread["totalProjects"]),
		TotalWorkers:  models.Int(spread["totalWorkers"]),
	}, nil
}

// Performance is one worker's task breakdown.
type Performance struct {
	WorkerID        int64   `json:"workerId"`
	TotalTasks      int64   `json:"totalTasks"`
	CompletedTasks  int64   `json:"completedTasks"`
	InProgressTasks int64   `json:"inProgressTasks"`
	PendingTasks    int64   `json:"pendingTasks"`
	CompletionRate  float64 `json:"completionRate"`
}

// WorkerPerformance summarises the tasks assigned to workerID. A worker
// without tasks gets an all-zero summary.
func (r *TaskRepository) WorkerPerformance(ctx context.Context, workerID int64) (Performance, error) {
	rec, err := r.store.GetOne(ctx, models.WorkerPerformance, `
		SELECT COUNT(*) AS total_tasks,
		       SUM(CASE WHEN status = 'Completed' THEN 1 ELSE 0 END) AS completed_tasks,
		       SUM(CASE WHEN status = 'In Progress' THEN 1 ELSE 0 END) AS in_progress_tasks,
		       SUM(CASE WHEN status = 'Pending' THEN 1 ELSE 0 END) AS pending_tasks
		FROM TASKS
		WHERE worker_id = ?`, workerID)
	if err != nil {
		return Performance{}, err
	}

	p := Performance{
		WorkerID:        workerID,
		TotalTasks:      models.Int(rec["totalTasks"]),
		CompletedTasks:  models.Int(rec["completedTasks"]),
		InProgressTasks: models.Int(rec["inProgressTasks"]),
		PendingTasks:    models.Int(rec["pendingTasks"]),
	}
	if p.TotalTasks > 0 {
		rate := float64(p.CompletedTasks) / float64(p.TotalTasks) * 100
		p.CompletionRate = float64(int64(rate*100+0.5)) / 100
	}
	return p, nil
}
