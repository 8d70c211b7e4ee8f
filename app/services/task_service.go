package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/app/repositories"
	"github.com/projectdesk/projectdesk/pkg/event"
	"github.com/projectdesk/projectdesk/pkg/logger"
	"github.com/projectdesk/projectdesk/pkg/metrics"
	"github.com/projectdesk/projectdesk/pkg/model"
	"github.com/projectdesk/projectdesk/pkg/workerpool"
)

type CreateTaskInput struct {
	ProjectID   int64  `json:"projectId"   validate:"required,gt=0"`
	WorkerID    *int64 `json:"workerId"    validate:"omitempty,gt=0"`
	Description string `json:"description" validate:"required,max=2000"`
	Status      string `json:"status"      validate:"omitempty,oneof=Pending 'In Progress' Completed"`
}

type UpdateTaskInput struct {
	ProjectID   *int64  `json:"projectId"   validate:"omitempty,gt=0"`
	WorkerID    *int64  `json:"workerId"    validate:"omitempty,gt=0"`
	Description *string `json:"description" validate:"omitempty,min=1,max=2000"`
	Status      *string `json:"status"      validate:"omitempty,oneof=Pending 'In Progress' Completed"`
}

type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=Pending 'In Progress' Completed"`
}

type BulkAssignInput struct {
	TaskIDs  []int64 `json:"taskIds"  validate:"required,min=1,max=500,dive,gt=0"`
	WorkerID int64   `json:"workerId" validate:"required,gt=0"`
}

type BulkStatusInput struct {
	TaskIDs []int64 `json:"taskIds" validate:"required,min=1,max=500,dive,gt=0"`
	Status  string  `json:"status"  validate:"required,oneof=Pending 'In Progress' Completed"`
}

// BulkResult reports which tasks a bulk operation changed.
type BulkResult struct {
	Requested int     `json:"requested"`
	Updated   []int64 `json:"updated"`
	NotFound  []int64 `json:"notFound"`
	Failed    []int64 `json:"failed"`
}

type TaskService struct {
	tasks    *repositories.TaskRepository
	projects *repositories.ProjectRepository
	users    *repositories.UserRepository
	pool     *workerpool.Pool
	events   event.Firer
	timeout  time.Duration
}

func NewTaskService(
	tasks *repositories.TaskRepository,
	projects *repositories.ProjectRepository,
	users *repositories.UserRepository,
	pool *workerpool.Pool,
	events event.Firer,
	timeout time.Duration,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		users:    users,
		pool:     pool,
		events:   events,
		timeout:  timeout,
	}
}

// Create stores a task. An unassigned task keeps a null workerId and the
// status defaults to Pending.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (model.Record, error) {
	if err := s.checkProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}

	rec := model.Record{
		"projectId":   in.ProjectID,
		"description": in.Description,
		"workerId":    nil,
		"status":      in.Status,
	}
	if in.WorkerID != nil {
		if err := s.checkWorker(ctx, *in.WorkerID); err != nil {
			return nil, err
		}
		rec["workerId"] = *in.WorkerID
	}
	if in.Status == "" {
		rec["status"] = models.StatusPending
	}

	id, err := s.tasks.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Fire(models.EventTaskCreated, task)
	return task, nil
}

func (s *TaskService) checkProject(ctx context.Context, id int64) error {
	ok, err := s.projects.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrProjectNotFound
	}
	return nil
}

func (s *TaskService) checkWorker(ctx context.Context, id int64) error {
	_, err := s.users.FindByID(ctx, id)
	return err
}

func (s *TaskService) List(ctx context.Context, f repositories.TaskFilter) ([]model.Record, error) {
	return s.tasks.List(ctx, f)
}

func (s *TaskService) Get(ctx context.Context, id int64) (model.Record, error) {
	return s.tasks.FindByID(ctx, id)
}

// Update applies the fields present in the body and bumps updatedAt. An
// explicit null workerId unassigns the task.
func (s *TaskService) Update(ctx context.Context, id int64, fields model.Record) (model.Record, error) {
	changes := pick(fields, "projectId", "workerId", "description", "status")
	if len(changes) == 0 {
		return nil, models.Invalid("no updatable fields given")
	}
	if pid, ok := changes["projectId"]; ok {
		if err := s.checkProject(ctx, toInt(pid)); err != nil {
			return nil, err
		}
	}
	if wid, ok := changes["workerId"]; ok && wid != nil {
		if err := s.checkWorker(ctx, toInt(wid)); err != nil {
			return nil, err
		}
	}
	return s.apply(ctx, id, changes)
}

// SetStatus changes only the task's status.
func (s *TaskService) SetStatus(ctx context.Context, id int64, status string) (model.Record, error) {
	return s.apply(ctx, id, model.Record{"status": status})
}

func (s *TaskService) apply(ctx context.Context, id int64, changes model.Record) (model.Record, error) {
	changes["updatedAt"] = now()
	n, err := s.tasks.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, models.ErrTaskNotFound
	}
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Fire(models.EventTaskUpdated, task)
	return task, nil
}

// Delete removes the task. Deleting a missing task succeeds.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Fire(models.EventTaskDeleted, model.Record{"taskId": id})
	return nil
}

func (s *TaskService) ByProject(ctx context.Context, projectID int64) ([]model.Record, error) {
	return s.tasks.List(ctx, repositories.TaskFilter{ProjectID: projectID})
}

func (s *TaskService) ByWorker(ctx context.Context, workerID int64) ([]model.Record, error) {
	return s.tasks.List(ctx, repositories.TaskFilter{WorkerID: workerID})
}

func (s *TaskService) ByStatus(ctx context.Context, status string) ([]model.Record, error) {
	if !slices.Contains(models.Statuses, status) {
		return nil, models.Invalid("status must be one of " + strings.Join(models.Statuses, ", "))
	}
	return s.tasks.List(ctx, repositories.TaskFilter{Status: status})
}

func (s *TaskService) Detailed(ctx context.Context, f repositories.TaskFilter) ([]model.Record, error) {
	return s.tasks.Detailed(ctx, f)
}

func (s *TaskService) DetailedByID(ctx context.Context, id int64) (model.Record, error) {
	return s.tasks.DetailedByID(ctx, id)
}

func (s *TaskService) Stats(ctx context.Context) (repositories.TaskStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.tasks.Stats(ctx)
}

// DateRange lists the tasks created between two dates. Dates without a time
// cover the whole day.
func (s *TaskService) DateRange(ctx context.Context, start, end string) ([]model.Record, error) {
	if start == "" || end == "" {
		return nil, models.Invalid("startDate and endDate are required")
	}
	from, _, ok := parseDay(start)
	if !ok {
		return nil, models.Invalid("startDate is not a valid date")
	}
	to, dayOnly, ok := parseDay(end)
	if !ok {
		return nil, models.Invalid("endDate is not a valid date")
	}
	if dayOnly {
		to = to.Add(24*time.Hour - time.Second)
	}
	if to.Before(from) {
		return nil, models.Invalid("endDate is before startDate")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.tasks.CreatedBetween(ctx, from, to)
}

func parseDay(s string) (t time.Time, dayOnly, ok bool) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, true
	}
	return time.Time{}, false, false
}

func (s *TaskService) Performance(ctx context.Context, workerID int64) (repositories.Performance, error) {
	if err := s.checkWorker(ctx, workerID); err != nil {
		return repositories.Performance{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.tasks.WorkerPerformance(ctx, workerID)
}

// BulkAssign assigns every listed task to one worker.
func (s *TaskService) BulkAssign(ctx context.Context, in BulkAssignInput) (BulkResult, error) {
	if err := s.checkWorker(ctx, in.WorkerID); err != nil {
		return BulkResult{}, err
	}
	return s.bulk(ctx, "bulk_assign", in.TaskIDs, model.Record{"workerId": in.WorkerID})
}

// BulkUpdateStatus sets the status of every listed task.
func (s *TaskService) BulkUpdateStatus(ctx context.Context, in BulkStatusInput) (BulkResult, error) {
	return s.bulk(ctx, "bulk_update_status", in.TaskIDs, model.Record{"status": in.Status})
}

func (s *TaskService) bulk(ctx context.Context, job string, ids []int64, changes model.Record) (BulkResult, error) {
	ids = unique(ids)
	res := BulkResult{
		Requested: len(ids),
		Updated:   []int64{},
		NotFound:  []int64{},
		Failed:    []int64{},
	}
	var mu sync.Mutex

	err := s.pool.Each(ctx, len(ids), func(ctx context.Context, i int) {
		start := time.Now()
		id := ids[i]

		fields := make(model.Record, len(changes)+1)
		for k, v := range changes {
			fields[k] = v
		}
		_, err := s.apply(ctx, id, fields)

		mu.Lock()
		defer mu.Unlock()
		switch {
		case err == nil:
			res.Updated = append(res.Updated, id)
			metrics.RecordBulkJob(job, "ok", start)
		case errors.Is(err, models.ErrNotFound):
			res.NotFound = append(res.NotFound, id)
			metrics.RecordBulkJob(job, "not_found", start)
		default:
			res.Failed = append(res.Failed, id)
			metrics.RecordBulkJob(job, "error", start)
			logger.WithCtx(ctx).Error("bulk task update failed", "job", job, "task_id", id, "error", err)
		}
	})
	slices.Sort(res.Updated)
	slices.Sort(res.NotFound)
	slices.Sort(res.Failed)
	return res, err
}

func unique(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// toInt reads an id decoded from a JSON body.
func toInt(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}
