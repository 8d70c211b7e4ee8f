package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/app/repositories"
	"github.com/projectdesk/projectdesk/pkg/middleware"
	"github.com/projectdesk/projectdesk/pkg/model"
)

type CreateProjectInput struct {
	ClientID    *int64 `json:"clientId"    validate:"omitempty,gt=0"`
	ProjectName string `json:"projectName" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Status      string `json:"status"      validate:"omitempty,oneof=Pending 'In Progress' Completed"`
}

type UpdateProjectInput struct {
	ClientID    *int64  `json:"clientId"    validate:"omitempty,gt=0"`
	ProjectName *string `json:"projectName" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Status      *string `json:"status"      validate:"omitempty,oneof=Pending 'In Progress' Completed"`
}

// Progress summarises how far a project's tasks have come. In-progress tasks
// count as half done.
type Progress struct {
	Progress        int            `json:"progress"`
	ProjectName     string         `json:"projectName"`
	TotalTasks      int64          `json:"totalTasks"`
	CompletedTasks  int64          `json:"completedTasks"`
	InProgressTasks int64          `json:"inProgressTasks"`
	PendingTasks    int64          `json:"pendingTasks"`
	TaskStatus      []model.Record `json:"taskStatus"`
}

type ProjectService struct {
	projects *repositories.ProjectRepository
	clients  *repositories.ClientRepository
	tasks    *TaskService
	timeout  time.Duration
}

func NewProjectService(
	projects *repositories.ProjectRepository,
	clients *repositories.ClientRepository,
	tasks *TaskService,
	timeout time.Duration,
) *ProjectService {
	return &ProjectService{projects: projects, clients: clients, tasks: tasks, timeout: timeout}
}

func (s *ProjectService) List(ctx context.Context, f repositories.ProjectFilter) ([]model.Record, error) {
	return s.projects.List(ctx, f)
}

func (s *ProjectService) Get(ctx context.Context, id int64) (model.Record, error) {
	return s.projects.FindByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput) (model.Record, error) {
	rec := model.Record{
		"clientId":    nil,
		"projectName": in.ProjectName,
		"description": in.Description,
		"status":      in.Status,
	}
	if in.ClientID != nil {
		if err := s.checkClient(ctx, *in.ClientID); err != nil {
			return nil, err
		}
		rec["clientId"] = *in.ClientID
	}
	if in.Status == "" {
		rec["status"] = models.StatusPending
	}

	id, err := s.projects.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return s.projects.FindByID(ctx, id)
}

func (s *ProjectService) checkClient(ctx context.Context, id int64) error {
	ok, err := s.clients.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrClientNotFound
	}
	return nil
}

func (s *ProjectService) Update(ctx context.Context, id int64, fields model.Record) (model.Record, error) {
	changes := pick(fields, "clientId", "projectName", "description", "status")
	if len(changes) == 0 {
		return nil, models.Invalid("no updatable fields given")
	}
	if cid, ok := changes["clientId"]; ok && cid != nil {
		if err := s.checkClient(ctx, toInt(cid)); err != nil {
			return nil, err
		}
	}
	return s.apply(ctx, id, changes)
}

func (s *ProjectService) SetStatus(ctx context.Context, id int64, status string) (model.Record, error) {
	return s.apply(ctx, id, model.Record{"status": status})
}

func (s *ProjectService) apply(ctx context.Context, id int64, changes model.Record) (model.Record, error) {
	changes["updatedAt"] = now()
	n, err := s.projects.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, models.ErrProjectNotFound
	}
	return s.projects.FindByID(ctx, id)
}

func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	return s.projects.Delete(ctx, id)
}

func (s *ProjectService) exists(ctx context.Context, id int64) error {
	ok, err := s.projects.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrProjectNotFound
	}
	return nil
}

func (s *ProjectService) Stats(ctx context.Context) (models.Counts, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.projects.Stats(ctx)
}

// MyProjects lists the projects of the client account owned by userID.
func (s *ProjectService) MyProjects(ctx context.Context, userID int64) ([]model.Record, error) {
	return s.projects.ByClientUser(ctx, userID)
}

// WorkerProjects lists the projects in which workerID holds a task.
func (s *ProjectService) WorkerProjects(ctx context.Context, workerID int64) ([]model.Record, error) {
	return s.projects.ByWorker(ctx, workerID)
}

func (s *ProjectService) ByClient(ctx context.Context, clientID int64) ([]model.Record, error) {
	if err := s.checkClient(ctx, clientID); err != nil {
		return nil, err
	}
	return s.projects.List(ctx, repositories.ProjectFilter{ClientID: clientID})
}

// Progress reports the completion of a project. It gives up once the
// report timeout passes.
func (s *ProjectService) Progress(ctx context.Context, id int64) (Progress, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p, err := s.progress(ctx, id)
	if err != nil && ctx.Err() != nil && !errors.Is(err, models.ErrNotFound) {
		return Progress{}, ctx.Err()
	}
	return p, err
}

func (s *ProjectService) progress(ctx context.Context, id int64) (Progress, error) {
	name, err := s.projects.Name(ctx, id)
	if err != nil {
		return Progress{}, err
	}
	counts, err := s.projects.TaskCounts(ctx, id)
	if err != nil {
		return Progress{}, err
	}
	checklist, err := s.projects.TaskChecklist(ctx, id)
	if err != nil {
		return Progress{}, err
	}

	return Progress{
		Progress:        percentDone(counts),
		ProjectName:     name,
		TotalTasks:      counts.Total,
		CompletedTasks:  counts.Completed,
		InProgressTasks: counts.InProgress,
		PendingTasks:    counts.Pending,
		TaskStatus:      checklist,
	}, nil
}

func percentDone(c models.Counts) int {
	if c.Total == 0 {
		return 0
	}
	done := float64(c.Completed*100+c.InProgress*50) / float64(c.Total*100)
	return int(math.Round(done * 100))
}

// UpdateTaskStatus lets a worker move one of their own tasks along. Admins
// may change any task.
func (s *ProjectService) UpdateTaskStatus(ctx context.Context, who middleware.Identity, taskID int64, status string) (model.Record, error) {
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return nil, err
	}
	if who.Role != models.RoleAdmin {
		mine, err := s.tasks.tasks.AssignedTo(ctx, taskID, who.UserID)
		if err != nil {
			return nil, err
		}
		if !mine {
			return nil, models.ErrForbidden
		}
	}
	return s.tasks.SetStatus(ctx, taskID, status)
}

// WorkerTasks lists the tasks of a project assigned to workerID.
func (s *ProjectService) WorkerTasks(ctx context.Context, projectID, workerID int64) ([]model.Record, error) {
	if err := s.exists(ctx, projectID); err != nil {
		return nil, err
	}
	return s.projects.WorkerTasks(ctx, projectID, workerID)
}
