package repositories

import (
	"context"
	"strings"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/pkg/model"
)

const projectWithClient = `
	SELECT p.project_id, p.client_id, p.project_name, p.description, p.status,
	       p.created_at, p.updated_at,
	       c.contact_info, u.name AS client_name, u.email AS client_email
	FROM PROJECTS p
	LEFT JOIN CLIENTS c ON p.client_id = c.client_id
	LEFT JOIN USERS u ON c.user_id = u.user_id`

const statusCounts = `
	SELECT COUNT(*) AS total,
	       SUM(CASE WHEN status = 'Completed' THEN 1 ELSE 0 END) AS completed,
	       SUM(CASE WHEN status = 'Pending' THEN 1 ELSE 0 END) AS pending,
	       SUM(CASE WHEN status = 'In Progress' THEN 1 ELSE 0 END) AS in_progress`

// ProjectFilter narrows List. Zero fields are ignored.
type ProjectFilter struct {
	Status   string
	ClientID int64
	Search   string
}

// ProjectRepository handles database operations for PROJECTS.
type ProjectRepository struct {
	store *model.Store
}

func NewProjectRepository(store *model.Store) *ProjectRepository {
	return &ProjectRepository{store: store}
}

// List returns projects with a nested client summary, newest first.
func (r *ProjectRepository) List(ctx context.Context, f ProjectFilter) ([]model.Record, error) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		conds = append(conds, "p.status = ?")
		args = append(args, f.Status)
	}
	if f.ClientID > 0 {
		conds = append(conds, "p.client_id = ?")
		args = append(args, f.ClientID)
	}
	if f.Search != "" {
		term := "%" + f.Search + "%"
		conds = append(conds, "(p.project_name LIKE ? OR p.description LIKE ? OR u.name LIKE ?)")
		args = append(args, term, term, term)
	}

	q := projectWithClient
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY p.created_at DESC, p.project_id DESC"

	return r.withClients(ctx, q, args...)
}

// ByClientUser returns the projects of the client owned by userID.
func (r *ProjectRepository) ByClientUser(ctx context.Context, userID int64) ([]model.Record, error) {
	return r.withClients(ctx, projectWithClient+
		" WHERE u.user_id = ? ORDER BY p.created_at DESC, p.project_id DESC", userID)
}

// ByWorker returns the projects holding at least one task assigned to workerID.
func (r *ProjectRepository) ByWorker(ctx context.Context, workerID int64) ([]model.Record, error) {
	return r.withClients(ctx, projectWithClient+`
		WHERE p.project_id IN (SELECT t.project_id FROM TASKS t WHERE t.worker_id = ?)
		ORDER BY p.created_at DESC, p.project_id DESC`, workerID)
}

func (r *ProjectRepository) withClients(ctx context.Context, q string, args ...any) ([]model.Record, error) {
	rows, err := r.store.FindMany(ctx, models.ProjectWithClient, q, args...)
	if err != nil {
		return nil, err
	}
	return model.ProjectAll(rows, models.ProjectWithClient), nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (model.Record, error) {
	rec, err := r.store.GetOne(ctx, models.Project, "SELECT * FROM PROJECTS WHERE project_id = ?", id)
	return found(rec, err, models.ErrProjectNotFound)
}

func (r *ProjectRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.store.Exists(ctx, "SELECT 1 FROM PROJECTS WHERE project_id = ?", id)
}

// Name returns the project's name, or ErrProjectNotFound.
func (r *ProjectRepository) Name(ctx context.Context, id int64) (string, error) {
	rec, err := r.store.GetOne(ctx, models.Project, "SELECT project_name FROM PROJECTS WHERE project_id = ?", id)
	if rec, err = found(rec, err, models.ErrProjectNotFound); err != nil {
		return "", err
	}
	name, _ := rec["projectName"].(string)
	return name, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project model.Record) (int64, error) {
	return r.store.Insert(ctx, models.TableProjects, project, models.Project)
}

func (r *ProjectRepository) Update(ctx context.Context, id int64, fields model.Record) (int64, error) {
	res, err := r.store.Update(ctx, models.TableProjects, fields, model.Record{"projectId": id}, models.Project)
	return res.RowsAffected, err
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.store.Remove(ctx, models.TableProjects, model.Record{"projectId": id}, models.Project)
	return err
}

// Stats counts every project by status.
func (r *ProjectRepository) Stats(ctx context.Context) (models.Counts, error) {
	rec, err := r.store.GetOne(ctx, models.StatusCounts, statusCounts+" FROM PROJECTS")
	if err != nil {
		return models.Counts{}, err
	}
	return models.CountsOf(rec), nil
}

// TaskCounts counts the tasks of a project by status.
func (r *ProjectRepository) TaskCounts(ctx context.Context, id int64) (models.Counts, error) {
	rec, err := r.store.GetOne(ctx, models.StatusCounts, statusCounts+" FROM TASKS WHERE project_id = ?", id)
	if err != nil {
		return models.Counts{}, err
	}
	return models.CountsOf(rec), nil
}

// TaskChecklist lists a project's tasks, completed first, then in
// progress, then pending.
func (r *ProjectRepository) TaskChecklist(ctx context.Context, id int64) ([]model.Record, error) {
	return r.store.FindMany(ctx, models.TaskDetail, `
		SELECT t.task_id, t.description, t.status, t.created_at, u.name AS worker_name
		FROM TASKS t
		LEFT JOIN USERS u ON t.worker_id = u.user_id
		WHERE t.project_id = ?
		ORDER BY CASE t.status
		           WHEN 'Completed' THEN 1
		           WHEN 'In Progress' THEN 2
		           WHEN 'Pending' THEN 3
		           ELSE 4
		         END,
		         t.created_at DESC, t.task_id DESC`, id)
}

// WorkerTasks lists the tasks of a project assigned to workerID.
func (r *ProjectRepository) WorkerTasks(ctx context.Context, projectID, workerID int64) ([]model.Record, error) {
	return r.store.FindMany(ctx, models.TaskDetail, `
		SELECT t.*, p.project_name, p.status AS project_status, u.name AS worker_name
		FROM TASKS t
		JOIN PROJECTS p ON t.project_id = p.project_id
		LEFT JOIN USERS u ON t.worker_id = u.user_id
		WHERE t.project_id = ? AND t.worker_id = ?
		ORDER BY t.created_at DESC, t.task_id DESC`, projectID, workerID)
}
