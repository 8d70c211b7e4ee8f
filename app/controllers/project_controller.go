package controllers

import (
	"net/http"
	"slices"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/app/repositories"
	"github.com/projectdesk/projectdesk/app/services"
	"github.com/projectdesk/projectdesk/pkg/ctx"
)

type ProjectController struct {
	projects *services.ProjectService
}

func NewProjectController(projects *services.ProjectService) *ProjectController {
	return &ProjectController{projects: projects}
}

// Index lists projects, optionally filtered by ?status=, ?clientId= and
// ?search=.
func (h *ProjectController) Index(c *ctx.Context) {
	clientID, ok := queryInt(c, "clientId")
	if !ok {
		return
	}
	status := c.Query("status")
	if status != "" && !slices.Contains(models.Statuses, status) {
		c.Error(http.StatusBadRequest, "Invalid status")
		return
	}

	recs, err := h.projects.List(c.Context(), repositories.ProjectFilter{
		Status:   status,
		ClientID: clientID,
		Search:   c.Query("search"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(recs)
}

func (h *ProjectController) Show(c *ctx.Context) {
	show(c, "id", h.projects.Get)
}

func (h *ProjectController) Store(c *ctx.Context) {
	var in services.CreateProjectInput
	if !c.BindJSON(&in) {
		return
	}
	project, err := h.projects.Create(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(project)
}

func (h *ProjectController) Update(c *ctx.Context) {
	update(c, &services.UpdateProjectInput{}, h.projects.Update)
}

func (h *ProjectController) UpdateStatus(c *ctx.Context) {
	id, ok := c.ParamInt("id")
	if !ok {
		return
	}
	var in services.StatusInput
	if !c.BindJSON(&in) {
		return
	}
	project, err := h.projects.SetStatus(c.Context(), id, in.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(project)
}

func (h *ProjectController) Destroy(c *ctx.Context) {
	destroy(c, "id", "Project deleted", h.projects.Delete)
}

func (h *ProjectController) Stats(c *ctx.Context) {
	stats, err := h.projects.Stats(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(stats)
}

func (h *ProjectController) MyProjects(c *ctx.Context) {
	recs, err := h.projects.MyProjects(c.Context(), c.Identity().UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(recs)
}

func (h *ProjectController) WorkerProjects(c *ctx.Context) {
	recs, err := h.projects.WorkerProjects(c.Context(), c.Identity().UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(recs)
}

func (h *ProjectController) ByClient(c *ctx.Context) {
	listBy(c, "clientId", h.projects.ByClient)
}

func (h *ProjectController) Progress(c *ctx.Context) {
	id, ok := c.ParamInt("id")
	if !ok {
		return
	}
	p, err := h.projects.Progress(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

// UpdateTaskStatus lets a worker change the status of one of their tasks.
func (h *ProjectController) UpdateTaskStatus(c *ctx.Context) {
	taskID, ok := c.ParamInt("taskId")
	if !ok {
		return
	}
	var in services.StatusInput
	if !c.BindJSON(&in) {
		return
	}
	task, err := h.projects.UpdateTaskStatus(c.Context(), c.Identity(), taskID, in.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(task)
}

// WorkerTasks lists the caller's tasks in one project.
func (h *ProjectController) WorkerTasks(c *ctx.Context) {
	projectID, ok := c.ParamInt("id")
	if !ok {
		return
	}
	recs, err := h.projects.WorkerTasks(c.Context(), projectID, c.Identity().UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(recs)
}
