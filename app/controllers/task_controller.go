package controllers

import (
	"net/http"
	"net/url"

	"github.com/projectdesk/projectdesk/app/repositories"
	"github.com/projectdesk/projectdesk/app/services"
	"github.com/projectdesk/projectdesk/pkg/ctx"
)

type TaskController struct {
	tasks *services.TaskService
}

func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{tasks: tasks}
}

func (h *TaskController) Store(c *ctx.Context) {
	var in services.CreateTaskInput
	if !c.BindJSON(&in) {
		return
	}
	task, err := h.tasks.Create(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(task)
}

// filter reads ?projectId=, ?workerId= and ?status=.
func filter(c *ctx.Context) (repositories.TaskFilter, bool) {
	projectID, ok := queryInt(c, "projectId")
	if !ok {
		return repositories.TaskFilter{}, false
	}
	workerID, ok := queryInt(c, "workerId")
	if !ok {
		return repositories.TaskFilter{}, false
	}
	return repositories.TaskFilter{ProjectID: projectID, WorkerID: workerID, Status: c.Query("status")}, true
}

func (h *TaskController) Index(c *ctx.Context) {
	f, ok := filter(c)
	if !ok {
		return
	}
	recs, err := h.tasks.List(c.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(recs)
}

func (h *TaskController) Show(c *ctx.Context) {
	show(c, "id", h.tasks.Get)
}

func (h *TaskController) Update(c *ctx.Context) {
	update(c, &services.UpdateTaskInput{}, h.tasks.Update)
}

func (h *TaskController) Destroy(c *ctx.Context) {
	destroy(c, "id", "Task deleted", h.tasks.Delete)
}

func (h *TaskController) ByProject(c *ctx.Context) {
	listBy(c, "projectId", h.tasks.ByProject)
}

func (h *TaskController) ByWorker(c *ctx.Context) {
	listBy(c, "workerId", h.tasks.ByWorker)
}

func (h *TaskController) ByStatus(c *ctx.Context) {
	status, err := url.PathUnescape(c.Param("status"))
	if err != nil {
		c.Error(http.StatusBadRequest, "Invalid status")
		return
	}
	recs, err := h.tasks.ByStatus(c.Context(), status)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(recs)
}

func (h *TaskController) Detailed(c *ctx.Context) {
	f, ok := filter(c)
	if !ok {
		return
	}
	recs, err := h.tasks.Detailed(c.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(recs)
}

func (h *TaskController) DetailedShow(c *ctx.Context) {
	show(c, "id", h.tasks.DetailedByID)
}

func (h *TaskController) Stats(c *ctx.Context) {
	stats, err := h.tasks.Stats(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(stats)
}

func (h *TaskController) DateRange(c *ctx.Context) {
	recs, err := h.tasks.DateRange(c.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(recs)
}

func (h *TaskController) Performance(c *ctx.Context) {
	id, ok := c.ParamInt("workerId")
	if !ok {
		return
	}
	perf, err := h.tasks.Performance(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(perf)
}

func (h *TaskController) BulkAssign(c *ctx.Context) {
	var in services.BulkAssignInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := h.tasks.BulkAssign(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(res)
}

func (h *TaskController) BulkUpdateStatus(c *ctx.Context) {
	var in services.BulkStatusInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := h.tasks.BulkUpdateStatus(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(res)
}
