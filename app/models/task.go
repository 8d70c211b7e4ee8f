package models

import "github.com/projectdesk/projectdesk/pkg/model"

// Events published on the task feed.
const (
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
	EventTaskDeleted = "task.deleted"
)

var Task = model.Schema{
	model.F("taskId", model.Number),
	model.F("projectId", model.Number),
	model.F("workerId", model.Number),
	model.F("description", model.String),
	model.F("status", model.String),
	model.F("createdAt", model.Date),
	model.F("updatedAt", model.Date),
}

// TaskDetail is a task joined with its project and worker.
var TaskDetail = Task.Extend(
	model.F("projectName", model.String),
	model.F("projectDescription", model.String),
	model.F("projectStatus", model.String),
	model.F("workerName", model.String),
	model.F("workerEmail", model.String),
)

var WorkerPerformance = model.Schema{
	model.F("workerId", model.Number),
	model.F("totalTasks", model.Number),
	model.F("completedTasks", model.Number),
	model.F("inProgressTasks", model.Number),
	model.F("pendingTasks", model.Number),
}
