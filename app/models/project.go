package models

import "github.com/projectdesk/projectdesk/pkg/model"

const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Statuses is shared by projects and tasks.
var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted}

var Project = model.Schema{
	model.F("projectId", model.Number),
	model.F("clientId", model.Number),
	model.F("projectName", model.String),
	model.F("description", model.String),
	model.F("status", model.Enum(Statuses...)),
	model.F("createdAt", model.Date),
	model.F("updatedAt", model.Date),
}

// ProjectWithClient folds the joined client columns (clientName,
// clientEmail, contactInfo) into a nested client summary. Projecting a row
// against it drops the flat columns.
var ProjectWithClient = Project.Extend(
	model.F("client", model.Computed(clientSummary)),
)

func clientSummary(rec, _ model.Record) (any, error) {
	if rec["clientId"] == nil {
		return nil, nil
	}
	return model.Record{
		"clientId":    rec["clientId"],
		"name":        rec["clientName"],
		"email":       rec["clientEmail"],
		"contactInfo": rec["contactInfo"],
	}, nil
}

// StatusCounts reads COUNT/SUM aggregates, which some drivers return as
// decimal text.
var StatusCounts = model.Schema{
	model.F("total", model.Number),
	model.F("completed", model.Number),
	model.F("pending", model.Number),
	model.F("inProgress", model.Number),
}

// Counts is the per-status breakdown reported by the stats endpoints.
type Counts struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
}

// CountsOf reads a row coerced with StatusCounts. SUM over no rows is NULL
// and counts as zero.
func CountsOf(rec model.Record) Counts {
	return Counts{
		Total:      Int(rec["total"]),
		Completed:  Int(rec["completed"]),
		Pending:    Int(rec["pending"]),
		InProgress: Int(rec["inProgress"]),
	}
}

// Int returns a Number field's value, or 0 when it is null or absent.
func Int(v any) int64 {
	n, _ := v.(int64)
	return n
}
