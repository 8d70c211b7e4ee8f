// Package graphql exposes FAQs, projects and tasks as a read-only GraphQL
// schema backed by the services.
package graphql

import (
	"context"
	"errors"

	gql "github.com/graphql-go/graphql"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/app/repositories"
	"github.com/projectdesk/projectdesk/app/services"
	gqlhttp "github.com/projectdesk/projectdesk/pkg/graphql"
	"github.com/projectdesk/projectdesk/pkg/model"
)

var faqType = gql.NewObject(gql.ObjectConfig{
	Name: "FAQ",
	Fields: gql.Fields{
		"faqId":     &gql.Field{Type: gql.Int},
		"question":  &gql.Field{Type: gql.String},
		"answer":    &gql.Field{Type: gql.String},
		"createdAt": &gql.Field{Type: gql.String},
	},
})

var clientSummaryType = gql.NewObject(gql.ObjectConfig{
	Name: "ClientSummary",
	Fields: gql.Fields{
		"clientId":    &gql.Field{Type: gql.Int},
		"name":        &gql.Field{Type: gql.String},
		"email":       &gql.Field{Type: gql.String},
		"contactInfo": &gql.Field{Type: gql.String},
	},
})

var projectType = gql.NewObject(gql.ObjectConfig{
	Name: "Project",
	Fields: gql.Fields{
		"projectId":   &gql.Field{Type: gql.Int},
		"clientId":    &gql.Field{Type: gql.Int},
		"projectName": &gql.Field{Type: gql.String},
		"description": &gql.Field{Type: gql.String},
		"status":      &gql.Field{Type: gql.String},
		"createdAt":   &gql.Field{Type: gql.String},
		"updatedAt":   &gql.Field{Type: gql.String},
		"client":      &gql.Field{Type: clientSummaryType},
	},
})

var taskType = gql.NewObject(gql.ObjectConfig{
	Name: "Task",
	Fields: gql.Fields{
		"taskId":             &gql.Field{Type: gql.Int},
		"projectId":          &gql.Field{Type: gql.Int},
		"workerId":           &gql.Field{Type: gql.Int},
		"description":        &gql.Field{Type: gql.String},
		"status":             &gql.Field{Type: gql.String},
		"createdAt":          &gql.Field{Type: gql.String},
		"updatedAt":          &gql.Field{Type: gql.String},
		"projectName":        &gql.Field{Type: gql.String},
		"projectDescription": &gql.Field{Type: gql.String},
		"projectStatus":      &gql.Field{Type: gql.String},
		"workerName":         &gql.Field{Type: gql.String},
		"workerEmail":        &gql.Field{Type: gql.String},
	},
})

// Resolvers holds the services the queries read from.
type Resolvers struct {
	FAQs     *services.FAQService
	Projects *services.ProjectService
	Tasks    *services.TaskService
}

// Schema builds the query root.
func Schema(r Resolvers) (gql.Schema, error) {
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"faqs": &gql.Field{
				Type: gql.NewList(faqType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return many(r.FAQs.List(p.Context))
				},
			},
			"faq": &gql.Field{
				Type: faqType,
				Args: idArg,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return one(p, r.FAQs.Get)
				},
			},
			"projects": &gql.Field{
				Type: gql.NewList(projectType),
				Args: gql.FieldConfigArgument{
					"status":   &gql.ArgumentConfig{Type: gql.String},
					"clientId": &gql.ArgumentConfig{Type: gql.Int},
					"search":   &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return many(r.Projects.List(p.Context, repositories.ProjectFilter{
						Status:   str(p.Args, "status"),
						ClientID: num(p.Args, "clientId"),
						Search:   str(p.Args, "search"),
					}))
				},
			},
			"project": &gql.Field{
				Type: projectType,
				Args: idArg,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return one(p, r.Projects.Get)
				},
			},
			"tasks": &gql.Field{
				Type: gql.NewList(taskType),
				Args: gql.FieldConfigArgument{
					"projectId": &gql.ArgumentConfig{Type: gql.Int},
					"workerId":  &gql.ArgumentConfig{Type: gql.Int},
					"status":    &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return many(r.Tasks.Detailed(p.Context, repositories.TaskFilter{
						ProjectID: num(p.Args, "projectId"),
						WorkerID:  num(p.Args, "workerId"),
						Status:    str(p.Args, "status"),
					}))
				},
			},
			"task": &gql.Field{
				Type: taskType,
				Args: idArg,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return one(p, r.Tasks.DetailedByID)
				},
			},
		},
	})
	return gqlhttp.NewSchema(query)
}

var idArg = gql.FieldConfigArgument{
	"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
}

func many(recs []model.Record, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return gqlhttp.Maps(recs), nil
}

// one resolves a lookup by id. A missing record resolves to null.
func one(p gql.ResolveParams, find func(context.Context, int64) (model.Record, error)) (interface{}, error) {
	rec, err := find(p.Context, num(p.Args, "id"))
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return gqlhttp.Map(rec), nil
}

func str(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func num(args map[string]interface{}, key string) int64 {
	n, _ := args[key].(int)
	return int64(n)
}
