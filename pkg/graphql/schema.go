// Package graphql serves a read-only GraphQL endpoint over the model layer.
//
// Resolvers return model.Record values; Maps converts them so the default
// field resolver can read the camelCase keys directly.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/projectdesk/projectdesk/pkg/model"
)

// NewSchema creates a new GraphQL schema from a provided RootQuery
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Map converts a record, and any nested records, to the plain map type the
// default resolver understands. A nil record stays nil.
func Map(rec model.Record) map[string]interface{} {
	if rec == nil {
		return nil
	}
	out := make(map[string]interface{}, len(rec))
	for k, v := range rec {
		out[k] = plain(v)
	}
	return out
}

// Maps converts a slice of records. The result is never nil.
func Maps(recs []model.Record) []interface{} {
	out := make([]interface{}, len(recs))
	for i, r := range recs {
		out[i] = Map(r)
	}
	return out
}

func plain(v interface{}) interface{} {
	switch t := v.(type) {
	case model.Record:
		return Map(t)
	case []model.Record:
		return Maps(t)
	default:
		return v
	}
}
