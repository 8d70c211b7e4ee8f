package graphql_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	gql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/projectdesk/pkg/graphql"
	"github.com/projectdesk/projectdesk/pkg/model"
)

func testSchema(t *testing.T) gql.Schema {
	t.Helper()

	owner := gql.NewObject(gql.ObjectConfig{
		Name:   "Owner",
		Fields: gql.Fields{"name": &gql.Field{Type: gql.String}},
	})
	item := gql.NewObject(gql.ObjectConfig{
		Name: "Item",
		Fields: gql.Fields{
			"itemId": &gql.Field{Type: gql.Int},
			"title":  &gql.Field{Type: gql.String},
			"owner":  &gql.Field{Type: owner},
		},
	})

	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"items": &gql.Field{
				Type: gql.NewList(item),
				Args: gql.FieldConfigArgument{"title": &gql.ArgumentConfig{Type: gql.String}},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					recs := []model.Record{
						{"itemId": int64(1), "title": "first", "owner": model.Record{"name": "ana"}},
						{"itemId": int64(2), "title": "second"},
					}
					if title, ok := p.Args["title"].(string); ok {
						var filtered []model.Record
						for _, r := range recs {
							if r["title"] == title {
								filtered = append(filtered, r)
							}
						}
						recs = filtered
					}
					return graphql.Maps(recs), nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(query)
	require.NoError(t, err)
	return schema
}

type result struct {
	Data struct {
		Items []struct {
			ItemID int    `json:"itemId"`
			Title  string `json:"title"`
			Owner  *struct {
				Name string `json:"name"`
			} `json:"owner"`
		} `json:"items"`
	} `json:"data"`
	Errors []map[string]interface{} `json:"errors"`
}

func TestHandlerPost(t *testing.T) {
	h := graphql.Handler(testSchema(t))

	body := `{"query":"query($t: String){ items(title: $t) { itemId title owner { name } } }","variables":{"t":"first"}}`
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var res result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Data.Items, 1)
	assert.Equal(t, 1, res.Data.Items[0].ItemID)
	require.NotNil(t, res.Data.Items[0].Owner)
	assert.Equal(t, "ana", res.Data.Items[0].Owner.Name)
}

func TestHandlerGet(t *testing.T) {
	h := graphql.Handler(testSchema(t))

	q := url.Values{"query": {"{ items { title } }"}}
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/graphql?"+q.Encode(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var res result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Data.Items, 2)
}

func TestHandlerRejectsBadRequests(t *testing.T) {
	h := graphql.Handler(testSchema(t))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":""}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodDelete, "/graphql", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlerReportsQueryErrors(t *testing.T) {
	h := graphql.Handler(testSchema(t))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ nope }"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var res result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Errors)
}

func TestMapNilStaysNil(t *testing.T) {
	assert.Nil(t, graphql.Map(nil))
	assert.NotNil(t, graphql.Maps(nil))
}
