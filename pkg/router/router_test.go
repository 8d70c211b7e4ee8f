package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/projectdesk/pkg/router"
)

func TestGroupMountsWithPrefixAndMiddleware(t *testing.T) {
	r := router.New()

	tag := func(v string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Add("X-Chain", v)
				next.ServeHTTP(w, req)
			})
		}
	}

	tasks := r.Group("/tasks", tag("group"))
	tasks.Put("/{id}", "tasks.update", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(chi.URLParam(req, "id")))
	}, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/tasks/42", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())
	assert.Equal(t, []string{"group", "route"}, rec.Header().Values("X-Chain"))

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/42", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	api := r.Group("projects")
	api.Get("/{id}/progress", "projects.progress", func(http.ResponseWriter, *http.Request) {})

	path, ok := r.Path("projects.progress")
	require.True(t, ok)
	assert.Equal(t, "/projects/{id}/progress", path)

	url, err := r.URL("projects.progress", map[string]string{"id": "9"})
	require.NoError(t, err)
	assert.Equal(t, "/projects/9/progress", url)

	_, err = r.URL("projects.progress", nil)
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesAreSorted(t *testing.T) {
	r := router.New()
	noop := func(http.ResponseWriter, *http.Request) {}

	g := r.Group("/faqs")
	g.Post("/", "faqs.store", noop)
	g.Get("/", "faqs.index", noop)
	g.Delete("/{id}", "faqs.destroy", noop)
	r.Handle("/metrics", "", http.NotFoundHandler())

	routes := r.Routes()
	require.Len(t, routes, 4)
	assert.Equal(t, router.Route{Method: http.MethodGet, Path: "/faqs", Name: "faqs.index"}, routes[0])
	assert.Equal(t, http.MethodPost, routes[1].Method)
	assert.Equal(t, "/faqs/{id}", routes[2].Path)
	assert.Equal(t, router.Route{Method: "*", Path: "/metrics"}, routes[3])
}
