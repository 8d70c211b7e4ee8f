package ctx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/projectdesk/projectdesk/pkg/ctx"
	"github.com/projectdesk/projectdesk/pkg/middleware"
)

func serve(req *http.Request, h appctx.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	appctx.Wrap(h)(rec, req)
	return rec
}

func TestSuccessEnvelope(t *testing.T) {
	rec := serve(httptest.NewRequest(http.MethodGet, "/", nil), func(c *appctx.Context) {
		c.Success(map[string]any{"id": 1})
		assert.Equal(t, http.StatusOK, c.WrittenStatus())
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":200,"data":{"id":1}}`, rec.Body.String())
}

func TestParamInt(t *testing.T) {
	r := chi.NewRouter()
	var got int64
	r.Get("/tasks/{id}", appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.ParamInt("id")
		if !ok {
			return
		}
		got = id
		c.Success(nil)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/12", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), got)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid id")
}

func TestBindJSONValid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"John","email":"john@example.com"}`))

	rec := serve(req, func(c *appctx.Context) {
		var input struct {
			Name  string `json:"name"  validate:"required"`
			Email string `json:"email" validate:"required,email"`
		}
		require.True(t, c.BindJSON(&input))
		assert.Equal(t, "John", input.Name)
		c.Success(nil)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBindJSONInvalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`))

	rec := serve(req, func(c *appctx.Context) {
		var input struct {
			Name string `json:"name" validate:"required"`
		}
		assert.False(t, c.BindJSON(&input))
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"The name field is required."`)
}

func TestBindFieldsMalformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{`))

	rec := serve(req, func(c *appctx.Context) {
		var input struct{}
		_, ok := c.BindFields(&input)
		assert.False(t, ok)
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithIdentity(context.Background(), middleware.Identity{UserID: 5, Role: "Worker"}))

	serve(req, func(c *appctx.Context) {
		assert.Equal(t, int64(5), c.Identity().UserID)
		assert.Equal(t, "Worker", c.Identity().Role)
	})
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")

	serve(req, func(c *appctx.Context) {
		assert.Equal(t, "1.2.3.4", c.ClientIP())
	})
}

func TestErrorResponse(t *testing.T) {
	rec := serve(httptest.NewRequest(http.MethodGet, "/", nil), func(c *appctx.Context) {
		c.NotFound("Resource missing")
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":404,"message":"Resource missing"}`, rec.Body.String())
}
