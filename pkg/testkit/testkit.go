// Package testkit holds the helpers shared by repository, service and
// controller tests: a migrated SQLite store and table-driven HTTP cases.
//
//	store := testkit.Store(t)
//	h := routesUnderTest(store)
//	testkit.Run(t, h,
//	    testkit.Case{Name: "list faqs", Method: "GET", URL: "/api/faqs", ExpectedCode: 200},
//	)
package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "github.com/projectdesk/projectdesk/database/migrations"
	"github.com/projectdesk/projectdesk/pkg/migration"
	"github.com/projectdesk/projectdesk/pkg/model"
)

// Store opens a fresh SQLite database in a temp dir, runs every registered
// migration and returns a store over it. The database is closed when the
// test ends.
func Store(t testing.TB) *model.Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "projectdesk.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = migration.New(db, nil).Run()
	require.NoError(t, err)

	return model.NewStore(db)
}

// Case is one HTTP request and the status it must answer with. Body is
// JSON-encoded unless it is already a string or []byte.
type Case struct {
	Name         string
	Method       string
	URL          string
	Body         any
	Token        string
	Headers      map[string]string
	ExpectedCode int
	ExpectedBody string // optional JSON, compared ignoring key order
}

// Run executes each case as a subtest.
func Run(t *testing.T, h http.Handler, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			rec := Do(t, h, c)
			assert.Equal(t, c.ExpectedCode, rec.Code, "body: %s", rec.Body.String())
			if c.ExpectedBody != "" {
				AssertJSONBody(t, []byte(c.ExpectedBody), rec.Body.Bytes())
			}
		})
	}
}

// Do fires a single case and returns the recorded response.
func Do(t testing.TB, h http.Handler, c Case) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	switch b := c.Body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	case []byte:
		body = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	method := c.Method
	if method == "" {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, c.URL, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Envelope is the decoded response body.
type Envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// Decode unmarshals the envelope of rec and, when dest is non-nil, its data.
func Decode(t testing.TB, rec *httptest.ResponseRecorder, dest any) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	if dest != nil {
		require.NoError(t, json.Unmarshal(env.Data, dest), "data: %s", string(env.Data))
	}
	return env
}

// AssertJSONBody compares two JSON documents after decoding both, so key
// order and whitespace never matter.
func AssertJSONBody(t testing.TB, expected, actual []byte) {
	t.Helper()

	var expVal, actVal any
	require.NoError(t, json.Unmarshal(expected, &expVal), "expected body is not valid JSON")
	if !assert.NoError(t, json.Unmarshal(actual, &actVal), "actual body is not valid JSON\nbody: %s", string(actual)) {
		return
	}
	assert.Equal(t, expVal, actVal, "response body mismatch")
}
