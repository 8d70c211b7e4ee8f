package bind_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/projectdesk/pkg/bind"
)

type taskInput struct {
	Description *string `json:"description" validate:"omitempty,min=3"`
	WorkerID    *int64  `json:"workerId"`
}

type loginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestJSON(t *testing.T) {
	var in loginInput
	errs, err := bind.JSON(post(`{"email":"a@b.co","password":"x"}`), &in)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "a@b.co", in.Email)
}

func TestJSONValidationErrors(t *testing.T) {
	var in loginInput
	errs, err := bind.JSON(post(`{"email":"nope"}`), &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestJSONMalformed(t *testing.T) {
	var in loginInput
	_, err := bind.JSON(post(`{"email":`), &in)
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = bind.JSON(post(`  `), &in)
	assert.ErrorContains(t, err, "empty body")
}

func TestJSONBodyLimit(t *testing.T) {
	var in loginInput
	big := `{"email":"` + strings.Repeat("a", 2<<20) + `"}`
	_, err := bind.JSON(post(big), &in)
	assert.ErrorContains(t, err, "too large")
}

func TestFieldsKeepsExplicitNull(t *testing.T) {
	var in taskInput
	rec, errs, err := bind.Fields(post(`{"workerId":null}`), &in)
	require.NoError(t, err)
	assert.Empty(t, errs)

	v, present := rec["workerId"]
	assert.True(t, present)
	assert.Nil(t, v)
	_, present = rec["description"]
	assert.False(t, present)
}

func TestFieldsRejectsNonObject(t *testing.T) {
	var in taskInput
	_, _, err := bind.Fields(post(`null`), &in)
	assert.Error(t, err)

	_, _, err = bind.Fields(post(`[1,2]`), &in)
	assert.Error(t, err)
}
