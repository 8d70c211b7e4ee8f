package response_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/projectdesk/pkg/response"
)

var errMissing = errors.New("missing")

var rules = response.Rules{
	{Target: errMissing, Status: http.StatusNotFound},
	{Target: context.DeadlineExceeded, Status: http.StatusGatewayTimeout, Message: "too slow"},
}

func TestFromErrorMatchesWrappedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	known := response.FromError(w, rules, fmt.Errorf("task 4: %w", errMissing))

	assert.True(t, known)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "task 4: missing", env.Message)
}

func TestResolveUsesRuleMessage(t *testing.T) {
	status, msg, known := rules.Resolve(context.DeadlineExceeded)
	assert.True(t, known)
	assert.Equal(t, http.StatusGatewayTimeout, status)
	assert.Equal(t, "too slow", msg)
}

func TestUnknownErrorsAreHidden(t *testing.T) {
	w := httptest.NewRecorder()
	known := response.FromError(w, rules, errors.New("dial tcp: refused"))

	assert.False(t, known)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "refused")
}

func TestValidationErrorCarriesFields(t *testing.T) {
	w := httptest.NewRecorder()
	response.ValidationError(w, map[string]string{"email": "email is required"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"status":422,"message":"Validation failed","errors":{"email":"email is required"}}`, w.Body.String())
}
