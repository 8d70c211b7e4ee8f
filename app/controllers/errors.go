// Package controllers adapts the services to HTTP: each handler binds and
// validates its input, calls one service method and writes the envelope.
package controllers

import (
	"context"
	"net/http"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/pkg/ctx"
	"github.com/projectdesk/projectdesk/pkg/logger"
	"github.com/projectdesk/projectdesk/pkg/model"
	"github.com/projectdesk/projectdesk/pkg/response"
)

var errorStatus = response.Rules{
	{Target: models.ErrInvalidCredentials, Status: http.StatusUnauthorized},
	{Target: models.ErrForbidden, Status: http.StatusForbidden},
	{Target: models.ErrNotFound, Status: http.StatusNotFound},
	{Target: models.ErrConflict, Status: http.StatusConflict},
	{Target: models.ErrInvalid, Status: http.StatusBadRequest},
	{Target: model.ErrEmptyRecord, Status: http.StatusBadRequest},
	{Target: context.DeadlineExceeded, Status: http.StatusGatewayTimeout, Message: "The request took too long"},
}

// fail writes the response for a service error. Known errors keep their
// message; anything else is logged and answered with a generic 500.
func fail(c *ctx.Context, err error) {
	status, message, known := errorStatus.Resolve(err)
	c.Error(status, message)
	if !known {
		logger.WithCtx(c.Context()).Error("request failed",
			"method", c.R.Method, "path", c.R.URL.Path, "error", err)
	}
}
