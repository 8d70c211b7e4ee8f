package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/projectdesk/projectdesk/pkg/ctx"
	"github.com/projectdesk/projectdesk/pkg/model"
)

// list answers with the records returned by fn.
func list(c *ctx.Context, fn func(context.Context) ([]model.Record, error)) {
	recs, err := fn(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(recs)
}

// listBy is list for lookups keyed on an integer path parameter.
func listBy(c *ctx.Context, param string, fn func(context.Context, int64) ([]model.Record, error)) {
	id, ok := c.ParamInt(param)
	if !ok {
		return
	}
	recs, err := fn(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(recs)
}

// show answers with the record fn finds for the {param} path parameter.
func show(c *ctx.Context, param string, fn func(context.Context, int64) (model.Record, error)) {
	id, ok := c.ParamInt(param)
	if !ok {
		return
	}
	rec, err := fn(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(rec)
}

// update binds a partial body against the rules in dest and applies it.
func update(c *ctx.Context, dest any, fn func(context.Context, int64, model.Record) (model.Record, error)) {
	id, ok := c.ParamInt("id")
	if !ok {
		return
	}
	fields, ok := c.BindFields(dest)
	if !ok {
		return
	}
	rec, err := fn(c.Context(), id, fields)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(rec)
}

// destroy deletes the record addressed by {param}.
func destroy(c *ctx.Context, param, message string, fn func(context.Context, int64) error) {
	id, ok := c.ParamInt(param)
	if !ok {
		return
	}
	if err := fn(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message(message)
}

// queryInt parses an optional positive integer query parameter. A malformed
// value sends a 400.
func queryInt(c *ctx.Context, key string) (int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		c.Error(http.StatusBadRequest, "Invalid "+key)
		return 0, false
	}
	return n, true
}
