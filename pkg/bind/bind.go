// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/projectdesk/projectdesk/config"
	"github.com/projectdesk/projectdesk/pkg/model"
	"github.com/projectdesk/projectdesk/pkg/validate"
)

// maxBodyBytes returns BODY_LIMIT (default 1 MB).
func maxBodyBytes() int64 {
	if n := config.Current().App.BodyLimit; n > 0 {
		return n
	}
	return 1 << 20
}

// JSON decodes r.Body as JSON into dest and runs validation.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	body, err := read(r)
	if err != nil {
		return nil, err
	}
	return decode(body, dest)
}

// Fields is JSON for partial updates: besides filling dest it returns the
// body as a Record, so callers can tell an omitted field from an explicit
// null.
func Fields(r *http.Request, dest interface{}) (model.Record, map[string]string, error) {
	body, err := read(r)
	if err != nil {
		return nil, nil, err
	}

	var rec model.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if rec == nil {
		return nil, nil, errors.New("invalid JSON: expected an object")
	}

	errs, err := decode(body, dest)
	return rec, errs, err
}

func read(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, errors.New("invalid JSON: empty body")
	}
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes()))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("invalid JSON: empty body")
	}
	return body, nil
}

func decode(body []byte, dest interface{}) (map[string]string, error) {
	if err := json.Unmarshal(body, dest); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
