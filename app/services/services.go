// Package services holds the business rules of each module. Services take
// validated input, talk to the repositories and return records ready to be
// sent to the client. Failures are reported with the sentinel errors of
// package models.
package services

import (
	"time"

	"github.com/projectdesk/projectdesk/pkg/model"
)

// pick copies the allowed keys present in fields.
func pick(fields model.Record, keys ...string) model.Record {
	out := make(model.Record, len(keys))
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			out[k] = v
		}
	}
	return out
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }
