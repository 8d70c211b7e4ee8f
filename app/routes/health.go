package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/projectdesk/projectdesk/pkg/cache"
	"github.com/projectdesk/projectdesk/pkg/model"
	"github.com/projectdesk/projectdesk/pkg/response"
)

// health reports whether the database answers, and whether Redis is in use.
func health(w http.ResponseWriter, r *http.Request, store *model.Store) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"database": "up", "cache": "disabled"}
	code := http.StatusOK
	if err := store.Ping(ctx); err != nil {
		status["database"] = "down"
		code = http.StatusServiceUnavailable
	}
	if cache.Enabled() {
		status["cache"] = "up"
		if err := cache.RDB.Ping(ctx).Err(); err != nil {
			status["cache"] = "down"
		}
	}
	response.JSON(w, code, response.Envelope{Status: code, Data: status})
}
