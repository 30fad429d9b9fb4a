package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/daynight-rp/dispatch-api/databases"
)

// audit appends one audit log entry. Failures are logged and swallowed
// so a flaky log write never fails the mutation it describes.
func audit(ctx context.Context, db databases.AuditLogDatabase, msg string) {
	if err := db.Record(ctx, msg); err != nil {
		zap.S().Warnw("failed to append audit log", "msg", msg, "error", err)
	}
}

func getPage(page int, r *http.Request) int {
	if r.URL.Query().Get("page") == "" {
		zap.S().Warnf("page not set, using default of %v", page)
	} else {
		var err error
		page, err = strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			zap.S().Errorf(fmt.Sprintf("error parsing page number: %v", err))
		}
		if page < 0 {
			zap.S().Warnf(fmt.Sprintf("cannot process page number less than 1. Got: %v", page))
			return 0
		}
	}
	return page
}
