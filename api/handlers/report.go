package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/daynight-rp/dispatch-api/api"
	"github.com/daynight-rp/dispatch-api/config"
	"github.com/daynight-rp/dispatch-api/databases"
	"github.com/daynight-rp/dispatch-api/models"
)

// Report handles report-related requests
type Report struct {
	DB  databases.ReportDatabase
	LDB databases.AuditLogDatabase
}

type createReportRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ListReportsHandler returns all reports
func (re Report) ListReportsHandler(w http.ResponseWriter, r *http.Request) {
	dbResp, err := re.DB.Find(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Report{}
	}
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "reports": dbResp})
}

// CreateReportHandler creates a new report authored by the acting user
func (re Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.UserFrom(r.Context())
	if !ok {
		config.ErrorStatus(models.ErrAuthRequired, http.StatusUnauthorized, w, errors.New("no session"))
		return
	}

	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, errors.New("title and description required"))
		return
	}

	report := models.Report{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Author:      actor.Display,
		CreatedAt:   primitive.NewDateTimeFromTime(time.Now().UTC()),
	}
	if _, err := re.DB.InsertOne(r.Context(), report); err != nil {
		config.ErrorStatus("failed to create report", http.StatusInternalServerError, w, err)
		return
	}

	audit(r.Context(), re.LDB, fmt.Sprintf("Report created: %s by %s", report.Title, actor.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "report": report})
}

// DeleteReportHandler removes a report. An admin, a sergeant or the
// report's author may delete.
func (re Report) DeleteReportHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.UserFrom(r.Context())
	if !ok {
		config.ErrorStatus(models.ErrAuthRequired, http.StatusUnauthorized, w, errors.New("no session"))
		return
	}

	rID, err := primitive.ObjectIDFromHex(mux.Vars(r)["report_id"])
	if err != nil {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, err)
		return
	}
	report, err := re.DB.FindOne(r.Context(), bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, err)
		return
	}

	if !api.Authorize(actor, api.ActionDeleteReports) && report.Author != actor.Display {
		config.ErrorStatus(models.ErrUnauthorized, http.StatusForbidden, w, errors.New("delete_reports or authorship required"))
		return
	}

	deleted, err := re.DB.DeleteOne(r.Context(), bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("failed to delete report", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, fmt.Errorf("no report with id %s", rID.Hex()))
		return
	}

	audit(r.Context(), re.LDB, fmt.Sprintf("Report %s deleted by %s", rID.Hex(), actor.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}
