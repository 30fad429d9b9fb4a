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

// Alert handles alert-related requests
type Alert struct {
	DB  databases.AlertDatabase
	LDB databases.AuditLogDatabase
}

type createAlertRequest struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// ListAlertsHandler returns all alerts
func (a Alert) ListAlertsHandler(w http.ResponseWriter, r *http.Request) {
	dbResp, err := a.DB.Find(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to get alerts", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Alert{}
	}
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "alerts": dbResp})
}

// CreateAlertHandler creates a new alert at the given level
func (a Alert) CreateAlertHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.UserFrom(r.Context())
	if !ok {
		config.ErrorStatus(models.ErrAuthRequired, http.StatusUnauthorized, w, errors.New("no session"))
		return
	}

	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, err)
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, errors.New("missing text"))
		return
	}
	if req.Level == "" {
		req.Level = models.AlertLevelGreen
	}
	if !models.ValidAlertLevel(req.Level) {
		config.ErrorStatus(models.ErrInvalidLevel, http.StatusBadRequest, w, fmt.Errorf("unknown level %q", req.Level))
		return
	}

	alert := models.Alert{
		ID:        primitive.NewObjectID(),
		Level:     req.Level,
		Text:      req.Text,
		CreatedBy: actor.Username,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now().UTC()),
	}
	if _, err := a.DB.InsertOne(r.Context(), alert); err != nil {
		config.ErrorStatus("failed to create alert", http.StatusInternalServerError, w, err)
		return
	}

	audit(r.Context(), a.LDB, fmt.Sprintf("Alert created: %s - %s", alert.Level, alert.Text))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "alert": alert})
}

// DeleteAlertHandler removes an alert, admin only
func (a Alert) DeleteAlertHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := api.UserFrom(r.Context())
	if !api.Authorize(actor, api.ActionManageAlerts) {
		config.ErrorStatus(models.ErrUnauthorized, http.StatusForbidden, w, errors.New("manage_alerts required"))
		return
	}

	aID, err := primitive.ObjectIDFromHex(mux.Vars(r)["alert_id"])
	if err != nil {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, err)
		return
	}
	deleted, err := a.DB.DeleteOne(r.Context(), bson.M{"_id": aID})
	if err != nil {
		config.ErrorStatus("failed to delete alert", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, fmt.Errorf("no alert with id %s", aID.Hex()))
		return
	}

	audit(r.Context(), a.LDB, fmt.Sprintf("Alert %s deleted by %s", aID.Hex(), actor.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}
