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

// Wanted handles BOLO entries
type Wanted struct {
	DB  databases.WantedDatabase
	LDB databases.AuditLogDatabase
}

type createWantedRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Bounty      int    `json:"bounty"`
}

// ListWantedHandler returns all wanted entries
func (wa Wanted) ListWantedHandler(w http.ResponseWriter, r *http.Request) {
	dbResp, err := wa.DB.Find(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to get wanted entries", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.WantedEntry{}
	}
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "wanted": dbResp})
}

// CreateWantedHandler creates a new wanted entry
func (wa Wanted) CreateWantedHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.UserFrom(r.Context())
	if !ok {
		config.ErrorStatus(models.ErrAuthRequired, http.StatusUnauthorized, w, errors.New("no session"))
		return
	}

	var req createWantedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, errors.New("missing name"))
		return
	}
	if req.Bounty < 0 {
		req.Bounty = 0
	}

	entry := models.WantedEntry{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Bounty:      req.Bounty,
		CreatedAt:   primitive.NewDateTimeFromTime(time.Now().UTC()),
	}
	if _, err := wa.DB.InsertOne(r.Context(), entry); err != nil {
		config.ErrorStatus("failed to create wanted entry", http.StatusInternalServerError, w, err)
		return
	}

	audit(r.Context(), wa.LDB, fmt.Sprintf("Wanted created: %s by %s", entry.Name, actor.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "entry": entry})
}

// DeleteWantedHandler removes a wanted entry, admin only
func (wa Wanted) DeleteWantedHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := api.UserFrom(r.Context())
	if !api.Authorize(actor, api.ActionManageWanted) {
		config.ErrorStatus(models.ErrUnauthorized, http.StatusForbidden, w, errors.New("manage_wanted required"))
		return
	}

	wID, err := primitive.ObjectIDFromHex(mux.Vars(r)["wanted_id"])
	if err != nil {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, err)
		return
	}
	deleted, err := wa.DB.DeleteOne(r.Context(), bson.M{"_id": wID})
	if err != nil {
		config.ErrorStatus("failed to delete wanted entry", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, fmt.Errorf("no wanted entry with id %s", wID.Hex()))
		return
	}

	audit(r.Context(), wa.LDB, fmt.Sprintf("Wanted %s deleted by %s", wID.Hex(), actor.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}
