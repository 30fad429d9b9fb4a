package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/daynight-rp/dispatch-api/api"
	"github.com/daynight-rp/dispatch-api/config"
	"github.com/daynight-rp/dispatch-api/databases"
	"github.com/daynight-rp/dispatch-api/models"
)

// anonymousCaller is recorded when a call comes in without a caller name
const anonymousCaller = "Anonimo"

// Call exported for testing purposes
type Call struct {
	DB  databases.CallDatabase
	LDB databases.AuditLogDatabase
}

type createCallRequest struct {
	Caller  string `json:"caller"`
	Message string `json:"message"`
}

// ListCallsHandler returns all calls
func (c Call) ListCallsHandler(w http.ResponseWriter, r *http.Request) {
	dbResp, err := c.DB.Find(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to get calls", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Call{}
	}
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "calls": dbResp})
}

// CreateCallHandler creates a new pending call
func (c Call) CreateCallHandler(w http.ResponseWriter, r *http.Request) {
	var req createCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus(models.ErrMissingMessage, http.StatusBadRequest, w, err)
		return
	}
	if req.Message == "" {
		config.ErrorStatus(models.ErrMissingMessage, http.StatusBadRequest, w, errors.New("missing message"))
		return
	}
	if req.Caller == "" {
		req.Caller = anonymousCaller
	}

	newCall := models.Call{
		ID:         primitive.NewObjectID(),
		Caller:     req.Caller,
		Message:    req.Message,
		Status:     models.CallStatusPending,
		AssignedTo: nil,
		CreatedAt:  primitive.NewDateTimeFromTime(time.Now().UTC()),
	}
	if _, err := c.DB.InsertOne(r.Context(), newCall); err != nil {
		config.ErrorStatus("failed to create call", http.StatusInternalServerError, w, err)
		return
	}

	audit(r.Context(), c.LDB, fmt.Sprintf("Call created by %s", newCall.Caller))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "call": newCall})
}

// AssignCallHandler assigns a call to the acting user. Re-assigning an
// already assigned call silently overwrites; the later write wins.
func (c Call) AssignCallHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.UserFrom(r.Context())
	if !ok {
		config.ErrorStatus(models.ErrAuthRequired, http.StatusUnauthorized, w, errors.New("no session"))
		return
	}

	cID, err := primitive.ObjectIDFromHex(mux.Vars(r)["call_id"])
	if err != nil {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, err)
		return
	}
	if _, err := c.DB.FindOne(r.Context(), bson.M{"_id": cID}); err != nil {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, err)
		return
	}

	update := bson.M{"$set": bson.M{
		"status":     models.CallStatusAssigned,
		"assignedTo": actor.ID.Hex(),
	}}
	call, err := c.DB.UpdateOne(r.Context(), bson.M{"_id": cID}, update)
	if err != nil {
		config.ErrorStatus("failed to assign call", http.StatusInternalServerError, w, err)
		return
	}

	audit(r.Context(), c.LDB, fmt.Sprintf("Call %s assigned to %s", cID.Hex(), actor.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "call": call})
}

// DeleteCallHandler removes a call. Only an admin or the assigned user
// may delete.
func (c Call) DeleteCallHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.UserFrom(r.Context())
	if !ok {
		config.ErrorStatus(models.ErrAuthRequired, http.StatusUnauthorized, w, errors.New("no session"))
		return
	}

	cID, err := primitive.ObjectIDFromHex(mux.Vars(r)["call_id"])
	if err != nil {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, err)
		return
	}
	call, err := c.DB.FindOne(r.Context(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, err)
		return
	}

	assignedToActor := call.AssignedTo != nil && *call.AssignedTo == actor.ID.Hex()
	if actor.Role != models.RoleAdmin && !assignedToActor {
		config.ErrorStatus(models.ErrUnauthorized, http.StatusForbidden, w, errors.New("only admin or the assigned user may delete a call"))
		return
	}

	deleted, err := c.DB.DeleteOne(r.Context(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to delete call", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus(models.ErrNotFound, http.StatusNotFound, w, fmt.Errorf("no call with id %s", cID.Hex()))
		return
	}

	audit(r.Context(), c.LDB, fmt.Sprintf("Call %s deleted by %s", cID.Hex(), actor.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}
