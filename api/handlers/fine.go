package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/daynight-rp/dispatch-api/api"
	"github.com/daynight-rp/dispatch-api/config"
	"github.com/daynight-rp/dispatch-api/databases"
	"github.com/daynight-rp/dispatch-api/models"
)

// Fine handles fine-related requests. Fines are create-only: there is
// no edit or delete surface.
type Fine struct {
	DB  databases.FineDatabase
	LDB databases.AuditLogDatabase
}

type createFineRequest struct {
	Offender string `json:"offender"`
	Amount   int    `json:"amount"`
	Reason   string `json:"reason"`
}

// ListFinesHandler returns all fines
func (f Fine) ListFinesHandler(w http.ResponseWriter, r *http.Request) {
	dbResp, err := f.DB.Find(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to get fines", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Fine{}
	}
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "fines": dbResp})
}

// CreateFineHandler creates a new fine issued by the acting user
func (f Fine) CreateFineHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.UserFrom(r.Context())
	if !ok {
		config.ErrorStatus(models.ErrAuthRequired, http.StatusUnauthorized, w, errors.New("no session"))
		return
	}

	var req createFineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, err)
		return
	}
	req.Offender = strings.TrimSpace(req.Offender)
	if req.Offender == "" || req.Amount <= 0 {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, errors.New("offender and a positive amount required"))
		return
	}

	fine := models.Fine{
		ID:        primitive.NewObjectID(),
		Offender:  req.Offender,
		Amount:    req.Amount,
		Reason:    strings.TrimSpace(req.Reason),
		Author:    actor.Display,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now().UTC()),
	}
	if _, err := f.DB.InsertOne(r.Context(), fine); err != nil {
		config.ErrorStatus("failed to create fine", http.StatusInternalServerError, w, err)
		return
	}

	audit(r.Context(), f.LDB, fmt.Sprintf("Fine created: %s %d by %s", fine.Offender, fine.Amount, actor.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "fine": fine})
}
