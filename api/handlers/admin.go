package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/daynight-rp/dispatch-api/api"
	"github.com/daynight-rp/dispatch-api/config"
	"github.com/daynight-rp/dispatch-api/databases"
	"github.com/daynight-rp/dispatch-api/models"
)

// importable names the collections the import endpoint will replace
var importable = []string{"users", "calls", "reports", "wanted", "fines", "alerts", "logs"}

// Admin handles the admin-only export/import surface and the audit log
// query
type Admin struct {
	DB  databases.DatabaseHelper
	UDB databases.UserDatabase
	CDB databases.CallDatabase
	RDB databases.ReportDatabase
	WDB databases.WantedDatabase
	FDB databases.FineDatabase
	ADB databases.AlertDatabase
	LDB databases.AuditLogDatabase
}

// ExportHandler dumps every collection, admin only. Password hashes are
// stripped by the model's json tags.
func (ad Admin) ExportHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := api.UserFrom(r.Context())
	if !api.Authorize(actor, api.ActionExport) {
		config.ErrorStatus(models.ErrUnauthorized, http.StatusForbidden, w, errors.New("export required"))
		return
	}

	users, err := ad.UDB.Find(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to export users", http.StatusInternalServerError, w, err)
		return
	}
	calls, err := ad.CDB.Find(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to export calls", http.StatusInternalServerError, w, err)
		return
	}
	reports, err := ad.RDB.Find(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to export reports", http.StatusInternalServerError, w, err)
		return
	}
	wanted, err := ad.WDB.Find(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to export wanted entries", http.StatusInternalServerError, w, err)
		return
	}
	fines, err := ad.FDB.Find(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to export fines", http.StatusInternalServerError, w, err)
		return
	}
	alerts, err := ad.ADB.Find(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to export alerts", http.StatusInternalServerError, w, err)
		return
	}
	logs, err := ad.LDB.Find(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to export logs", http.StatusInternalServerError, w, err)
		return
	}

	audit(r.Context(), ad.LDB, fmt.Sprintf("Data exported by %s", actor.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ok": true,
		"data": map[string]interface{}{
			"users":   users,
			"calls":   calls,
			"reports": reports,
			"wanted":  wanted,
			"fines":   fines,
			"alerts":  alerts,
			"logs":    logs,
		},
	})
}

// ImportHandler naively replaces the provided collections with the
// posted documents, admin only. Document ids are regenerated.
func (ad Admin) ImportHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := api.UserFrom(r.Context())
	if !api.Authorize(actor, api.ActionExport) {
		config.ErrorStatus(models.ErrUnauthorized, http.StatusForbidden, w, errors.New("export required"))
		return
	}

	var payload map[string][]map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		config.ErrorStatus(models.ErrMissing, http.StatusBadRequest, w, err)
		return
	}

	for _, name := range importable {
		docs, ok := payload[name]
		if !ok {
			continue
		}
		coll := ad.DB.Collection(name)
		if _, err := coll.DeleteMany(r.Context(), bson.D{}); err != nil {
			config.ErrorStatus("failed to clear collection", http.StatusInternalServerError, w, err)
			return
		}
		if len(docs) == 0 {
			continue
		}
		inserts := make([]interface{}, 0, len(docs))
		for _, doc := range docs {
			delete(doc, "id")
			doc["_id"] = primitive.NewObjectID()
			inserts = append(inserts, doc)
		}
		if err := coll.InsertMany(r.Context(), inserts); err != nil {
			config.ErrorStatus("failed to import collection", http.StatusInternalServerError, w, err)
			return
		}
		zap.S().Infow("collection imported", "collection", name, "count", len(inserts))
	}

	audit(r.Context(), ad.LDB, fmt.Sprintf("Data imported by %s", actor.Username))
	config.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// LogsHandler returns a page of the audit log in chronological order,
// admin only
func (ad Admin) LogsHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := api.UserFrom(r.Context())
	if !api.Authorize(actor, api.ActionExport) {
		config.ErrorStatus(models.ErrUnauthorized, http.StatusForbidden, w, errors.New("export required"))
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	page := getPage(0, r)
	limit64 := int64(limit)
	skip64 := int64(page * limit)

	total, err := ad.LDB.CountDocuments(r.Context(), bson.D{})
	if err != nil {
		config.ErrorStatus("failed to count logs", http.StatusInternalServerError, w, err)
		return
	}
	entries, err := ad.LDB.Find(r.Context(), bson.D{}, &options.FindOptions{
		Limit: &limit64,
		Skip:  &skip64,
		Sort:  bson.D{{Key: "t", Value: 1}},
	})
	if err != nil {
		config.ErrorStatus("failed to get logs", http.StatusInternalServerError, w, err)
		return
	}
	if len(entries) == 0 {
		entries = []models.AuditLogEntry{}
	}

	config.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"logs":  entries,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}
