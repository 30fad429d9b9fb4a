package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/daynight-rp/dispatch-api/api/handlers"
	"github.com/daynight-rp/dispatch-api/databases"
	"github.com/daynight-rp/dispatch-api/databases/mocks"
	"github.com/daynight-rp/dispatch-api/models"
)

// emptyCollection returns a collection whose Find decodes nothing and
// whose bulk operations succeed
func emptyCollection() *mocks.CollectionHelper {
	cursorHelper := &mocks.CursorHelper{}
	cursorHelper.On("Decode", mock.Anything).Return(nil)
	conn := &mocks.CollectionHelper{}
	conn.On("Find", mock.Anything, mock.Anything).Return(cursorHelper, nil)
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)
	conn.On("DeleteMany", mock.Anything, mock.Anything).Return(int64(0), nil)
	conn.On("InsertMany", mock.Anything, mock.Anything).Return(nil)
	return conn
}

func adminWith(db *mocks.DatabaseHelper) handlers.Admin {
	return handlers.Admin{
		DB:  db,
		UDB: databases.NewUserDatabase(db),
		CDB: databases.NewCallDatabase(db),
		RDB: databases.NewReportDatabase(db),
		WDB: databases.NewWantedDatabase(db),
		FDB: databases.NewFineDatabase(db),
		ADB: databases.NewAlertDatabase(db),
		LDB: databases.NewAuditLogDatabase(db),
	}
}

func TestAdmin_ExportHandlerForbidden(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/export", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = asUser(req, testOfficer())

	ad := handlers.Admin{}
	rr := httptest.NewRecorder()
	http.HandlerFunc(ad.ExportHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusForbidden {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusForbidden)
	}
	if !strings.Contains(rr.Body.String(), models.ErrUnauthorized) {
		t.Errorf("handler returned unexpected body: got %v", rr.Body.String())
	}
}

func TestAdmin_ExportHandlerDumpsAllCollections(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	db.On("Collection", mock.Anything).Return(emptyCollection())

	req, err := http.NewRequest("GET", "/api/export", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = asUser(req, testAdmin())

	ad := adminWith(db)
	rr := httptest.NewRecorder()
	http.HandlerFunc(ad.ExportHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	for _, name := range []string{"users", "calls", "reports", "wanted", "fines", "alerts", "logs"} {
		if !strings.Contains(rr.Body.String(), `"`+name+`"`) {
			t.Errorf("expected %q in the export, got %v", name, rr.Body.String())
		}
	}
}

func TestAdmin_ImportHandlerForbidden(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/import", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	req = asUser(req, testOfficer())

	ad := handlers.Admin{}
	rr := httptest.NewRecorder()
	http.HandlerFunc(ad.ImportHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusForbidden {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusForbidden)
	}
}

func TestAdmin_ImportHandlerReplacesCollection(t *testing.T) {
	alerts := emptyCollection()
	logs := emptyCollection()
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "alerts").Return(alerts)
	db.On("Collection", "logs").Return(logs)

	body := `{"alerts":[{"id":"abc","level":"red","text":"lockdown"}]}`
	req, err := http.NewRequest("POST", "/api/import", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req = asUser(req, testAdmin())

	ad := adminWith(db)
	rr := httptest.NewRecorder()
	http.HandlerFunc(ad.ImportHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	alerts.AssertCalled(t, "DeleteMany", mock.Anything, mock.Anything)
	alerts.AssertCalled(t, "InsertMany", mock.Anything, mock.MatchedBy(func(docs []interface{}) bool {
		if len(docs) != 1 {
			return false
		}
		doc := docs[0].(map[string]interface{})
		// the client id is dropped and a fresh one generated
		_, hasOld := doc["id"]
		_, hasNew := doc["_id"]
		return !hasOld && hasNew
	}))
}

func TestAdmin_LogsHandlerForbidden(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/logs", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = asUser(req, testOfficer())

	ad := handlers.Admin{}
	rr := httptest.NewRecorder()
	http.HandlerFunc(ad.LogsHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusForbidden {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusForbidden)
	}
}

func TestAdmin_LogsHandlerPaginates(t *testing.T) {
	cursorHelper := &mocks.CursorHelper{}
	cursorHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.AuditLogEntry)
		*arg = []models.AuditLogEntry{{Msg: "Session started: alice"}}
	})
	conn := &mocks.CollectionHelper{}
	conn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(120), nil)
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursorHelper, nil)
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "logs").Return(conn)

	req, err := http.NewRequest("GET", "/api/logs?limit=25&page=2", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = asUser(req, testAdmin())

	ad := handlers.Admin{LDB: databases.NewAuditLogDatabase(db)}
	rr := httptest.NewRecorder()
	http.HandlerFunc(ad.LogsHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	for _, want := range []string{`"page":2`, `"limit":25`, `"total":120`, "Session started: alice"} {
		if !strings.Contains(rr.Body.String(), want) {
			t.Errorf("expected %q in the response, got %v", want, rr.Body.String())
		}
	}
}
