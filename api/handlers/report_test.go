package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/daynight-rp/dispatch-api/api/handlers"
	"github.com/daynight-rp/dispatch-api/databases"
	"github.com/daynight-rp/dispatch-api/databases/mocks"
	"github.com/daynight-rp/dispatch-api/models"
)

// reportDBWith returns a report store whose FindOne decodes into rep
func reportDBWith(rep models.Report) (databases.ReportDatabase, *mocks.CollectionHelper) {
	singleResultHelper := &mocks.SingleResultHelper{}
	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Report)
		**arg = rep
	})
	conn := &mocks.CollectionHelper{}
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "reports").Return(conn)
	return databases.NewReportDatabase(db), conn
}

func TestReport_CreateReportHandlerMissingFields(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/reports/create", strings.NewReader(`{"title":"  ","description":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	req = asUser(req, testOfficer())

	re := handlers.Report{LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(re.CreateReportHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
	if !strings.Contains(rr.Body.String(), models.ErrMissing) {
		t.Errorf("handler returned unexpected body: got %v", rr.Body.String())
	}
}

func TestReport_CreateReportHandlerSuccess(t *testing.T) {
	conn := &mocks.CollectionHelper{}
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "reports").Return(conn)

	req, err := http.NewRequest("POST", "/api/reports/create", strings.NewReader(`{"title":"Traffic stop","description":"routine"}`))
	if err != nil {
		t.Fatal(err)
	}
	req = asUser(req, testOfficer())

	re := handlers.Report{DB: databases.NewReportDatabase(db), LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(re.CreateReportHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	// the author is stamped from the session, not the payload
	if !strings.Contains(rr.Body.String(), `"author":"Alice"`) {
		t.Errorf("expected the acting user as author, got %v", rr.Body.String())
	}
}

func TestReport_DeleteReportHandlerForbidden(t *testing.T) {
	reportID := primitive.NewObjectID()
	reportDB, _ := reportDBWith(models.Report{ID: reportID, Title: "Traffic stop", Author: "Somebody Else"})

	req, err := http.NewRequest("POST", "/api/reports/"+reportID.Hex()+"/delete", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})
	req = asUser(req, testOfficer())

	re := handlers.Report{DB: reportDB, LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(re.DeleteReportHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusForbidden {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusForbidden)
	}
	if !strings.Contains(rr.Body.String(), models.ErrUnauthorized) {
		t.Errorf("handler returned unexpected body: got %v", rr.Body.String())
	}
}

func TestReport_DeleteReportHandlerByAuthor(t *testing.T) {
	actor := testOfficer()
	reportID := primitive.NewObjectID()
	reportDB, conn := reportDBWith(models.Report{ID: reportID, Title: "Traffic stop", Author: actor.Display})
	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(1), nil)

	req, err := http.NewRequest("POST", "/api/reports/"+reportID.Hex()+"/delete", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})
	req = asUser(req, actor)

	re := handlers.Report{DB: reportDB, LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(re.DeleteReportHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
}

func TestReport_DeleteReportHandlerBySergeant(t *testing.T) {
	sergeant := &models.User{ID: primitive.NewObjectID(), Username: "sloane", Display: "Sloane", Role: models.RoleSergeant}
	reportID := primitive.NewObjectID()
	reportDB, conn := reportDBWith(models.Report{ID: reportID, Title: "Traffic stop", Author: "Somebody Else"})
	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(1), nil)

	req, err := http.NewRequest("POST", "/api/reports/"+reportID.Hex()+"/delete", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})
	req = asUser(req, sergeant)

	re := handlers.Report{DB: reportDB, LDB: testAuditLog()}
	rr := httptest.NewRecorder()
	http.HandlerFunc(re.DeleteReportHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
}
